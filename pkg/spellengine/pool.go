package spellengine

import (
	"fmt"
	"log"
	"time"
)

// DefaultResyncWait bounds how long a runtime word change waits to reach
// every pooled worker before giving up on the stragglers.
const DefaultResyncWait = 100 * time.Millisecond

// Pool spreads checking across several engine instances so concurrent
// callers do not serialize on one handle. It implements Engine itself, so
// the dictionary layer does not care whether it holds one engine or many.
//
// Runtime word changes must reach every worker. The pool acquires workers
// one by one under a bounded total wait; workers it cannot acquire in time
// are skipped, which is safe because the dictionary layer consults its own
// word sets before asking any engine.
type Pool struct {
	workers    chan Engine
	size       int
	resyncWait time.Duration
}

// NewPool builds a pool of size engines from the open function. On failure
// the engines opened so far are closed.
func NewPool(size int, resyncWait time.Duration, open func() (Engine, error)) (*Pool, error) {
	if size < 1 {
		size = 1
	}
	if resyncWait <= 0 {
		resyncWait = DefaultResyncWait
	}
	p := &Pool{
		workers:    make(chan Engine, size),
		size:       size,
		resyncWait: resyncWait,
	}
	for i := 0; i < size; i++ {
		eng, err := open()
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("opening pooled engine %d: %w", i, err)
		}
		p.workers <- eng
	}
	return p, nil
}

// Size returns the number of pooled engines.
func (p *Pool) Size() int { return p.size }

func (p *Pool) Check(word string) bool {
	eng := <-p.workers
	ok := eng.Check(word)
	p.workers <- eng
	return ok
}

func (p *Pool) Suggest(word string) []string {
	eng := <-p.workers
	out := eng.Suggest(word)
	p.workers <- eng
	return out
}

func (p *Pool) AddRuntimeWord(word string) {
	p.resync(word, Engine.AddRuntimeWord)
}

func (p *Pool) RemoveRuntimeWord(word string) {
	p.resync(word, Engine.RemoveRuntimeWord)
}

// resync applies a runtime word change to as many workers as can be
// acquired before the deadline.
func (p *Pool) resync(word string, apply func(Engine, string)) {
	deadline := time.NewTimer(p.resyncWait)
	defer deadline.Stop()

	var held []Engine
	for len(held) < p.size {
		select {
		case eng := <-p.workers:
			held = append(held, eng)
		case <-deadline.C:
			log.Printf("[SpellEngine] Resync of %q reached %d of %d workers before timeout", word, len(held), p.size)
			goto done
		}
	}
done:
	for _, eng := range held {
		apply(eng, word)
		p.workers <- eng
	}
}

// Close shuts down every worker currently in the pool. Callers must stop
// issuing requests first; checked-out workers are not waited for.
func (p *Pool) Close() error {
	var first error
	for {
		select {
		case eng := <-p.workers:
			if err := eng.Close(); err != nil && first == nil {
				first = err
			}
		default:
			return first
		}
	}
}
