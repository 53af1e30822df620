package tagger

import "log"

// Dispatcher serializes work onto one owning goroutine, standing in for the
// host's UI-thread dispatch primitive. Classifier queries and result
// publication run here; the background checker round-trips through Send.
type Dispatcher struct {
	tasks chan func()
	done  chan struct{}
}

// NewDispatcher starts the owning goroutine.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		tasks: make(chan func(), 64),
		done:  make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for fn := range d.tasks {
		fn()
	}
}

// Post queues work without waiting. Work posted after Close is dropped.
func (d *Dispatcher) Post(fn func()) {
	defer func() {
		if recover() != nil {
			log.Printf("[Tagger] Dispatcher closed; posted work dropped")
		}
	}()
	d.tasks <- fn
}

// Send runs work on the owning goroutine and waits for it to finish. Must
// not be called from the owning goroutine itself. Returns false when the
// dispatcher is closed.
func (d *Dispatcher) Send(fn func()) bool {
	ran := make(chan struct{})
	ok := true
	d.Post(func() {
		fn()
		close(ran)
	})
	select {
	case <-ran:
	case <-d.done:
		ok = false
	}
	return ok
}

// Close stops the owning goroutine after draining queued work.
func (d *Dispatcher) Close() {
	defer func() { recover() }() // double close
	close(d.tasks)
	<-d.done
}
