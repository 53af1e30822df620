package spellengine

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestPaths(t *testing.T) {
	aff, dic := Paths("/dict", "en-GB")
	if aff != filepath.Join("/dict", "en-GB.aff") || dic != filepath.Join("/dict", "en-GB.dic") {
		t.Fatalf("Paths = %q, %q", aff, dic)
	}
}

func TestEmbeddedDefaultCheckAndSuggest(t *testing.T) {
	eng, err := openEmbeddedDefault()
	if err != nil {
		t.Fatal(err)
	}
	defer eng.Close()

	if !eng.Check("receive") {
		t.Error("receive should be a known word")
	}
	if !eng.Check("Receive") {
		t.Error("checking is case-insensitive for known words")
	}
	if eng.Check("recieve") {
		t.Error("recieve should be misspelled")
	}

	suggestions := eng.Suggest("recieve")
	found := false
	for _, s := range suggestions {
		if s == "receive" {
			found = true
		}
	}
	if !found {
		t.Errorf("Suggest(recieve) = %v, want it to contain receive", suggestions)
	}
}

func TestRuntimeWords(t *testing.T) {
	eng := newFuzzyEngine([]string{"alpha", "beta"})
	defer eng.Close()

	if eng.Check("gizmo") {
		t.Fatal("gizmo known before add")
	}
	eng.AddRuntimeWord("Gizmo")
	if !eng.Check("gizmo") || !eng.Check("GIZMO") {
		t.Fatal("runtime word not recognized")
	}
	eng.RemoveRuntimeWord("gizmo")
	if eng.Check("gizmo") {
		t.Fatal("runtime word survived removal")
	}
}

func TestOpenWordListFolder(t *testing.T) {
	dir := t.TempDir()
	dic := filepath.Join(dir, "en-GB.dic")
	if err := os.WriteFile(dic, []byte("# test list\ncolour\nfavourite\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	eng, degraded, err := Open("en-GB", []string{dir})
	if err != nil {
		t.Fatal(err)
	}
	defer eng.Close()
	if degraded {
		t.Fatal("found dictionary reported as degraded")
	}
	if !eng.Check("colour") {
		t.Error("colour should be known to the en-GB engine")
	}
	if eng.Check("color") {
		t.Error("color should not be in the en-GB list")
	}
}

func TestOpenFallsBackToBundledDefault(t *testing.T) {
	eng, degraded, err := Open("xx-XX", []string{t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	defer eng.Close()
	if !degraded {
		t.Fatal("missing language should report degraded")
	}
	if !eng.Check("word") {
		t.Error("fallback engine should carry the bundled list")
	}
}

func TestOpenDefaultLanguageNotDegraded(t *testing.T) {
	eng, degraded, err := Open("en-US", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer eng.Close()
	if degraded {
		t.Fatal("bundled default language must not be degraded")
	}
}

func TestPoolConcurrentChecking(t *testing.T) {
	pool, err := NewPool(4, DefaultResyncWait, func() (Engine, error) {
		return newFuzzyEngine([]string{"alpha", "beta", "gamma"}), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !pool.Check("alpha") {
				t.Error("alpha unknown")
			}
			if pool.Check("delta") {
				t.Error("delta known")
			}
		}()
	}
	wg.Wait()
}

func TestPoolResyncReachesAllWorkers(t *testing.T) {
	pool, err := NewPool(3, DefaultResyncWait, func() (Engine, error) {
		return newFuzzyEngine([]string{"alpha"}), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	pool.AddRuntimeWord("widgetize")
	// Every worker sees the word: more draws than workers.
	for i := 0; i < 9; i++ {
		if !pool.Check("widgetize") {
			t.Fatal("a pooled worker missed the runtime word")
		}
	}

	pool.RemoveRuntimeWord("widgetize")
	for i := 0; i < 9; i++ {
		if pool.Check("widgetize") {
			t.Fatal("a pooled worker kept the removed word")
		}
	}
}

func TestPoolResyncSkipsHeldWorker(t *testing.T) {
	pool, err := NewPool(2, 20*time.Millisecond, func() (Engine, error) {
		return newFuzzyEngine([]string{"alpha"}), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	// Hold one worker hostage past the resync deadline.
	held := <-pool.workers
	done := make(chan struct{})
	go func() {
		pool.AddRuntimeWord("newword")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("resync blocked on an unavailable worker")
	}
	pool.workers <- held
}
