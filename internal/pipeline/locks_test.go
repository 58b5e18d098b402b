package pipeline

import (
	"sync"
	"testing"
)

func TestLockTableSerializesSameKey(t *testing.T) {
	lt := newLockTable()
	var counter int

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			lt.acquire("conv-1")
			defer lt.release("conv-1")
			counter++
		}()
	}
	wg.Wait()

	if counter != n {
		t.Fatalf("counter = %d, want %d", counter, n)
	}
}

func TestLockTableCleansUpEntries(t *testing.T) {
	lt := newLockTable()
	lt.acquire("conv-1")
	lt.release("conv-1")

	lt.mu.Lock()
	defer lt.mu.Unlock()
	if len(lt.locks) != 0 {
		t.Fatalf("lock entries = %d, want 0 after release", len(lt.locks))
	}
}

func TestLockTableIndependentKeys(t *testing.T) {
	lt := newLockTable()
	lt.acquire("conv-1")

	done := make(chan struct{})
	go func() {
		lt.acquire("conv-2")
		lt.release("conv-2")
		close(done)
	}()

	<-done
	lt.release("conv-1")
}
