package inflight

import (
	"errors"
	"reflect"
	"sync"
	"testing"
)

func TestRegistry_StateMachine(t *testing.T) {
	r := NewRegistry()

	if s := r.State("alice", "t1"); s != Idle {
		t.Fatalf("expected idle, got %s", s)
	}

	f, err := r.Acquire("alice", "update", "t1")
	if err != nil {
		t.Fatalf("failed to acquire: %v", err)
	}
	if s := r.State("alice", "t1"); s != Pending {
		t.Errorf("expected pending, got %s", s)
	}

	f.Finish(errors.New("remote failure"))
	if s := r.State("alice", "t1"); s != Failed {
		t.Errorf("expected failed, got %s", s)
	}

	f2, _ := r.Acquire("alice", "update", "t1")
	f2.Finish(nil)
	if s := r.State("alice", "t1"); s != Applied {
		t.Errorf("expected applied, got %s", s)
	}

	r.Forget("alice", "t1")
	if s := r.State("alice", "t1"); s != Idle {
		t.Errorf("expected idle after forget, got %s", s)
	}
}

func TestRegistry_AcquireIsAllOrNothing(t *testing.T) {
	r := NewRegistry()

	held, _ := r.Acquire("alice", "delete", "t2")
	if _, err := r.Acquire("alice", "bulk_complete", "t1", "t2", "t3"); !errors.Is(err, ErrPending) {
		t.Fatalf("expected ErrPending, got %v", err)
	}
	if got := r.Pending("alice"); !reflect.DeepEqual(got, []string{"t2"}) {
		t.Errorf("expected only t2 pending, got %v", got)
	}

	if _, err := r.Acquire("bob", "delete", "t2"); err != nil {
		t.Errorf("owners must not block each other: %v", err)
	}

	held.Finish(nil)
	held.Finish(errors.New("second finish is ignored"))
	if s := r.State("alice", "t2"); s != Applied {
		t.Errorf("expected applied, got %s", s)
	}
}

func TestRegistry_ConcurrentAcquire(t *testing.T) {
	r := NewRegistry()

	const attempts = 50
	var wg sync.WaitGroup
	wg.Add(attempts)

	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			_, err := r.Acquire("alice", "toggle_complete", "same")
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	acquired := 0
	for err := range results {
		if err == nil {
			acquired++
		}
	}
	if acquired != 1 {
		t.Errorf("expected exactly one acquisition, got %d", acquired)
	}
}
