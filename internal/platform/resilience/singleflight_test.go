package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_Do(t *testing.T) {
	var g SingleFlight
	var counter int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			_, err, _ := g.Do("token-key", func() (any, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return "ok", nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
}

func TestSingleFlight_WaiterRetryRunsFresh(t *testing.T) {
	var g SingleFlight
	var runs int32

	entered := make(chan struct{})
	release := make(chan struct{})
	leaderDone := make(chan struct{})
	go func() {
		defer close(leaderDone)
		_, _, _ = g.Do("refresh-key", func() (any, error) {
			atomic.AddInt32(&runs, 1)
			close(entered)
			<-release
			return "first", nil
		})
	}()

	<-entered
	waiterDone := make(chan struct{})
	go func() {
		defer close(waiterDone)
		_, _, joined := g.Do("refresh-key", func() (any, error) {
			return "never", nil
		})
		if !joined {
			t.Errorf("expected waiter to join the in-flight call")
		}

		// Retrying right after waking must start a new call, not hand
		// back the one that just finished.
		value, err, _ := g.Do("refresh-key", func() (any, error) {
			atomic.AddInt32(&runs, 1)
			return "second", nil
		})
		if err != nil {
			t.Errorf("retry call failed: %v", err)
		}
		if value != "second" {
			t.Errorf("retry returned stale value %v", value)
		}
	}()

	close(release)
	<-waiterDone
	<-leaderDone

	if got := atomic.LoadInt32(&runs); got != 2 {
		t.Fatalf("expected two distinct runs, got %d", got)
	}
}
