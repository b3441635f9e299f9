package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlightCollapsesConcurrentCalls(t *testing.T) {
	var g SingleFlight
	var executions int32

	const workers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			val, err, _ := g.Do("event:12345:statistics", func() (any, error) {
				atomic.AddInt32(&executions, 1)
				time.Sleep(15 * time.Millisecond)
				return "payload", nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
			if val != "payload" {
				t.Errorf("unexpected value %v", val)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&executions); got != 1 {
		t.Fatalf("function executed %d times, want 1", got)
	}
}
