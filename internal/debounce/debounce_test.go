package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_OnlyLastCallFires(t *testing.T) {
	d := New(50 * time.Millisecond)
	defer d.Stop()

	var fired int32
	var got atomic.Value

	for _, q := range []string{"g", "go", "gol", "gola", "golan", "golang"} {
		query := q
		d.Call(func() {
			atomic.AddInt32(&fired, 1)
			got.Store(query)
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)

	if n := atomic.LoadInt32(&fired); n != 1 {
		t.Errorf("Expected exactly one invocation, got %d", n)
	}
	if v := got.Load(); v != "golang" {
		t.Errorf("Expected last call to win, got %v", v)
	}
}

func TestDebouncer_SeparateBurstsBothFire(t *testing.T) {
	d := New(20 * time.Millisecond)
	defer d.Stop()

	var fired int32
	d.Call(func() { atomic.AddInt32(&fired, 1) })
	time.Sleep(60 * time.Millisecond)
	d.Call(func() { atomic.AddInt32(&fired, 1) })
	time.Sleep(60 * time.Millisecond)

	if n := atomic.LoadInt32(&fired); n != 2 {
		t.Errorf("Expected two invocations for two separate bursts, got %d", n)
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := New(30 * time.Millisecond)

	var fired int32
	d.Call(func() { atomic.AddInt32(&fired, 1) })
	d.Stop()

	time.Sleep(80 * time.Millisecond)

	if n := atomic.LoadInt32(&fired); n != 0 {
		t.Errorf("Expected no invocation after Stop, got %d", n)
	}
}
