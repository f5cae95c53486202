package vault

import (
	"testing"
	"time"
)

func TestWatchSignalsAfterWrite(t *testing.T) {
	v := openTestVault(t)

	events, stop, err := v.Watch()
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer stop()

	if _, err := v.CreateNote("", "Watched"); err != nil {
		t.Fatalf("CreateNote: %v", err)
	}

	select {
	case _, ok := <-events:
		if !ok {
			t.Fatal("events closed before delivering a signal")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no signal after a database write")
	}
}

func TestWatchStopDuringSettleWindow(t *testing.T) {
	v := openTestVault(t)

	events, stop, err := v.Watch()
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	// Arm the debounce timer, then stop before it fires. The timer
	// outliving the watcher goroutine must not touch the closed
	// events channel.
	if _, err := v.CreateNote("", "Racer"); err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	stop()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				// Closed cleanly. Give a stray timer time to fire; a
				// send on the closed channel would panic the process.
				time.Sleep(400 * time.Millisecond)
				return
			}
		case <-deadline:
			t.Fatal("events channel never closed after stop")
		}
	}
}
