package cobb

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvent_NotifyThenWaitReturnsImmediately(t *testing.T) {
	e := newEvent()
	e.notify()

	done := make(chan struct{})
	go func() {
		defer close(done)
		e.wait()
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("wait did not return after a prior notify")
	}
}

func TestEvent_WaitBlocksUntilNotify(t *testing.T) {
	e := newEvent()
	done := make(chan struct{})
	go func() {
		defer close(done)
		e.wait()
	}()

	select {
	case <-done:
		t.Fatal("wait returned before notify")
	case <-time.After(20 * time.Millisecond):
	}

	e.notify()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("wait did not return after notify")
	}
}

func TestEvent_RepeatedNotifyIsIdempotent(t *testing.T) {
	e := newEvent()
	e.notify()
	e.notify() // absorbed: the latch was already set

	start := time.Now()
	e.wait()
	assert.Less(t, time.Since(start), time.Second)

	// only one notify was consumed; a second wait should block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		e.wait()
	}()
	select {
	case <-done:
		t.Fatal("second wait returned without a second notify")
	case <-time.After(20 * time.Millisecond):
	}
	e.notify()
	<-done
}

func TestEvent_SingleProducerSingleConsumer(t *testing.T) {
	e := newEvent()
	const rounds = 1000
	var wg sync.WaitGroup
	wg.Add(1)

	var seen int
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			e.wait()
			seen++
		}
	}()

	for i := 0; i < rounds; i++ {
		e.notify()
	}
	wg.Wait()

	assert.Equal(t, rounds, seen)
}
