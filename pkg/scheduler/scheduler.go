// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package scheduler is the timer capability of the lifecycle: one-shot
// timeouts keyed by (match, generation), repeating per-player reminders, and
// the periodic matchmaking tick. A timer that already fired or was cancelled
// can never be confused with a rearmed one because the key carries the
// generation.
package scheduler

import (
	"sync"
	"time"

	"github.com/inexmode/arena/pkg/models"
)

// TimerKey identifies one armed timeout. Gen is the match's timer generation
// at arming time; the lifecycle increments it on every state advance.
type TimerKey struct {
	MatchID models.MatchID
	Gen     uint64
}

// Scheduler fires delayed and periodic callbacks.
type Scheduler interface {
	// Arm schedules fn(key) to run once after delay. Re-arming the same key
	// replaces the previous timer.
	Arm(key TimerKey, delay time.Duration, fn func(TimerKey))

	// Cancel stops the timer armed under key. It reports whether a pending
	// timer was found; cancelling a fired or unknown timer is a no-op.
	Cancel(key TimerKey) bool

	// Every runs fn on a fixed interval until the returned stop function is
	// called.
	Every(interval time.Duration, fn func()) (stop func())

	// Repeat runs fn on a fixed interval under a replaceable string key.
	Repeat(key string, interval time.Duration, fn func())

	// StopRepeat cancels the repeating callback armed under key.
	StopRepeat(key string)

	// Shutdown stops every pending timer and repeat.
	Shutdown()
}

type timers struct {
	mu      sync.Mutex
	oneShot map[TimerKey]*time.Timer
	repeats map[string]chan struct{}
}

// New returns a Scheduler backed by the runtime timer wheel.
func New() Scheduler {
	return &timers{
		oneShot: make(map[TimerKey]*time.Timer),
		repeats: make(map[string]chan struct{}),
	}
}

func (t *timers) Arm(key TimerKey, delay time.Duration, fn func(TimerKey)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.oneShot[key]; ok {
		prev.Stop()
	}
	t.oneShot[key] = time.AfterFunc(delay, func() {
		t.mu.Lock()
		delete(t.oneShot, key)
		t.mu.Unlock()
		fn(key)
	})
}

func (t *timers) Cancel(key TimerKey) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	timer, ok := t.oneShot[key]
	if !ok {
		return false
	}
	delete(t.oneShot, key)
	return timer.Stop()
}

func (t *timers) Every(interval time.Duration, fn func()) (stop func()) {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

func (t *timers) Repeat(key string, interval time.Duration, fn func()) {
	t.mu.Lock()
	if prev, ok := t.repeats[key]; ok {
		close(prev)
	}
	done := make(chan struct{})
	t.repeats[key] = done
	t.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
}

func (t *timers) StopRepeat(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if done, ok := t.repeats[key]; ok {
		close(done)
		delete(t.repeats, key)
	}
}

func (t *timers) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key, timer := range t.oneShot {
		timer.Stop()
		delete(t.oneShot, key)
	}
	for key, done := range t.repeats {
		close(done)
		delete(t.repeats, key)
	}
}
