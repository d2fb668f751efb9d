// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package notify delivers the notifications produced by lifecycle
// transitions. Transitions return notifications as data; the dispatcher is
// the only place that performs delivery I/O.
package notify

import (
	"sync"

	"github.com/inexmode/arena/pkg/envelope"
	"github.com/inexmode/arena/pkg/models"
)

// Notifier delivers one notification to one player.
type Notifier interface {
	Notify(scope *envelope.Scope, notification models.Notification) error
}

// Dispatcher fans a batch of notifications out to the configured notifier.
// A failed delivery is logged and counted; it never aborts the batch and
// never propagates to the caller.
type Dispatcher struct {
	notifier Notifier

	mu       sync.Mutex
	failures int
}

// NewDispatcher creates a Dispatcher around the given notifier.
func NewDispatcher(notifier Notifier) *Dispatcher {
	return &Dispatcher{notifier: notifier}
}

// Dispatch delivers each notification in order. Returns the number delivered.
func (d *Dispatcher) Dispatch(scope *envelope.Scope, notifications []models.Notification) int {
	delivered := 0
	for _, n := range notifications {
		if err := d.notifier.Notify(scope, n); err != nil {
			scope.Log.WithField("player", n.PlayerID).Errorf("unable to deliver notification: %s", err)
			d.mu.Lock()
			d.failures++
			d.mu.Unlock()
			continue
		}
		delivered++
	}
	return delivered
}

// Failures returns the number of deliveries that have failed so far.
func (d *Dispatcher) Failures() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.failures
}

// LogNotifier writes notifications to the scope log. It is the default sink
// when no transport is wired.
type LogNotifier struct{}

func (LogNotifier) Notify(scope *envelope.Scope, notification models.Notification) error {
	scope.Log.WithField("player", notification.PlayerID).Info(notification.Text)
	return nil
}
