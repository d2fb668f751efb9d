// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package testsetup

import (
	"errors"
	"sync"

	"github.com/inexmode/arena/pkg/envelope"
	"github.com/inexmode/arena/pkg/models"
)

// StubNotifier records every notification it is asked to deliver. FailFor
// lists players whose deliveries fail, for exercising dispatch isolation.
type StubNotifier struct {
	mu      sync.Mutex
	sent    []models.Notification
	FailFor map[models.PlayerID]struct{}
	SendErr error
}

func NewStubNotifier() *StubNotifier {
	return &StubNotifier{FailFor: make(map[models.PlayerID]struct{})}
}

func (s *StubNotifier) Notify(_ *envelope.Scope, notification models.Notification) error {
	if _, fail := s.FailFor[notification.PlayerID]; fail {
		if s.SendErr != nil {
			return s.SendErr
		}
		return errors.New("delivery failed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, notification)
	return nil
}

// Sent returns a copy of every recorded notification.
func (s *StubNotifier) Sent() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Notification, len(s.sent))
	copy(out, s.sent)
	return out
}

// SentTo returns the notifications recorded for one player.
func (s *StubNotifier) SentTo(playerID models.PlayerID) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Notification
	for _, n := range s.sent {
		if n.PlayerID == playerID {
			out = append(out, n)
		}
	}
	return out
}

// Reset drops every recorded notification.
func (s *StubNotifier) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = nil
}
