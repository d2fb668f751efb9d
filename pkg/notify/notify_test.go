// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inexmode/arena/pkg/models"
	"github.com/inexmode/arena/pkg/testsetup"
)

func TestDispatchIsolatesFailures(t *testing.T) {
	t.Parallel()
	scope := testsetup.NewTestScope()

	stub := testsetup.NewStubNotifier()
	stub.FailFor["p2"] = struct{}{}
	d := NewDispatcher(stub)

	delivered := d.Dispatch(scope, []models.Notification{
		{PlayerID: "p1", Text: "one"},
		{PlayerID: "p2", Text: "two"},
		{PlayerID: "p3", Text: "three"},
	})

	// The failing recipient never blocks the rest of the batch.
	assert.Equal(t, 2, delivered)
	assert.Equal(t, 1, d.Failures())
	assert.Len(t, stub.Sent(), 2)
	assert.Empty(t, stub.SentTo("p2"))
	assert.Len(t, stub.SentTo("p3"), 1)
}

func TestDispatchEmptyBatch(t *testing.T) {
	t.Parallel()
	scope := testsetup.NewTestScope()
	d := NewDispatcher(testsetup.NewStubNotifier())

	assert.Zero(t, d.Dispatch(scope, nil))
	assert.Zero(t, d.Failures())
}

func TestLogNotifierNeverFails(t *testing.T) {
	t.Parallel()
	scope := testsetup.NewTestScope()

	err := LogNotifier{}.Notify(scope, models.Notification{PlayerID: "p1", Text: "hello"})
	assert.NoError(t, err)
}
