package history

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIncrementer struct {
	mu      sync.Mutex
	calls   []string
	callErr error
	done    chan struct{}
	expect  int
}

func (f *fakeIncrementer) IncrementUsage(_ context.Context, userID, movementID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, userID+"/"+movementID)
	if len(f.calls) == f.expect {
		close(f.done)
	}
	return f.callErr
}

func TestAsyncWriter_RecordUsage(t *testing.T) {
	incrementer := &fakeIncrementer{done: make(chan struct{}), expect: 3}
	writer := NewAsyncWriter(incrementer)

	writer.RecordUsage("user-1", []string{"hundred", "roll-up", "swan"})

	select {
	case <-incrementer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("usage writes did not land in time")
	}

	incrementer.mu.Lock()
	defer incrementer.mu.Unlock()
	require.Len(t, incrementer.calls, 3)
	assert.Equal(t, "user-1/hundred", incrementer.calls[0])
	assert.Equal(t, "user-1/roll-up", incrementer.calls[1])
	assert.Equal(t, "user-1/swan", incrementer.calls[2])
}

func TestAsyncWriter_RecordUsage_errorsAreSwallowed(t *testing.T) {
	incrementer := &fakeIncrementer{done: make(chan struct{}), expect: 2, callErr: assert.AnError}
	writer := NewAsyncWriter(incrementer)

	// must not panic or block the caller
	writer.RecordUsage("user-1", []string{"hundred", "swan"})

	select {
	case <-incrementer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("usage writes did not land in time")
	}
}
