package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryEventEmitter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("emit event with no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		event, err := NewAccountEvent(UserSignedUp, 1, "a@x.com", nil)
		require.NoError(t, err)

		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
	})

	t.Run("emit event with successful handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		handler1 := &MockEventHandler{}
		handler2 := &MockEventHandler{}
		emitter.RegisterHandler(handler1)
		emitter.RegisterHandler(handler2)

		event, err := NewAccountEvent(UserLoggedIn, 1, "a@x.com", nil)
		require.NoError(t, err)

		require.NoError(t, emitter.EmitEvent(context.Background(), event))
		assert.Equal(t, 1, handler1.HandledCount)
		assert.Equal(t, 1, handler2.HandledCount)
		assert.Equal(t, event, handler1.LastEvent)
	})

	t.Run("failing handler does not stop dispatch", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		failing := &MockEventHandler{HandlerError: errors.New("handler error")}
		success := &MockEventHandler{}
		emitter.RegisterHandler(failing)
		emitter.RegisterHandler(success)

		event, err := NewAccountEvent(UserDeleted, 3, "c@x.com", nil)
		require.NoError(t, err)

		err = emitter.EmitEvent(context.Background(), event)
		assert.EqualError(t, err, "handler error")
		assert.Equal(t, 1, failing.HandledCount)
		assert.Equal(t, 1, success.HandledCount)
	})

	t.Run("errors from several handlers are joined", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		errA, errB := errors.New("a"), errors.New("b")
		emitter.RegisterHandler(&MockEventHandler{HandlerError: errA})
		emitter.RegisterHandler(&MockEventHandler{HandlerError: errB})

		event, err := NewAccountEvent(UserCreated, 4, "d@x.com", nil)
		require.NoError(t, err)

		err = emitter.EmitEvent(context.Background(), event)
		assert.ErrorIs(t, err, errA)
		assert.ErrorIs(t, err, errB)
	})

	t.Run("typed subscription filters events", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(nil)
		failures := &MockEventHandler{}
		all := &MockEventHandler{}
		emitter.RegisterHandler(failures, LoginFailed)
		emitter.RegisterHandler(all)

		for _, typ := range []Type{UserLoggedIn, LoginFailed, UserLoggedOut} {
			event, err := NewAccountEvent(typ, 1, "a@x.com", nil)
			require.NoError(t, err)
			require.NoError(t, emitter.EmitEvent(context.Background(), event))
		}

		assert.Equal(t, 1, failures.HandledCount)
		assert.Equal(t, LoginFailed, failures.LastEvent.Type)
		assert.Equal(t, 3, all.HandledCount)
	})

	t.Run("handler func adapter", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		var got Type
		emitter.RegisterHandler(HandlerFunc(func(ctx context.Context, e *AccountEvent) error {
			got = e.Type
			return nil
		}))

		event, err := NewAccountEvent(SessionRevoked, 1, "", nil)
		require.NoError(t, err)
		require.NoError(t, emitter.EmitEvent(context.Background(), event))
		assert.Equal(t, SessionRevoked, got)
	})
}

func TestAuditLogHandler(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := NewAuditLogHandler(logger)

	event, err := NewAccountEvent(UserLoggedOut, 9, "secret@x.com", map[string]string{"reason": "logout"})
	require.NoError(t, err)
	require.NoError(t, h.HandleEvent(context.Background(), event))

	out := buf.String()
	assert.Contains(t, out, `"event_type":"user.logged_out"`)
	assert.Contains(t, out, `"user_id":9`)
	assert.Contains(t, out, `"component":"audit"`)
	assert.NotContains(t, out, "secret@x.com", "audit log must not include email")
}
