package notify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productdesk/internal/notify"
)

func TestChannel_LatestOverwrites(t *testing.T) {
	c := notify.NewChannel()

	_, ok := c.Latest()
	assert.False(t, ok)

	notify.Error(c, "Error", "first")
	notify.Error(c, "Error", "second")

	latest, ok := c.Latest()
	require.True(t, ok)
	assert.Equal(t, "second", latest.Message)
	assert.Equal(t, notify.KindError, latest.Kind)
	assert.NotEmpty(t, latest.ID)
	assert.False(t, latest.At.IsZero())

	c.Dismiss()
	_, ok = c.Latest()
	assert.False(t, ok)
}

func TestChannel_SubscriberSeesNewestOnly(t *testing.T) {
	c := notify.NewChannel()
	ch, unsubscribe := c.Subscribe()
	defer unsubscribe()

	notify.Warning(c, "Warning", "one")
	notify.Success(c, "Done", "two")

	got := <-ch
	assert.Equal(t, "two", got.Message)
	assert.Equal(t, notify.KindSuccess, got.Kind)

	select {
	case extra := <-ch:
		t.Fatalf("unexpected queued notification: %+v", extra)
	default:
	}
}

func TestChannel_Unsubscribe(t *testing.T) {
	c := notify.NewChannel()
	ch, unsubscribe := c.Subscribe()

	unsubscribe()
	unsubscribe()

	_, open := <-ch
	assert.False(t, open)

	// Notifying after unsubscribe must not panic.
	notify.Error(c, "Error", "late")
}

func TestRecorder(t *testing.T) {
	r := &notify.Recorder{}
	_, ok := r.Last()
	assert.False(t, ok)

	notify.Success(r, "a", "1")
	notify.Warning(r, "b", "2")

	all := r.All()
	require.Len(t, all, 2)
	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, notify.KindWarning, last.Kind)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "success", notify.KindSuccess.String())
	assert.Equal(t, "warning", notify.KindWarning.String())
	assert.Equal(t, "error", notify.KindError.String())
	assert.Equal(t, "unknown(9)", notify.Kind(9).String())
}
