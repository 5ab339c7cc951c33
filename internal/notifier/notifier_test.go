package notifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifier_BroadcastCoalesces(t *testing.T) {
	n := New()
	ch := n.Subscribe()
	defer n.Unsubscribe(ch)

	n.Broadcast()
	n.Broadcast()

	assert.Len(t, ch, 1, "pending pings coalesce")
	<-ch
	assert.Len(t, ch, 0)
}

func TestNotifier_Unsubscribe(t *testing.T) {
	n := New()
	ch := n.Subscribe()
	n.Unsubscribe(ch)

	n.Broadcast()
	_, ok := <-ch
	assert.False(t, ok, "channel closed after unsubscribe")
}

func TestNotifier_NilSafe(t *testing.T) {
	var n *Notifier
	assert.NotPanics(t, n.Broadcast)
}
