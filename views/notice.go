package views

import (
	"sync"
	"time"
)

// Notice is a message that clears itself after a delay. Showing a new
// message cancels the pending clear of the previous one.
type Notice struct {
	mu    sync.Mutex
	text  string
	timer *time.Timer
	gen   uint64
}

// Show sets the message and schedules it to clear after ttl. A zero ttl
// keeps the message until the next Show or Stop.
func (n *Notice) Show(text string, ttl time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.stopLocked()
	n.gen++
	n.text = text
	if ttl <= 0 {
		return
	}
	gen := n.gen
	n.timer = time.AfterFunc(ttl, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		// a superseded timer that already fired must not clear the newer text
		if n.gen == gen {
			n.text = ""
			n.timer = nil
		}
	})
}

// Text returns the current message, or "" once it has cleared
func (n *Notice) Text() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.text
}

// Stop clears the message and cancels any pending timer
func (n *Notice) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopLocked()
	n.gen++
	n.text = ""
}

func (n *Notice) stopLocked() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}
