package http

import "sync"

// auditTailer fans out newly appended audit lines to any number of
// connected websocket clients. It is a read-only tap: nothing in this
// package ever writes to the Guardian's audit log through the tailer,
// only reads what the Guardian already appended.
type auditTailer struct {
	mu   sync.Mutex
	subs map[chan string]struct{}
}

func newAuditTailer() *auditTailer {
	return &auditTailer{subs: make(map[chan string]struct{})}
}

// subscribe registers a new channel that receives every line published
// after this call. The caller must call unsubscribe when done.
func (t *auditTailer) subscribe() chan string {
	ch := make(chan string, 32)
	t.mu.Lock()
	t.subs[ch] = struct{}{}
	t.mu.Unlock()
	return ch
}

func (t *auditTailer) unsubscribe(ch chan string) {
	t.mu.Lock()
	delete(t.subs, ch)
	t.mu.Unlock()
	close(ch)
}

// publish fans line out to every current subscriber. A subscriber whose
// buffer is full is skipped rather than blocking the publisher, a slow
// websocket client must never stall signal generation.
func (t *auditTailer) publish(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for ch := range t.subs {
		select {
		case ch <- line:
		default:
		}
	}
}
