package optsync

import "sync"

// Mailbox queues batches from any goroutine until the owning event loop
// collects them. It never drops a batch.
type Mailbox struct {
	mu      sync.Mutex
	pending []Batch
	closed  bool
	signal  chan struct{}
}

// NewMailbox returns an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{signal: make(chan struct{}, 1)}
}

// Put queues b. Batches put after Close are discarded.
func (m *Mailbox) Put(b Batch) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.pending = append(m.pending, b)
	m.mu.Unlock()
	m.notify()
}

// Wait blocks until at least one batch is queued and returns all of them in
// arrival order. It returns nil once the mailbox is closed.
func (m *Mailbox) Wait() []Batch {
	for {
		if out, done := m.take(); done || len(out) > 0 {
			return out
		}
		<-m.signal
	}
}

// Drain returns whatever is queued without blocking.
func (m *Mailbox) Drain() []Batch {
	out, _ := m.take()
	return out
}

// Close wakes any waiter and discards queued batches.
func (m *Mailbox) Close() {
	m.mu.Lock()
	m.closed = true
	m.pending = nil
	m.mu.Unlock()
	m.notify()
}

func (m *Mailbox) take() ([]Batch, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, true
	}
	out := m.pending
	m.pending = nil
	return out, false
}

func (m *Mailbox) notify() {
	select {
	case m.signal <- struct{}{}:
	default:
	}
}
