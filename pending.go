package lsp

import (
	"sort"
	"sync"
	"time"
)

// PendingCall tracks one outbound request awaiting its response.
type PendingCall struct {
	ID     RequestID
	Method string
	SentAt time.Time

	done chan ResponseMessage
}

// Pending correlates outbound requests with the responses the peer sends
// back. Ids are allocated from an increasing integer sequence, so no two
// outstanding requests share an id.
type Pending struct {
	mu     sync.Mutex
	nextID int64
	items  map[RequestID]*PendingCall
	closed bool
}

func NewPending() *Pending {
	return &Pending{
		nextID: 1,
		items:  make(map[RequestID]*PendingCall),
	}
}

// Add allocates an id for a request to method and returns a channel that
// receives its response exactly once. The channel is closed without a
// value when the call is cancelled or the table is closed.
func (p *Pending) Add(method string) (RequestID, <-chan ResponseMessage) {
	done := make(chan ResponseMessage, 1)

	p.mu.Lock()
	defer p.mu.Unlock()
	id := NumberID(p.nextID)
	p.nextID++
	if p.closed {
		close(done)
		return id, done
	}
	p.items[id] = &PendingCall{ID: id, Method: method, SentAt: time.Now(), done: done}
	return id, done
}

// Resolve delivers msg to the call waiting on msg.ID and returns the method
// of that call. It reports false for an id nothing is waiting on.
func (p *Pending) Resolve(msg ResponseMessage) (string, bool) {
	p.mu.Lock()
	call, ok := p.items[msg.ID]
	if ok {
		delete(p.items, msg.ID)
	}
	p.mu.Unlock()

	if !ok {
		return "", false
	}
	call.done <- msg
	close(call.done)
	return call.Method, true
}

// Cancel forgets the call with id. A response arriving later is reported by
// Resolve as unknown.
func (p *Pending) Cancel(id RequestID) bool {
	p.mu.Lock()
	call, ok := p.items[id]
	if ok {
		delete(p.items, id)
	}
	p.mu.Unlock()

	if ok {
		close(call.done)
	}
	return ok
}

// CloseAll cancels every outstanding call and makes later calls to Add
// return an already-closed channel.
func (p *Pending) CloseAll() {
	p.mu.Lock()
	items := p.items
	p.items = make(map[RequestID]*PendingCall)
	p.closed = true
	p.mu.Unlock()

	for _, call := range items {
		close(call.done)
	}
}

// Get returns the call waiting on id.
func (p *Pending) Get(id RequestID) (PendingCall, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	call, ok := p.items[id]
	if !ok {
		return PendingCall{}, false
	}
	return *call, true
}

// List returns the outstanding calls in the order they were added.
func (p *Pending) List() []PendingCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PendingCall, 0, len(p.items))
	for _, call := range p.items {
		out = append(out, *call)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SentAt.Equal(out[j].SentAt) {
			return out[i].SentAt.Before(out[j].SentAt)
		}
		a, _ := out[i].ID.Number()
		b, _ := out[j].ID.Number()
		return a < b
	})
	return out
}

// Len returns the number of outstanding calls.
func (p *Pending) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}
