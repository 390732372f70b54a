package app

import (
	"sync"

	"survey-service/internal/domain"
)

// Feed fans out stored batch summaries to live subscribers.
type Feed struct {
	mu          sync.Mutex
	subscribers map[chan domain.BatchResult]struct{}
}

func NewFeed() *Feed {
	return &Feed{subscribers: make(map[chan domain.BatchResult]struct{})}
}

// Subscribe returns a channel of batch summaries.
// The caller must invoke the returned cancel function to avoid leaks.
func (f *Feed) Subscribe() (<-chan domain.BatchResult, func()) {
	ch := make(chan domain.BatchResult, 8)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers result to every subscriber without blocking on slow readers.
func (f *Feed) Publish(result domain.BatchResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- result:
		default:
			// drop the oldest queued event so the newest one always lands
			select {
			case <-ch:
			default:
			}
			ch <- result
		}
	}
}

// Subscribers reports how many channels are currently attached.
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}
