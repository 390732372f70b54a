package app

import (
	"testing"

	"survey-service/internal/domain"
)

func TestFeedDropsStaleEventsForSlowSubscribers(t *testing.T) {
	feed := NewFeed()
	ch, cancel := feed.Subscribe()
	defer cancel()

	for i := 1; i <= 20; i++ {
		feed.Publish(domain.BatchResult{Accepted: i})
	}

	var last domain.BatchResult
	for len(ch) > 0 {
		last = <-ch
	}
	if last.Accepted != 20 {
		t.Fatalf("expected newest event to be delivered, got %+v", last)
	}
}

func TestFeedCancelClosesChannel(t *testing.T) {
	feed := NewFeed()
	ch, cancel := feed.Subscribe()
	if feed.Subscribers() != 1 {
		t.Fatalf("expected one subscriber")
	}
	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel")
	}
	if feed.Subscribers() != 0 {
		t.Fatalf("expected no subscribers")
	}
	feed.Publish(domain.BatchResult{Accepted: 1})
}
