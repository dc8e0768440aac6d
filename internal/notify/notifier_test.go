package notify

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestFeed_DrainIsPerOwnerAndBounded(t *testing.T) {
	feed := NewFeed(2)
	ctx := context.Background()

	feed.Notify(ctx, Event{OwnerID: "alice", Message: "one"})
	feed.Notify(ctx, Event{OwnerID: "alice", Message: "two"})
	feed.Notify(ctx, Event{OwnerID: "alice", Message: "three"})
	feed.Notify(ctx, Event{OwnerID: "bob", Message: "other"})

	got := feed.Drain("alice")
	if len(got) != 2 || got[0].Message != "two" || got[1].Message != "three" {
		t.Errorf("expected [two three], got %+v", got)
	}
	if again := feed.Drain("alice"); len(again) != 0 {
		t.Errorf("expected drained feed to be empty, got %+v", again)
	}
	if bob := feed.Drain("bob"); len(bob) != 1 {
		t.Errorf("expected one event for bob, got %+v", bob)
	}
}

func TestMulti_FansOutAndLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)

	feed := NewFeed(10)
	m := Multi{NewLogNotifier(logger), nil, feed}
	m.Notify(context.Background(), Event{OwnerID: "alice", Kind: KindError, Operation: "delete", Message: "delete failed"})

	if len(feed.Drain("alice")) != 1 {
		t.Error("expected the feed to receive the event")
	}
	out := buf.String()
	if !strings.Contains(out, "delete failed") || !strings.Contains(out, "level=warning") {
		t.Errorf("expected a warning log line, got %q", out)
	}
}
