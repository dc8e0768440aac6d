package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"github.com/sirupsen/logrus"
	"go.uber.org/mock/gomock"
)

func TestRedisPublisher_PublishesJSONOnChannel(t *testing.T) {
	client := mock.NewClient(gomock.NewController(t))

	var sent []string
	client.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
			sent = cmd.Commands()
			return mock.Result(mock.RedisInt64(1))
		},
	)

	event := Event{
		OwnerID:   "alice",
		Kind:      KindSuccess,
		Operation: "create",
		Message:   "task created",
		At:        time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	NewRedisPublisher(client, "task-events", logrus.New()).Notify(context.Background(), event)

	if len(sent) != 3 || sent[0] != "PUBLISH" || sent[1] != "task-events" {
		t.Fatalf("unexpected command %v", sent)
	}

	var got Event
	if err := json.Unmarshal([]byte(sent[2]), &got); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if got.OwnerID != event.OwnerID || got.Kind != event.Kind || got.Operation != event.Operation ||
		got.Message != event.Message || !got.At.Equal(event.At) {
		t.Errorf("expected %+v, got %+v", event, got)
	}
}

func TestRedisPublisher_LogsFailure(t *testing.T) {
	client := mock.NewClient(gomock.NewController(t))
	client.EXPECT().Do(gomock.Any(), gomock.Any()).
		Return(mock.ErrorResult(errors.New("connection reset")))

	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)

	NewRedisPublisher(client, "task-events", logger).Notify(context.Background(), Event{OwnerID: "alice"})

	if !strings.Contains(buf.String(), "failed to publish notification") {
		t.Errorf("expected a warning, got %q", buf.String())
	}
}
