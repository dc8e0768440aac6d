// Package notify delivers success and error events about task operations to
// whatever presents them.
package notify

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

type Event struct {
	OwnerID   string    `json:"owner_id"`
	Kind      Kind      `json:"kind"`
	Operation string    `json:"operation"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, e Event)
}

// Multi fans an event out to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, e Event) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, e)
		}
	}
}

type LogNotifier struct {
	logger *logrus.Logger
}

func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(ctx context.Context, e Event) {
	entry := l.logger.WithFields(logrus.Fields{
		"owner":     e.OwnerID,
		"operation": e.Operation,
	})
	if e.Kind == KindError {
		entry.Warn(e.Message)
		return
	}
	entry.Info(e.Message)
}
