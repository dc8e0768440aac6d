package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/rueidis"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"task-board.com/task-board/internal/store"
	model "task-board.com/task-board/pkg/models"
)

// CachedStore keeps each owner's task list in Redis. Reads fall through to
// the wrapped store on a miss. Every successful write bumps the owner's
// generation, so a list read before the write is stored under a key nobody
// reads any more.
type CachedStore struct {
	next   store.TaskStore
	client rueidis.Client
	prefix string
	ttl    time.Duration
	logger *logrus.Logger
	sf     singleflight.Group
}

var _ store.TaskStore = (*CachedStore)(nil)

func NewCachedStore(next store.TaskStore, client rueidis.Client, prefix string, ttl time.Duration, logger *logrus.Logger) *CachedStore {
	return &CachedStore{
		next:   next,
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedStore) versionKey(ownerID string) string {
	return c.prefix + "ver:" + ownerID
}

func (c *CachedStore) key(ownerID, version string) string {
	return c.prefix + "list:" + ownerID + ":" + version
}

func (c *CachedStore) ListTasks(ctx context.Context, ownerID string) ([]model.Task, error) {
	version, ok := c.version(ctx, ownerID)
	if !ok {
		return c.next.ListTasks(ctx, ownerID)
	}
	key := c.key(ownerID, version)

	v, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Shared by every caller of this flight; one caller going away must
		// not fail the others.
		ctx := context.WithoutCancel(ctx)

		if tasks, ok := c.get(ctx, ownerID, key); ok {
			return tasks, nil
		}

		tasks, err := c.next.ListTasks(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		c.set(ctx, ownerID, key, tasks)
		return tasks, nil
	})
	if err != nil {
		return nil, err
	}

	shared := v.([]model.Task)
	out := make([]model.Task, len(shared))
	for i, t := range shared {
		out[i] = t.Clone()
	}
	return out, nil
}

func (c *CachedStore) CreateTask(ctx context.Context, in model.NewTask) (model.Task, error) {
	task, err := c.next.CreateTask(ctx, in)
	if err != nil {
		return model.Task{}, err
	}
	c.invalidate(ctx, in.OwnerID)
	return task, nil
}

func (c *CachedStore) UpdateTask(ctx context.Context, ownerID, id string, patch model.TaskPatch) error {
	return c.write(ctx, ownerID, c.next.UpdateTask(ctx, ownerID, id, patch))
}

func (c *CachedStore) DeleteTask(ctx context.Context, ownerID, id string) error {
	return c.write(ctx, ownerID, c.next.DeleteTask(ctx, ownerID, id))
}

func (c *CachedStore) UpdateTasks(ctx context.Context, ownerID string, ids []string, patch model.TaskPatch) error {
	return c.write(ctx, ownerID, c.next.UpdateTasks(ctx, ownerID, ids, patch))
}

func (c *CachedStore) DeleteTasks(ctx context.Context, ownerID string, ids []string) error {
	return c.write(ctx, ownerID, c.next.DeleteTasks(ctx, ownerID, ids))
}

func (c *CachedStore) write(ctx context.Context, ownerID string, err error) error {
	if err != nil {
		return err
	}
	c.invalidate(ctx, ownerID)
	return nil
}

// version returns the owner's current generation, "0" if none was written.
// ok is false when Redis cannot be reached.
func (c *CachedStore) version(ctx context.Context, ownerID string) (string, bool) {
	version, err := c.client.Do(ctx, c.client.B().Get().Key(c.versionKey(ownerID)).Build()).ToString()
	if rueidis.IsRedisNil(err) {
		return "0", true
	}
	if err != nil {
		c.logger.WithError(err).WithField("owner", ownerID).Warn("task cache read failed")
		return "", false
	}
	return version, true
}

func (c *CachedStore) get(ctx context.Context, ownerID, key string) ([]model.Task, bool) {
	raw, err := c.client.Do(ctx, c.client.B().Get().Key(key).Build()).ToString()
	if err != nil {
		if !rueidis.IsRedisNil(err) {
			c.logger.WithError(err).WithField("owner", ownerID).Warn("task cache read failed")
		}
		return nil, false
	}

	var tasks []model.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		c.logger.WithError(err).WithField("owner", ownerID).Warn("task cache entry is corrupt")
		return nil, false
	}
	return tasks, true
}

func (c *CachedStore) set(ctx context.Context, ownerID, key string, tasks []model.Task) {
	payload, err := json.Marshal(tasks)
	if err != nil {
		return
	}

	cmd := c.client.B().Set().Key(key).Value(string(payload)).ExSeconds(int64(c.ttl / time.Second)).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		c.logger.WithError(err).WithField("owner", ownerID).Warn("task cache write failed")
	}
}

// invalidate moves the owner to a new generation. Entries of older
// generations simply expire.
func (c *CachedStore) invalidate(ctx context.Context, ownerID string) {
	cmd := c.client.B().Incr().Key(c.versionKey(ownerID)).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		c.logger.WithError(err).WithField("owner", ownerID).Warn("task cache invalidation failed")
	}
}
