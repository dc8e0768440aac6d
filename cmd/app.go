package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"task-board.com/task-board/internal/cache"
	config "task-board.com/task-board/internal/configs"
	"task-board.com/task-board/internal/logging"
	"task-board.com/task-board/internal/notify"
	repository "task-board.com/task-board/internal/repositories"
	"task-board.com/task-board/internal/services"
	"task-board.com/task-board/internal/store"
)

// app is the wiring shared by every command.
type app struct {
	cfg     config.Config
	logger  *logrus.Logger
	feed    *notify.Feed
	service *services.TaskService
	closers []func()
}

func newApp() (*app, error) {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	if envErr != nil {
		logger.Debug(".env file not found, using environment variables")
	}

	a := &app{cfg: cfg, logger: logger}

	database, err := config.NewDatabaseClient(cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	if sqlDB, err := database.DB(); err == nil {
		a.closers = append(a.closers, func() { _ = sqlDB.Close() })
	}

	var taskStore store.TaskStore = repository.NewTaskRepository(database)

	a.feed = notify.NewFeed(cfg.NotificationBuffer)
	notifiers := notify.Multi{notify.NewLogNotifier(logger), a.feed}

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	if redisClient != nil {
		a.closers = append(a.closers, redisClient.Close)
		taskStore = cache.NewCachedStore(taskStore, redisClient, cfg.CachePrefix, cfg.CacheTTL, logger)
		notifiers = append(notifiers, notify.NewRedisPublisher(redisClient, cfg.EventsChannel, logger))
		logger.WithField("addr", cfg.RedisAddr).Info("redis cache and event channel enabled")
	}

	a.service = services.NewTaskService(taskStore, notifiers, logger)
	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func requireOwner(owner string) error {
	if owner == "" {
		return fmt.Errorf("--owner is required")
	}
	return nil
}
