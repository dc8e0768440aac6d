package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	apperrors "task-board.com/task-board/internal/errors"
	model "task-board.com/task-board/pkg/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(&model.Task{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func seed(t *testing.T, db *gorm.DB, tasks ...model.Task) {
	for _, task := range tasks {
		if err := db.Create(&task).Error; err != nil {
			t.Fatalf("failed to seed task %s: %v", task.ID, err)
		}
	}
}

func strPtr(s string) *string { return &s }

func TestTaskRepository_ListOrdersPendingFirstNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	seed(t, db,
		model.Task{ID: "old-pending", OwnerID: "alice", Title: "a", CreatedAt: base},
		model.Task{ID: "new-done", OwnerID: "alice", Title: "b", IsCompleted: true, CreatedAt: base.Add(2 * time.Hour)},
		model.Task{ID: "new-pending", OwnerID: "alice", Title: "c", CreatedAt: base.Add(time.Hour)},
		model.Task{ID: "old-done", OwnerID: "alice", Title: "d", IsCompleted: true, CreatedAt: base.Add(-time.Hour)},
		model.Task{ID: "someone-else", OwnerID: "bob", Title: "e", CreatedAt: base},
	)

	tasks, err := repo.ListTasks(context.Background(), "alice")
	if err != nil {
		t.Fatalf("failed to list tasks: %v", err)
	}

	want := []string{"new-pending", "old-pending", "new-done", "old-done"}
	if len(tasks) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(tasks))
	}
	for i, id := range want {
		if tasks[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, tasks[i].ID)
		}
	}
}

func TestTaskRepository_CreateAssignsIDAndDefaults(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	task, err := repo.CreateTask(ctx, model.NewTask{
		OwnerID: "alice",
		Title:   "Buy milk",
		DueDate: strPtr("2025-01-10"),
	})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	if task.ID == "" {
		t.Error("expected task ID to be set")
	}
	if task.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	stored, err := repo.FindByID(ctx, "alice", task.ID)
	if err != nil {
		t.Fatalf("failed to find task: %v", err)
	}
	if stored.IsCompleted {
		t.Error("expected new task to be pending")
	}
	if stored.DueDate == nil || *stored.DueDate != "2025-01-10" {
		t.Errorf("expected due date 2025-01-10, got %v", stored.DueDate)
	}
	if stored.Description != nil {
		t.Errorf("expected nil description, got %q", *stored.Description)
	}
}

func TestTaskRepository_UpdateClearsOptionalFields(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	seed(t, db, model.Task{
		ID: "t1", OwnerID: "alice", Title: "draft",
		Description: strPtr("notes"), DueDate: strPtr("2025-02-01"),
		CreatedAt: time.Now().UTC(),
	})

	err := repo.UpdateTask(ctx, "alice", "t1", model.TaskPatch{
		Details: &model.TaskDetails{Title: "final"},
	})
	if err != nil {
		t.Fatalf("failed to update task: %v", err)
	}

	stored, _ := repo.FindByID(ctx, "alice", "t1")
	if stored.Title != "final" {
		t.Errorf("expected title final, got %s", stored.Title)
	}
	if stored.Description != nil || stored.DueDate != nil {
		t.Error("expected description and due date to be cleared")
	}
}

func TestTaskRepository_ScopesWritesToOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	seed(t, db, model.Task{ID: "t1", OwnerID: "alice", Title: "mine", CreatedAt: time.Now().UTC()})

	if err := repo.UpdateTask(ctx, "bob", "t1", model.CompletedPatch(true)); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound for foreign update, got %v", err)
	}
	if err := repo.DeleteTask(ctx, "bob", "t1"); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound for foreign delete, got %v", err)
	}

	stored, err := repo.FindByID(ctx, "alice", "t1")
	if err != nil {
		t.Fatalf("task should still exist: %v", err)
	}
	if stored.IsCompleted {
		t.Error("foreign update must not change the task")
	}
}

func TestTaskRepository_BulkUpdateIsAllOrNothing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	seed(t, db,
		model.Task{ID: "t1", OwnerID: "alice", Title: "one", CreatedAt: now},
		model.Task{ID: "t2", OwnerID: "alice", Title: "two", CreatedAt: now},
	)

	err := repo.UpdateTasks(ctx, "alice", []string{"t1", "t2", "missing"}, model.CompletedPatch(true))
	if !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}

	tasks, _ := repo.ListTasks(ctx, "alice")
	for _, task := range tasks {
		if task.IsCompleted {
			t.Errorf("task %s should have been rolled back", task.ID)
		}
	}

	if err := repo.UpdateTasks(ctx, "alice", []string{"t1", "t2", "t1"}, model.CompletedPatch(true)); err != nil {
		t.Fatalf("failed to bulk update: %v", err)
	}
	tasks, _ = repo.ListTasks(ctx, "alice")
	for _, task := range tasks {
		if !task.IsCompleted {
			t.Errorf("task %s should be completed", task.ID)
		}
	}
}

func TestTaskRepository_BulkDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	seed(t, db,
		model.Task{ID: "t1", OwnerID: "alice", Title: "one", CreatedAt: now},
		model.Task{ID: "t2", OwnerID: "alice", Title: "two", CreatedAt: now},
		model.Task{ID: "t3", OwnerID: "alice", Title: "three", CreatedAt: now},
	)

	if err := repo.DeleteTasks(ctx, "alice", []string{"t1", "nope"}); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if err := repo.DeleteTasks(ctx, "alice", []string{"t1", "t3"}); err != nil {
		t.Fatalf("failed to bulk delete: %v", err)
	}

	tasks, _ := repo.ListTasks(ctx, "alice")
	if len(tasks) != 1 || tasks[0].ID != "t2" {
		t.Errorf("expected only t2 to remain, got %+v", tasks)
	}
}
