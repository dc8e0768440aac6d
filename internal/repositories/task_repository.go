package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "task-board.com/task-board/internal/errors"
	"task-board.com/task-board/internal/store"
	model "task-board.com/task-board/pkg/models"
)

type TaskRepository struct {
	db *gorm.DB
}

var _ store.TaskStore = (*TaskRepository)(nil)

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) ListTasks(ctx context.Context, ownerID string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("is_completed asc").
		Order("created_at desc").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) CreateTask(ctx context.Context, in model.NewTask) (model.Task, error) {
	task := model.Task{
		ID:           uuid.NewString(),
		OwnerID:      in.OwnerID,
		ParentTaskID: in.ParentTaskID,
		Title:        in.Title,
		Description:  in.Description,
		DueDate:      in.DueDate,
		IsCompleted:  false,
		CreatedAt:    time.Now().UTC(),
	}

	if err := r.db.WithContext(ctx).Create(&task).Error; err != nil {
		return model.Task{}, err
	}

	return task, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, ownerID, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, "owner_id = ? AND id = ?", ownerID, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) UpdateTask(ctx context.Context, ownerID, id string, patch model.TaskPatch) error {
	return r.UpdateTasks(ctx, ownerID, []string{id}, patch)
}

func (r *TaskRepository) DeleteTask(ctx context.Context, ownerID, id string) error {
	return r.DeleteTasks(ctx, ownerID, []string{id})
}

func (r *TaskRepository) UpdateTasks(ctx context.Context, ownerID string, ids []string, patch model.TaskPatch) error {
	ids = unique(ids)
	if len(ids) == 0 || patch.Empty() {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Task{}).
			Where("owner_id = ? AND id IN ?", ownerID, ids).
			Updates(patch.Columns())

		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(ids)) {
			return apperrors.ErrTaskNotFound
		}
		return nil
	})
}

func (r *TaskRepository) DeleteTasks(ctx context.Context, ownerID string, ids []string) error {
	ids = unique(ids)
	if len(ids) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("owner_id = ? AND id IN ?", ownerID, ids).Delete(&model.Task{})

		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(ids)) {
			return apperrors.ErrTaskNotFound
		}
		return nil
	})
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
