package tree

import (
	model "task-board.com/task-board/pkg/models"
)

type Op int

const (
	OpInsert Op = iota + 1
	OpPatch
	OpRemove
)

// Change describes one local mutation of the collection.
type Change struct {
	Op    Op
	Tasks []model.Task
	IDs   []string
	Patch model.TaskPatch
}

func Insert(tasks ...model.Task) Change {
	return Change{Op: OpInsert, Tasks: tasks}
}

func Patch(patch model.TaskPatch, ids ...string) Change {
	return Change{Op: OpPatch, IDs: ids, Patch: patch}
}

func Remove(ids ...string) Change {
	return Change{Op: OpRemove, IDs: ids}
}
