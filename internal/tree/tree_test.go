package tree

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "task-board.com/task-board/internal/errors"
	model "task-board.com/task-board/pkg/models"
)

var base = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func task(id string, parent string, minutes int) model.Task {
	t := model.Task{ID: id, OwnerID: "alice", Title: id, CreatedAt: base.Add(time.Duration(minutes) * time.Minute)}
	if parent != "" {
		p := parent
		t.ParentTaskID = &p
	}
	return t
}

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func equalIDs(t *testing.T, label string, got []model.Task, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("%s: expected %v, got %v", label, want, g)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("%s: expected %v, got %v", label, want, g)
		}
	}
}

type fakeSource struct {
	tasks []model.Task
	err   error
}

func (f *fakeSource) ListTasks(ctx context.Context, ownerID string) ([]model.Task, error) {
	return f.tasks, f.err
}

func TestTree_MainTasksAndSubtasksKeepStoredOrder(t *testing.T) {
	tr := New(
		task("a", "", 5),
		task("a2", "a", 4),
		task("b", "", 3),
		task("a1", "a", 2),
		task("b1", "b", 1),
	)

	equalIDs(t, "main", tr.MainTasks(), "a", "b")
	equalIDs(t, "subtasks of a", tr.SubtasksOf("a"), "a2", "a1")
	equalIDs(t, "subtasks of b", tr.SubtasksOf("b"), "b1")
	equalIDs(t, "subtasks of leaf", tr.SubtasksOf("a1"))
}

func TestTree_SubtasksNeverIncludeSelf(t *testing.T) {
	tr := New(task("loop", "loop", 1), task("child", "loop", 0))

	equalIDs(t, "main", tr.MainTasks(), "loop")
	for _, sub := range tr.SubtasksOf("loop") {
		if sub.ID == "loop" {
			t.Fatal("task must not be its own subtask")
		}
		if sub.ParentTaskID == nil || *sub.ParentTaskID != "loop" {
			t.Fatalf("unexpected subtask %s", sub.ID)
		}
	}
	equalIDs(t, "subtasks", tr.SubtasksOf("loop"), "child")
}

func TestTree_PartitionCoversEveryTaskOnce(t *testing.T) {
	tr := New(
		task("a", "", 9),
		task("a1", "a", 8),
		task("deep", "a1", 7),
		task("orphan", "gone", 6),
		task("orphan-child", "orphan", 5),
		task("x", "y", 4),
		task("y", "x", 3),
		task("b", "", 2),
	)

	seen := map[string]int{}
	for _, main := range tr.MainTasks() {
		seen[main.ID]++
		for _, sub := range tr.SubtasksOf(main.ID) {
			seen[sub.ID]++
		}
	}

	snap := tr.Snapshot()
	if len(seen) != snap.Len() {
		t.Fatalf("expected %d distinct tasks, got %d: %v", snap.Len(), len(seen), seen)
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("task %s appeared %d times", id, n)
		}
	}

	if !snap.Detached("deep") || !snap.Detached("orphan") || !snap.Detached("x") {
		t.Error("expected deep, orphan and cycle tasks to be detached main tasks")
	}
	if snap.Detached("a1") || snap.Detached("a") {
		t.Error("regular tasks must not be detached")
	}
	equalIDs(t, "subtasks of orphan", tr.SubtasksOf("orphan"), "orphan-child")
	equalIDs(t, "subtasks of a1", tr.SubtasksOf("a1"))
}

func TestTree_RemovingParentOrphansSubtasks(t *testing.T) {
	tr := New(task("A", "", 2), task("B", "A", 1))

	if n := tr.Apply(Remove("A")); n != 1 {
		t.Fatalf("expected 1 removed task, got %d", n)
	}

	equalIDs(t, "subtasks of deleted parent", tr.SubtasksOf("A"), "B")
	equalIDs(t, "main", tr.MainTasks(), "B")
	if !tr.Snapshot().Detached("B") {
		t.Error("expected B to be rendered as a detached main task")
	}
}

func TestTree_InsertFollowsLoadOrdering(t *testing.T) {
	done := task("done", "", 10)
	done.IsCompleted = true
	tr := New(task("p2", "", 5), task("p1", "", 1), done)

	tr.Apply(Insert(task("newest", "", 20)))
	equalIDs(t, "after pending insert", tr.Snapshot().All(), "newest", "p2", "p1", "done")

	middle := task("middle", "", 3)
	tr.Apply(Insert(middle))
	equalIDs(t, "after middle insert", tr.Snapshot().All(), "newest", "p2", "middle", "p1", "done")

	finished := task("finished", "", 30)
	finished.IsCompleted = true
	tr.Apply(Insert(finished))
	equalIDs(t, "after completed insert", tr.Snapshot().All(), "newest", "p2", "middle", "p1", "finished", "done")
}

func TestTree_PatchDoesNotReorderOrLeakIntoSnapshots(t *testing.T) {
	tr := New(task("a", "", 2), task("b", "", 1))
	before := tr.Snapshot()

	n := tr.Apply(Patch(model.CompletedPatch(true), "a", "missing"))
	if n != 1 {
		t.Fatalf("expected 1 patched task, got %d", n)
	}

	equalIDs(t, "order", tr.Snapshot().All(), "a", "b")
	if got, _ := tr.Get("a"); !got.IsCompleted {
		t.Error("expected a to be completed")
	}
	if old, _ := before.Get("a"); old.IsCompleted {
		t.Error("earlier snapshot must not observe the patch")
	}
}

func TestTree_LoadFailureKeepsPreviousCollection(t *testing.T) {
	tr := New(task("kept", "", 1))
	src := &fakeSource{err: errors.New("network down")}

	err := tr.Load(context.Background(), src, "alice")
	var loadErr *apperrors.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoadError, got %v", err)
	}
	equalIDs(t, "after failed load", tr.MainTasks(), "kept")

	err = tr.Load(context.Background(), src, "")
	if !errors.As(err, &loadErr) || !errors.Is(err, apperrors.ErrAuthRequired) {
		t.Fatalf("expected LoadError wrapping ErrAuthRequired, got %v", err)
	}

	src.err = nil
	src.tasks = []model.Task{task("fresh", "", 1)}
	if err := tr.Load(context.Background(), src, "alice"); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	equalIDs(t, "after load", tr.MainTasks(), "fresh")
	if !tr.Loaded() {
		t.Error("expected tree to report loaded")
	}
}

func TestSnapshot_Summary(t *testing.T) {
	due := func(tk model.Task, d string) model.Task { tk.DueDate = &d; return tk }
	done := due(task("done", "", 1), "2025-01-01")
	done.IsCompleted = true

	tr := New(
		due(task("today", "", 6), "2025-03-10"),
		due(task("later", "", 5), "2025-03-11"),
		due(task("late", "today", 4), "2025-03-01"),
		task("nodate", "", 3),
		done,
	)

	got := tr.Summary("2025-03-10")
	want := Summary{Total: 5, Main: 4, Subtasks: 1, Completed: 1, Pending: 4, DueToday: 1, Upcoming: 1, Overdue: 1}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}
