// Package cache holds the client's local copy of the task list. It is the
// only mutable state that views read from.
package cache

import (
	"sync"

	"github.com/alexanderramin/taskflow/internal/app"
	"github.com/alexanderramin/taskflow/internal/domain"
)

// TaskCache is an ordered, concurrency-safe list of tasks plus the last
// known stats. Every mutation bumps Version.
type TaskCache struct {
	mu      sync.RWMutex
	tasks   []domain.Task
	stats   app.Stats
	version uint64
}

func New() *TaskCache {
	return &TaskCache{}
}

// Replace swaps the whole task list, as after a refetch.
func (c *TaskCache) Replace(tasks []domain.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = make([]domain.Task, len(tasks))
	for i, t := range tasks {
		c.tasks[i] = t.Clone()
	}
	c.version++
}

// Reset empties the cache, as on a top-level reload.
func (c *TaskCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = nil
	c.stats = app.Stats{}
	c.version++
}

// Snapshot returns deep copies of all tasks in cache order.
func (c *TaskCache) Snapshot() []domain.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Task, len(c.tasks))
	for i, t := range c.tasks {
		out[i] = t.Clone()
	}
	return out
}

func (c *TaskCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tasks)
}

func (c *TaskCache) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

func (c *TaskCache) Get(id int64) (domain.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(id); i >= 0 {
		return c.tasks[i].Clone(), true
	}
	return domain.Task{}, false
}

// Put overwrites the entry with the same ID in place. A task not yet cached
// is prepended.
func (c *TaskCache) Put(t domain.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(t.ID); i >= 0 {
		c.tasks[i] = t.Clone()
	} else {
		c.tasks = append([]domain.Task{t.Clone()}, c.tasks...)
	}
	c.version++
}

// Remove drops the listed tasks and reports how many were present.
func (c *TaskCache) Remove(ids ...int64) int {
	drop := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.tasks[:0]
	removed := 0
	for _, t := range c.tasks {
		if _, ok := drop[t.ID]; ok {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	c.tasks = kept
	if removed > 0 {
		c.version++
	}
	return removed
}

// Update applies fn to the cached task with id. It reports false when the
// task is not cached, in which case fn is not called.
func (c *TaskCache) Update(id int64, fn func(*domain.Task)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	fn(&c.tasks[i])
	c.version++
	return true
}

// Subtask returns a copy of one subtask of a cached task.
func (c *TaskCache) Subtask(taskID, subtaskID int64) (domain.Subtask, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.indexOf(taskID)
	if i < 0 {
		return domain.Subtask{}, false
	}
	j := c.tasks[i].SubtaskIndex(subtaskID)
	if j < 0 {
		return domain.Subtask{}, false
	}
	return c.tasks[i].Subtasks[j], true
}

// UpdateSubtask applies fn to one subtask in place.
func (c *TaskCache) UpdateSubtask(taskID, subtaskID int64, fn func(*domain.Subtask)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(taskID)
	if i < 0 {
		return false
	}
	j := c.tasks[i].SubtaskIndex(subtaskID)
	if j < 0 {
		return false
	}
	fn(&c.tasks[i].Subtasks[j])
	c.version++
	return true
}

// Subtasks returns a copy of a task's subtask list.
func (c *TaskCache) Subtasks(taskID int64) ([]domain.Subtask, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.indexOf(taskID)
	if i < 0 {
		return nil, false
	}
	out := make([]domain.Subtask, len(c.tasks[i].Subtasks))
	copy(out, c.tasks[i].Subtasks)
	return out, true
}

// SetSubtasks replaces a task's subtask list verbatim.
func (c *TaskCache) SetSubtasks(taskID int64, subtasks []domain.Subtask) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(taskID)
	if i < 0 {
		return false
	}
	list := make([]domain.Subtask, len(subtasks))
	copy(list, subtasks)
	c.tasks[i].Subtasks = list
	c.version++
	return true
}

// AppendSubtasks adds subtasks at the end of a task's list.
func (c *TaskCache) AppendSubtasks(taskID int64, subtasks ...domain.Subtask) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(taskID)
	if i < 0 {
		return false
	}
	c.tasks[i].Subtasks = append(c.tasks[i].Subtasks, subtasks...)
	c.version++
	return true
}

func (c *TaskCache) Stats() app.Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

func (c *TaskCache) SetStats(s app.Stats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = s
	c.version++
}

func (c *TaskCache) indexOf(id int64) int {
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
