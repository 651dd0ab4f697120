package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// DateLayout is the only date format tasks accept, e.g. 3/6/2026.
const DateLayout = "2/1/2006"

var (
	// ErrTaskNotFound indicates no task carries the requested number.
	ErrTaskNotFound = errors.New("task not found")
	// ErrDuplicateTask indicates a task with the same description exists.
	ErrDuplicateTask = errors.New("task already added")
	// ErrEmptyDescription indicates a blank task description.
	ErrEmptyDescription = errors.New("task description is empty")
)

// Task is a single to-do entry.
type Task struct {
	ID          int       `yaml:"id"`
	Description string    `yaml:"description"`
	ByDate      time.Time `yaml:"by_date,omitempty"`
	DoOnDate    time.Time `yaml:"do_on_date,omitempty"`
	Done        bool      `yaml:"done"`
}

// String renders the task the way listings show it.
func (task Task) String() string {
	status := " "
	if task.Done {
		status = "X"
	}
	var builder strings.Builder
	fmt.Fprintf(&builder, "[%s] %s", status, task.Description)
	if !task.ByDate.IsZero() {
		fmt.Fprintf(&builder, " (by: %s)", task.ByDate.Format(DateLayout))
	}
	if !task.DoOnDate.IsZero() {
		fmt.Fprintf(&builder, " (do on: %s)", task.DoOnDate.Format(DateLayout))
	}
	return builder.String()
}

// TaskList is the in-memory task collection. It is safe for concurrent use
// because the expiry notification reads it from the tick goroutine.
type TaskList struct {
	mu     sync.RWMutex
	tasks  []Task
	nextID int
}

// NewTaskList creates a list seeded with tasks.
func NewTaskList(tasks []Task) *TaskList {
	list := &TaskList{nextID: 1}
	for _, task := range tasks {
		list.tasks = append(list.tasks, task)
		if task.ID >= list.nextID {
			list.nextID = task.ID + 1
		}
	}
	return list
}

// IsTaskAlreadyAdded reports whether a task with the description exists.
func (list *TaskList) IsTaskAlreadyAdded(description string) bool {
	list.mu.RLock()
	defer list.mu.RUnlock()
	for _, task := range list.tasks {
		if strings.EqualFold(task.Description, strings.TrimSpace(description)) {
			return true
		}
	}
	return false
}

// GenerateIdentifier returns an identifier no task uses yet.
func (list *TaskList) GenerateIdentifier() int {
	list.mu.Lock()
	defer list.mu.Unlock()
	id := list.nextID
	list.nextID++
	return id
}

// AddTask appends a task.
func (list *TaskList) AddTask(task Task) {
	list.mu.Lock()
	defer list.mu.Unlock()
	list.tasks = append(list.tasks, task)
	if task.ID >= list.nextID {
		list.nextID = task.ID + 1
	}
}

// Mark sets the done flag of the task at the 1-based position.
func (list *TaskList) Mark(position int, done bool) (Task, error) {
	list.mu.Lock()
	defer list.mu.Unlock()
	if position < 1 || position > len(list.tasks) {
		return Task{}, fmt.Errorf("%w: %d", ErrTaskNotFound, position)
	}
	list.tasks[position-1].Done = done
	return list.tasks[position-1], nil
}

// Delete removes the task at the 1-based position.
func (list *TaskList) Delete(position int) (Task, error) {
	list.mu.Lock()
	defer list.mu.Unlock()
	if position < 1 || position > len(list.tasks) {
		return Task{}, fmt.Errorf("%w: %d", ErrTaskNotFound, position)
	}
	removed := list.tasks[position-1]
	list.tasks = append(list.tasks[:position-1], list.tasks[position:]...)
	return removed, nil
}

// Tasks returns a copy of every task in list order.
func (list *TaskList) Tasks() []Task {
	list.mu.RLock()
	defer list.mu.RUnlock()
	return append([]Task(nil), list.tasks...)
}

// Len returns the number of tasks.
func (list *TaskList) Len() int {
	list.mu.RLock()
	defer list.mu.RUnlock()
	return len(list.tasks)
}

// TasksOn returns the tasks scheduled for the given day: those whose work
// date, or failing that due date, falls on day. Results are ordered by due
// date, undated ones last.
func (list *TaskList) TasksOn(day time.Time) []Task {
	list.mu.RLock()
	defer list.mu.RUnlock()

	var scheduled []Task
	for _, task := range list.tasks {
		date := task.DoOnDate
		if date.IsZero() {
			date = task.ByDate
		}
		if !date.IsZero() && sameDay(date, day) {
			scheduled = append(scheduled, task)
		}
	}
	sort.SliceStable(scheduled, func(i, j int) bool {
		left, right := scheduled[i].ByDate, scheduled[j].ByDate
		if left.IsZero() != right.IsZero() {
			return !left.IsZero()
		}
		return left.Before(right)
	})
	return scheduled
}

// NewTask validates and builds a task with a fresh identifier.
func (list *TaskList) NewTask(description string, byDate, doOnDate time.Time) (Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Task{}, ErrEmptyDescription
	}
	if list.IsTaskAlreadyAdded(description) {
		return Task{}, fmt.Errorf("%w: %q", ErrDuplicateTask, description)
	}
	return Task{
		ID:          list.GenerateIdentifier(),
		Description: description,
		ByDate:      byDate,
		DoOnDate:    doOnDate,
	}, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
