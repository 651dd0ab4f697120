package control

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"sherpa/internal/core/model"
	"sherpa/internal/core/session"
)

// ErrInvalidDate indicates a date that does not follow model.DateLayout.
var ErrInvalidDate = errors.New("invalid date")

// ErrInvalidPosition indicates a missing or non-numeric task number.
var ErrInvalidPosition = errors.New("invalid task number")

const (
	byMarker   = "/by"
	doOnMarker = "/do_on"
)

// Planner runs the task commands available outside a study session.
type Planner struct {
	tasks     *model.TaskList
	storage   session.Storage
	presenter session.Presenter
	now       func() time.Time
}

// NewPlanner creates a planner over tasks. now supplies "today" for show.
func NewPlanner(tasks *model.TaskList, storage session.Storage, presenter session.Presenter, now func() time.Time) *Planner {
	if now == nil {
		now = time.Now
	}
	return &Planner{tasks: tasks, storage: storage, presenter: presenter, now: now}
}

// Add creates a task from "<description> [/by d/M/yyyy] [/do_on d/M/yyyy]".
func (planner *Planner) Add(args []string) error {
	description, byDate, doOnDate, err := ParseAddArgs(args)
	if err != nil {
		if errors.Is(err, ErrInvalidDate) {
			planner.presenter.ShowToUser("Dates must look like d/M/yyyy, e.g. 6/3/2026.")
		} else {
			planner.presenter.ShowToUser(err.Error())
		}
		return err
	}

	task, err := planner.tasks.NewTask(description, byDate, doOnDate)
	switch {
	case errors.Is(err, model.ErrEmptyDescription):
		planner.presenter.ShowToUser("Please give the task a description.")
		return err
	case errors.Is(err, model.ErrDuplicateTask):
		planner.presenter.ShowToUser("This task is already in your list.")
		return err
	case err != nil:
		return err
	}

	planner.tasks.AddTask(task)
	planner.save()
	planner.presenter.ShowToUser("Got it. I've added this task:", "  "+task.String(),
		fmt.Sprintf("Now you have %d task(s) in the list.", planner.tasks.Len()))
	return nil
}

// List prints every task.
func (planner *Planner) List() {
	planner.presenter.ShowTasks("Here are your tasks:", planner.tasks.Tasks())
}

// Show prints today's schedule, or every task for "show all".
func (planner *Planner) Show(args []string) {
	if len(args) > 0 && strings.EqualFold(args[0], "all") {
		planner.List()
		return
	}
	today := planner.now()
	planner.presenter.ShowTasks(fmt.Sprintf("Schedule for %s:", today.Format(model.DateLayout)), planner.tasks.TasksOn(today))
}

// Mark sets or clears the done flag of the numbered task.
func (planner *Planner) Mark(args []string, done bool) error {
	position, err := parsePosition(args)
	if err != nil {
		planner.presenter.ShowToUser("Please give the number of the task, e.g. 'mark 2'.")
		return err
	}
	task, err := planner.tasks.Mark(position, done)
	if err != nil {
		planner.presenter.ShowToUser(fmt.Sprintf("There is no task number %d.", position))
		return err
	}
	planner.save()
	if done {
		planner.presenter.ShowToUser("Nice! I've marked this task as done:", "  "+task.String())
	} else {
		planner.presenter.ShowToUser("Okay, I've marked this task as not done yet:", "  "+task.String())
	}
	return nil
}

// Delete removes the numbered task.
func (planner *Planner) Delete(args []string) error {
	position, err := parsePosition(args)
	if err != nil {
		planner.presenter.ShowToUser("Please give the number of the task, e.g. 'delete 2'.")
		return err
	}
	task, err := planner.tasks.Delete(position)
	if err != nil {
		planner.presenter.ShowToUser(fmt.Sprintf("There is no task number %d.", position))
		return err
	}
	planner.save()
	planner.presenter.ShowToUser("Okay. I've removed this task:", "  "+task.String(),
		fmt.Sprintf("Now you have %d task(s) in the list.", planner.tasks.Len()))
	return nil
}

func (planner *Planner) save() {
	if err := planner.storage.WriteSaveData(planner.tasks); err != nil {
		log.Printf("save tasks: %v", err)
	}
}

// ParseAddArgs splits the arguments of an add command into the description
// and the optional due and work dates.
func ParseAddArgs(args []string) (string, time.Time, time.Time, error) {
	var (
		description []string
		byDate      time.Time
		doOnDate    time.Time
	)
	for i := 0; i < len(args); i++ {
		marker := strings.ToLower(args[i])
		if marker != byMarker && marker != doOnMarker {
			description = append(description, args[i])
			continue
		}
		if i+1 >= len(args) {
			return "", time.Time{}, time.Time{}, fmt.Errorf("%w: %s needs a date", ErrInvalidDate, marker)
		}
		i++
		date, err := time.ParseInLocation(model.DateLayout, args[i], time.Local)
		if err != nil {
			return "", time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
		}
		if marker == byMarker {
			byDate = date
		} else {
			doOnDate = date
		}
	}
	return strings.Join(description, " "), byDate, doOnDate, nil
}

func parsePosition(args []string) (int, error) {
	if len(args) != 1 {
		return 0, ErrInvalidPosition
	}
	position, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPosition, err)
	}
	return position, nil
}
