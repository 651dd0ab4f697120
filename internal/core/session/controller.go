package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"sherpa/internal/core/clock"
	"sherpa/internal/core/model"
	"sherpa/internal/core/timekeeper"
)

// Presenter shows text to the user.
type Presenter interface {
	ShowToUser(lines ...string)
	ShowTasks(title string, tasks []model.Task)
	ShowLine()
}

// Storage persists the task list after every mutation.
type Storage interface {
	WriteSaveData(tasks *model.TaskList) error
}

// SessionRecorder is implemented by storages that keep a study history.
type SessionRecorder interface {
	RecordSession(record model.SessionRecord) error
}

// Options wires a Controller to its collaborators.
type Options struct {
	Clock       clock.Clock
	Publisher   timekeeper.Publisher
	IdleChecker timekeeper.IdleChecker
}

// Controller decides which timer and task commands are allowed while
// studying and owns the current timer session.
type Controller struct {
	mu          sync.Mutex
	ctx         context.Context
	config      model.TimeKeeperConfig
	tasks       *model.TaskList
	storage     Storage
	presenter   Presenter
	options     Options
	keeper      *timekeeper.TimeKeeper
	initialised bool
}

// NewController creates a controller. Tick loops it starts are children of ctx.
func NewController(ctx context.Context, config model.TimeKeeperConfig, tasks *model.TaskList, storage Storage, presenter Presenter, options Options) *Controller {
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if config.MaxDuration <= 0 {
		config.MaxDuration = model.DefaultTimeKeeperConfig().MaxDuration
	}
	return &Controller{
		ctx:       ctx,
		config:    config,
		tasks:     tasks,
		storage:   storage,
		presenter: presenter,
		options:   options,
	}
}

// StartTimer starts a countdown or stopwatch from the arguments of a start
// command.
func (controller *Controller) StartTimer(args []string) error {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	if controller.initialised {
		return controller.fail(newError(ErrIllegalTimerTransition, msgAlreadyRunning, nil))
	}
	mode, seconds, err := ParseTimerArgs(args, controller.config.MaxDuration)
	if err != nil {
		var userErr *Error
		if errors.As(err, &userErr) {
			return controller.fail(userErr)
		}
		return controller.fail(newError(ErrInvalidTimerInput, msgInvalidTimerInput, err))
	}

	if controller.keeper != nil && controller.keeper.Snapshot().Running() {
		if _, err := controller.keeper.Stop(); err != nil {
			log.Printf("stop previous timer: %v", err)
		}
	}

	controller.keeper = timekeeper.New(controller.config, timekeeper.Config{Mode: mode, Seconds: seconds}, timekeeper.Options{
		Clock:       controller.options.Clock,
		Publisher:   controller.options.Publisher,
		IdleChecker: controller.options.IdleChecker,
		OnExpire:    controller.handleExpiry,
		OnIdlePause: controller.handleIdlePause,
	})
	controller.initialised = true
	controller.keeper.Start(controller.ctx)

	if mode == timekeeper.ModeStopwatch {
		controller.presenter.ShowToUser("Stopwatch started.")
	} else {
		controller.presenter.ShowToUser(fmt.Sprintf("Timer of %s started.", timekeeper.DescribeDuration(seconds)))
	}
	return nil
}

// PauseTimer suspends the running timer.
func (controller *Controller) PauseTimer() error {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	if !controller.initialised || controller.keeper == nil {
		return controller.fail(newError(ErrIllegalTimerTransition, msgNoTimer, nil))
	}
	snapshot, err := controller.keeper.Pause()
	switch {
	case errors.Is(err, timekeeper.ErrAlreadyPaused):
		return controller.fail(newError(ErrIllegalTimerTransition, msgAlreadyPaused, err))
	case errors.Is(err, timekeeper.ErrAlreadyFinished):
		return controller.fail(newError(ErrIllegalTimerTransition, msgAlreadyFinished, err))
	case err != nil:
		return controller.fail(newError(ErrIllegalTimerTransition, msgNoTimer, err))
	}
	controller.presenter.ShowToUser("Okay! I've paused the timer. " + progressSentence(snapshot))
	return nil
}

// ResumeTimer wakes a paused timer.
func (controller *Controller) ResumeTimer() error {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	if !controller.initialised || controller.keeper == nil {
		return controller.fail(newError(ErrIllegalTimerTransition, msgNoTimer, nil))
	}
	snapshot, err := controller.keeper.Resume()
	switch {
	case errors.Is(err, timekeeper.ErrStillRunning):
		return controller.fail(newError(ErrIllegalTimerTransition, msgStillRunning, err))
	case err != nil:
		return controller.fail(newError(ErrIllegalTimerTransition, msgNoTimerCurrently, err))
	}
	controller.presenter.ShowToUser("Okay! I've resumed the timer. " + progressSentence(snapshot))
	return nil
}

// TogglePause pauses a running timer and resumes a paused one. It backs the
// overlay's Pause/Resume button.
func (controller *Controller) TogglePause() error {
	if controller.Snapshot().Paused() {
		return controller.ResumeTimer()
	}
	return controller.PauseTimer()
}

// StopTimer force-stops the current timer and prints every task.
func (controller *Controller) StopTimer() error {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	if !controller.initialised || controller.keeper == nil {
		return controller.fail(newError(ErrIllegalTimerTransition, msgNothingToStop, nil))
	}
	if err := controller.stopLocked(model.OutcomeStopped); err != nil {
		return controller.fail(newError(ErrIllegalTimerTransition, msgAlreadyStopped, err))
	}
	controller.presenter.ShowToUser(msgStopped)
	controller.presenter.ShowTasks("Here are your tasks:", controller.tasks.Tasks())
	controller.presenter.ShowToUser(promptNoSession)
	return nil
}

// MarkTask marks the numbered task as done unless a timer is actively
// counting.
func (controller *Controller) MarkTask(args []string) error {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	if controller.initialised && controller.keeper != nil && controller.keeper.State() == timekeeper.StateRunning {
		return controller.fail(newError(ErrDisallowedWhileTimerActive, msgCannotMark, nil))
	}
	position, err := parsePosition(args)
	if err != nil {
		return controller.fail(newError(ErrInvalidTaskInput, msgMarkUsage, err))
	}
	task, err := controller.tasks.Mark(position, true)
	if err != nil {
		return controller.fail(newError(ErrInvalidTaskInput, fmt.Sprintf("There is no task number %d.", position), err))
	}
	controller.presenter.ShowToUser("Nice! I've marked this task as done:", "  "+task.String())
	if err := controller.storage.WriteSaveData(controller.tasks); err != nil {
		log.Printf("save tasks: %v", err)
	}
	controller.showPromptLocked()
	return nil
}

// ShowTasks lists today's schedule or every task. It is only allowed when no
// timer session exists.
func (controller *Controller) ShowTasks(args []string) error {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	if controller.initialised {
		return controller.fail(newError(ErrDisallowedWhileTimerActive, msgCannotShow, nil))
	}
	if len(args) > 0 && strings.EqualFold(args[0], "all") {
		controller.presenter.ShowTasks("Here are your tasks:", controller.tasks.Tasks())
	} else {
		controller.showTodayLocked()
	}
	controller.showPromptLocked()
	return nil
}

// WindowClosed handles the overlay being closed by the user: any active timer
// is stopped and a divider printed.
func (controller *Controller) WindowClosed() {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	if controller.initialised && controller.keeper != nil {
		if err := controller.stopLocked(model.OutcomeClosed); err == nil {
			controller.presenter.ShowToUser(msgWindowClosed, msgStopped)
			controller.presenter.ShowTasks("Here are your tasks:", controller.tasks.Tasks())
			controller.presenter.ShowToUser(promptNoSession)
		}
	}
	controller.presenter.ShowLine()
}

// Close stops any active timer without printing. It is called when the study
// session or the program ends.
func (controller *Controller) Close() {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	if controller.keeper != nil {
		_ = controller.stopLocked(model.OutcomeClosed)
	}
	controller.initialised = false
}

// UpdateConfig replaces the timer configuration. It applies from the next
// timer on; a running one keeps the settings it started with.
func (controller *Controller) UpdateConfig(config model.TimeKeeperConfig) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if config.MaxDuration <= 0 {
		config.MaxDuration = controller.config.MaxDuration
	}
	controller.config = config
}

// Snapshot returns the state of the current session; the zero Snapshot (idle)
// when there is none.
func (controller *Controller) Snapshot() timekeeper.Snapshot {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.keeper == nil {
		return timekeeper.Snapshot{State: timekeeper.StateIdle}
	}
	return controller.keeper.Snapshot()
}

// Initialised reports whether a timer session is in progress.
func (controller *Controller) Initialised() bool {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.initialised
}

// stopLocked force-stops the keeper and records the session. The keeper's loop
// never takes controller.mu, so waiting for it here cannot deadlock.
func (controller *Controller) stopLocked(outcome model.SessionOutcome) error {
	snapshot, err := controller.keeper.Stop()
	if err != nil {
		return err
	}
	controller.initialised = false
	controller.recordLocked(snapshot, outcome)
	return nil
}

// handleExpiry runs on the tick goroutine after its loop exited.
func (controller *Controller) handleExpiry(snapshot timekeeper.Snapshot) {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	controller.recordLocked(snapshot, model.OutcomeExpired)
	if controller.keeper == nil || controller.keeper.ID() != snapshot.ID || !controller.initialised {
		return
	}
	controller.initialised = false
	controller.presenter.ShowToUser(msgTimeUp, promptNoSession)
	controller.showTodayLocked()
	controller.presenter.ShowLine()
}

// handleIdlePause runs on the tick goroutine while its loop is alive and so
// must not take controller.mu.
func (controller *Controller) handleIdlePause(timekeeper.Snapshot) {
	controller.presenter.ShowToUser(msgIdlePaused)
}

func (controller *Controller) recordLocked(snapshot timekeeper.Snapshot, outcome model.SessionOutcome) {
	recorder, ok := controller.storage.(SessionRecorder)
	if !ok {
		return
	}
	record := model.SessionRecord{
		ID:        snapshot.ID.String(),
		Mode:      string(snapshot.Mode),
		StartedAt: snapshot.StartedAt,
		EndedAt:   controller.options.Clock.Now(),
		Seconds:   int(time.Duration(snapshot.Ticks) * controller.config.TickInterval / time.Second),
		Outcome:   outcome,
	}
	if err := recorder.RecordSession(record); err != nil {
		log.Printf("record study session: %v", err)
	}
}

func (controller *Controller) showTodayLocked() {
	today := controller.options.Clock.Now()
	controller.presenter.ShowTasks(fmt.Sprintf("Schedule for %s:", today.Format(model.DateLayout)), controller.tasks.TasksOn(today))
}

// showPromptLocked offers to resume only when the timer is really paused; a
// countdown that just expired is not resumable even before its expiry is
// presented.
func (controller *Controller) showPromptLocked() {
	if controller.initialised && controller.keeper != nil && controller.keeper.State() == timekeeper.StatePaused {
		controller.presenter.ShowToUser(promptPaused)
		return
	}
	controller.presenter.ShowToUser(promptNoSession)
}

func (controller *Controller) fail(err *Error) error {
	controller.presenter.ShowToUser(err.Message)
	return err
}

func progressSentence(snapshot timekeeper.Snapshot) string {
	if snapshot.Mode == timekeeper.ModeStopwatch {
		return fmt.Sprintf("%s have passed.", timekeeper.DescribeDuration(snapshot.Seconds))
	}
	return fmt.Sprintf("You have %s left.", timekeeper.DescribeDuration(snapshot.Seconds))
}
