package control

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"sherpa/internal/core/session"
)

// StudySession is the timer side of the study mode.
type StudySession interface {
	StartTimer(args []string) error
	PauseTimer() error
	ResumeTimer() error
	StopTimer() error
	MarkTask(args []string) error
	ShowTasks(args []string) error
	Close()
}

var plannerHelp = []string{
	"Here are the commands you can use:",
	"  add <description> [/by d/M/yyyy] [/do_on d/M/yyyy]",
	"  list | show [today|all]",
	"  mark <n> | unmark <n> | delete <n>",
	"  study  (start a study session)",
	"  bye",
}

var studyHelp = []string{
	"Study session commands:",
	"  start <seconds|25m|1h30m> | start countdown <duration> | start stopwatch",
	"  pause | resume | stop",
	"  mark <n> | show [today|all]",
	"  leave  (back to your tasks) | bye",
}

// Loop is the foreground read loop. It owns the planner/study mode switch.
type Loop struct {
	input     io.Reader
	presenter session.Presenter
	planner   *Planner
	study     StudySession
	studying  bool
}

// NewLoop creates a read loop over input.
func NewLoop(input io.Reader, presenter session.Presenter, planner *Planner, study StudySession) *Loop {
	return &Loop{input: input, presenter: presenter, planner: planner, study: study}
}

// Studying reports whether the loop is inside a study session.
func (loop *Loop) Studying() bool {
	return loop.studying
}

// Run reads commands until bye, end of input or ctx is done. Any timer still
// active when Run returns has been stopped.
func (loop *Loop) Run(ctx context.Context) error {
	defer loop.study.Close()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(loop.input)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("read input: %w", err)
					}
				default:
				}
				return nil
			}
			if !loop.Dispatch(Parse(line)) {
				return nil
			}
		}
	}
}

// Dispatch executes one command and reports whether the loop should keep
// reading. User errors have already been shown by the time it returns.
func (loop *Loop) Dispatch(command Command) bool {
	if command.Type == CmdEmpty {
		return true
	}
	if loop.studying {
		return loop.dispatchStudy(command)
	}
	return loop.dispatchPlanner(command)
}

func (loop *Loop) dispatchPlanner(command Command) bool {
	if !command.AllowedInPlanner() {
		loop.unknown(command)
		return true
	}
	switch command.Type {
	case CmdAdd:
		_ = loop.planner.Add(command.Args)
	case CmdList:
		loop.planner.List()
	case CmdShow:
		loop.planner.Show(command.Args)
	case CmdMark:
		_ = loop.planner.Mark(command.Args, true)
	case CmdUnmark:
		_ = loop.planner.Mark(command.Args, false)
	case CmdDelete:
		_ = loop.planner.Delete(command.Args)
	case CmdStudy:
		loop.studying = true
		loop.presenter.ShowToUser("Welcome to the study session! Start a timer with 'start 25m' or 'start stopwatch'.")
		loop.presenter.ShowToUser(studyHelp...)
	case CmdHelp:
		loop.presenter.ShowToUser(plannerHelp...)
	case CmdBye:
		loop.presenter.ShowToUser("Bye! Hope to see you again soon.")
		return false
	}
	return true
}

func (loop *Loop) dispatchStudy(command Command) bool {
	if !command.AllowedInStudy() {
		loop.unknown(command)
		return true
	}
	switch command.Type {
	case CmdStart:
		_ = loop.study.StartTimer(command.Args)
	case CmdPause:
		_ = loop.study.PauseTimer()
	case CmdResume:
		_ = loop.study.ResumeTimer()
	case CmdStop:
		_ = loop.study.StopTimer()
	case CmdMark:
		_ = loop.study.MarkTask(command.Args)
	case CmdShow:
		_ = loop.study.ShowTasks(command.Args)
	case CmdHelp:
		loop.presenter.ShowToUser(studyHelp...)
	case CmdLeave:
		loop.study.Close()
		loop.studying = false
		loop.presenter.ShowToUser("Leaving the study session. Back to your tasks!")
		loop.presenter.ShowLine()
	case CmdBye:
		loop.study.Close()
		loop.studying = false
		loop.presenter.ShowToUser("Bye! Hope to see you again soon.")
		return false
	}
	return true
}

func (loop *Loop) unknown(command Command) {
	if loop.studying {
		loop.presenter.ShowToUser(fmt.Sprintf("I can't do '%s' in a study session. Type 'help' to see what you can do.", command.Word))
		return
	}
	loop.presenter.ShowToUser(fmt.Sprintf("I don't know what '%s' means. Type 'help' to see what you can do.", command.Word))
}
