// Package console writes the conversation with the user to a terminal.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"sherpa/internal/core/model"

	"github.com/charmbracelet/lipgloss"
)

const (
	indent      = "    "
	dividerRune = "_"
	dividerLen  = 60
)

// Presenter prints indented lines. Color is applied only when out is a
// terminal that supports it.
type Presenter struct {
	mu      sync.Mutex
	out     io.Writer
	text    lipgloss.Style
	title   lipgloss.Style
	done    lipgloss.Style
	pending lipgloss.Style
	divider lipgloss.Style
	muted   lipgloss.Style
}

// New creates a presenter writing to out.
func New(out io.Writer) *Presenter {
	renderer := lipgloss.NewRenderer(out)
	return &Presenter{
		out:     out,
		text:    renderer.NewStyle(),
		title:   renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		done:    renderer.NewStyle().Foreground(lipgloss.Color("#04B575")),
		pending: renderer.NewStyle(),
		divider: renderer.NewStyle().Foreground(lipgloss.Color("#626262")),
		muted:   renderer.NewStyle().Foreground(lipgloss.Color("244")),
	}
}

// ShowToUser prints each line indented. Embedded newlines start new lines.
func (presenter *Presenter) ShowToUser(lines ...string) {
	presenter.mu.Lock()
	defer presenter.mu.Unlock()
	for _, line := range lines {
		for _, part := range strings.Split(line, "\n") {
			presenter.writeLocked(presenter.text.Render(part))
		}
	}
}

// ShowTasks prints a numbered task listing under title.
func (presenter *Presenter) ShowTasks(title string, tasks []model.Task) {
	presenter.mu.Lock()
	defer presenter.mu.Unlock()

	presenter.writeLocked(presenter.title.Render(title))
	if len(tasks) == 0 {
		presenter.writeLocked(presenter.muted.Render("You have no tasks here."))
		return
	}
	for i, task := range tasks {
		style := presenter.pending
		if task.Done {
			style = presenter.done
		}
		presenter.writeLocked(style.Render(fmt.Sprintf("%d. %s", i+1, task)))
	}
}

// ShowLine prints a divider.
func (presenter *Presenter) ShowLine() {
	presenter.mu.Lock()
	defer presenter.mu.Unlock()
	presenter.writeLocked(presenter.divider.Render(strings.Repeat(dividerRune, dividerLen)))
}

// Welcome prints the greeting shown at startup.
func (presenter *Presenter) Welcome(appName string) {
	presenter.ShowLine()
	presenter.ShowToUser(
		fmt.Sprintf("Hello! I'm %s, your study planner.", appName),
		"Type 'help' to see what I can do, or 'study' to start a study session.",
	)
	presenter.ShowLine()
}

func (presenter *Presenter) writeLocked(line string) {
	fmt.Fprintln(presenter.out, indent+line)
}
