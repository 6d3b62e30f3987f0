package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Runner owns the Bubble Tea program and adapts the mirror engine's progress
// callbacks into program messages. It satisfies the engine's Events interface
// and is safe for use from worker goroutines, since Program.Send is.
type Runner struct {
	program *tea.Program
	model   Model
	mu      sync.Mutex
	started bool
}

// NewRunner creates a TUI runner.
func NewRunner() *Runner {
	return &Runner{model: New()}
}

// Start launches the program in a goroutine and returns immediately. The
// program runs until Done is called or the user quits.
func (r *Runner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return nil
	}

	r.program = tea.NewProgram(r.model)
	r.started = true

	go func() {
		_, _ = r.program.Run()
	}()

	return nil
}

// Wait blocks until the program exits.
func (r *Runner) Wait() {
	if r.program != nil {
		r.program.Wait()
	}
}

// AddItem registers a pending work item.
func (r *Runner) AddItem(id, title string) {
	if r.program != nil {
		r.program.Send(AddItemMsg{ID: id, Title: title})
	}
}

// SetActive marks an item as in flight.
func (r *Runner) SetActive(id string) {
	if r.program != nil {
		r.program.Send(UpdateStatusMsg{ID: id, Status: StatusActive})
	}
}

// SetDone marks an item as finished.
func (r *Runner) SetDone(id string) {
	if r.program != nil {
		r.program.Send(UpdateStatusMsg{ID: id, Status: StatusDone})
	}
}

// SetFailed marks an item as failed.
func (r *Runner) SetFailed(id, msg string) {
	if r.program != nil {
		r.program.Send(UpdateStatusMsg{ID: id, Status: StatusFailed, Error: msg})
	}
}

// Done ends the program once the run finished.
func (r *Runner) Done(err error) {
	if r.program != nil {
		r.program.Send(DoneMsg{Err: err})
	}
}
