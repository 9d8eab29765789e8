package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Run drives m full-screen until it quits, sending a MsgTick every second so
// running timers redraw.
func Run(m tea.Model, opts ...tea.ProgramOption) (tea.Model, error) {
	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case <-ticker.C:
				p.Send(MsgTick{})
			case <-done:
				return
			}
		}
	}()

	return p.Run()
}
