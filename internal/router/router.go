// Package router keeps the stack of open screens and drives their
// lifecycle: Init on entry, Close on exit, Resume when uncovered.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/vocabdrill/internal/screen"
)

// PushScreenMsg opens Screen on top of the active one.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg closes the active screen, returning to the one below.
type PopScreenMsg struct{}

// ReplaceScreenMsg closes the active screen and opens Screen in its place,
// as the review screen does when switching language.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// Router holds the screen stack. The bottom screen is never removed.
type Router struct {
	stack []screen.Screen
}

// New creates a Router with root at the bottom of the stack.
func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

// Active returns the top screen.
func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

// Depth returns the number of open screens.
func (r *Router) Depth() int {
	return len(r.stack)
}

// Push opens s on top of the stack.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop closes the top screen and resumes the one it covered. At the bottom
// of the stack it does nothing.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) < 2 {
		return nil
	}
	closeScreen(r.Active())
	r.stack = r.stack[:len(r.stack)-1]

	if res, ok := r.Active().(screen.Resumer); ok {
		return res.Resume()
	}
	return nil
}

// Replace closes the top screen and opens s in its slot.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	closeScreen(r.Active())
	r.stack[len(r.stack)-1] = s
	return s.Init()
}

// Update applies navigation messages and sends everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	}

	top := len(r.stack) - 1
	if top < 0 {
		return nil
	}
	var cmd tea.Cmd
	r.stack[top], cmd = r.stack[top].Update(msg)
	return cmd
}

// View renders the active screen into the content area.
func (r *Router) View(width, height int) string {
	if s := r.Active(); s != nil {
		return s.View(width, height)
	}
	return ""
}

func closeScreen(s screen.Screen) {
	if c, ok := s.(screen.Closer); ok {
		c.Close()
	}
}
