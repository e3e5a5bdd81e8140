package watch

import (
	"strings"
	"sync"
)

// Window keeps the most recent lines of a followed file.
type Window struct {
	mu      sync.Mutex
	lines   []string
	maxSize int
}

func NewWindow(maxSize int) *Window {
	if maxSize < 1 {
		maxSize = 1
	}
	return &Window{
		lines:   make([]string, 0, maxSize),
		maxSize: maxSize,
	}
}

// Push appends a line, dropping the oldest when full.
func (w *Window) Push(line string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.lines) >= w.maxSize {
		w.lines = w.lines[1:]
	}
	w.lines = append(w.lines, line)
}

func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.lines)
}

// Text joins the window back into analyzer input.
func (w *Window) Text() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return strings.Join(w.lines, "\n")
}
