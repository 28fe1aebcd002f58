// Package testutil provides helpers shared by the harness tests.
package testutil

import "sync"

// CaptureSink records progress lines for assertions. Safe for concurrent
// writers.
type CaptureSink struct {
	mu    sync.Mutex
	lines []string
}

// WriteLine records one progress line.
func (c *CaptureSink) WriteLine(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, line)
}

// Lines returns a copy of the recorded lines.
func (c *CaptureSink) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}

// Len returns the number of recorded lines.
func (c *CaptureSink) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}
