// Package source collects share-link text from files, stdin, watched files
// and other producers before it is handed to the converter.
package source

import (
	"strings"
	"sync"
)

// Buffer is a goroutine-safe text buffer. Producers such as a scanner or a
// file watcher append decoded strings as new lines; Text is what the next
// conversion sees.
type Buffer struct {
	mu    sync.RWMutex
	lines []string
}

// NewBuffer returns a buffer holding text.
func NewBuffer(text string) *Buffer {
	b := &Buffer{}
	b.Append(text)
	return b
}

// Append adds s as a new line. Empty strings are ignored.
func (b *Buffer) Append(s string) {
	s = trimLine(s)
	if s == "" {
		return
	}
	b.mu.Lock()
	b.lines = append(b.lines, s)
	b.mu.Unlock()
}

// Set replaces the whole content in one step.
func (b *Buffer) Set(text string) {
	text = trimLine(text)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = b.lines[:0]
	if text != "" {
		b.lines = append(b.lines, text)
	}
}

// Text returns the content joined by '\n'.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Join(b.lines, "\n")
}

func trimLine(s string) string {
	return strings.TrimRight(s, "\r\n")
}
