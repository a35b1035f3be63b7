package runner

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

type inputResult struct {
	text string
	err  error
}

// lineReader reads lines on a background goroutine so that a pending read
// never blocks cancellation.
//
// A line is only read when ReadLine asks for one, one byte at a time, so
// input after the last answered line stays in the underlying reader. A read
// abandoned by cancellation finishes when the underlying reader returns; its
// line is handed to the next ReadLine.
type lineReader struct {
	reader io.Reader
	demand chan struct{}
	lines  chan inputResult
	done   chan struct{}

	pending   bool
	startOnce sync.Once
	closeOnce sync.Once
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{
		reader: r,
		demand: make(chan struct{}),
		lines:  make(chan inputResult, 1),
		done:   make(chan struct{}),
	}
}

func (l *lineReader) pump() {
	for {
		select {
		case <-l.done:
			return
		case <-l.demand:
		}

		text, err := l.readLine()
		select {
		case l.lines <- inputResult{text: text, err: err}:
		case <-l.done:
			return
		}
	}
}

func (l *lineReader) readLine() (string, error) {
	var sb strings.Builder
	var b [1]byte
	for {
		n, err := l.reader.Read(b[:])
		if n > 0 {
			sb.WriteByte(b[0])
			if b[0] == '\n' {
				return sb.String(), nil
			}
		}
		if err != nil {
			// A last line without a newline still counts.
			if errors.Is(err, io.EOF) && sb.Len() > 0 {
				return sb.String(), nil
			}
			return "", err
		}
	}
}

// ReadLine returns the next line, io.EOF once input is exhausted, or the
// context error.
func (l *lineReader) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	l.startOnce.Do(func() { go l.pump() })

	if !l.pending {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case l.demand <- struct{}{}:
			l.pending = true
		}
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-l.lines:
		l.pending = false
		return res.text, res.err
	}
}

// Close stops the pump once it is idle. A read in progress is not
// interrupted.
func (l *lineReader) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}
