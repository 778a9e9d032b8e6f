package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when the context ends before a line arrives.
var ErrInputCancelled = errors.New("input canceled")

type line struct {
	err  error
	text string
}

// LineReader reads answers from a terminal without blocking past the
// command's context. One goroutine scans the input for the reader's lifetime,
// so an abandoned read never races with the next one.
type LineReader struct {
	src   io.Reader
	lines chan line
	start sync.Once
}

// NewLineReader wraps src; nothing is read until the first ReadLine.
func NewLineReader(src io.Reader) *LineReader {
	return &LineReader{src: src, lines: make(chan line)}
}

func (r *LineReader) pump() {
	scanner := bufio.NewScanner(r.src)
	for scanner.Scan() {
		r.lines <- line{text: scanner.Text()}
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	for {
		r.lines <- line{err: err}
	}
}

// ReadLine returns the next line with surrounding space trimmed.
// A final line without a newline is returned normally; after it, io.EOF.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}
	r.start.Do(func() { go r.pump() })

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case l := <-r.lines:
		return strings.TrimSpace(l.text), l.err
	}
}

// Confirm asks a yes/no question on w. Only y or yes, in any case, is a yes;
// running out of input is a no.
func Confirm(ctx context.Context, r *LineReader, w io.Writer, question string) (bool, error) {
	if _, err := fmt.Fprint(w, FormatPrompt(question+" [y/N]")); err != nil {
		return false, err
	}
	answer, err := r.ReadLine(ctx)
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
