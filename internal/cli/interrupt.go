package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

// InterruptHandler turns the first SIGINT or SIGTERM during a long command
// into a context cancellation plus a note on what was kept.
type InterruptHandler struct {
	out         io.Writer
	cancel      context.CancelFunc
	operation   string
	savedNote   string
	once        sync.Once
	interrupted atomic.Bool
}

// NewInterruptHandler reports on out, or stdout when out is nil.
func NewInterruptHandler(out io.Writer, operation, savedNote string) *InterruptHandler {
	if out == nil {
		out = os.Stdout
	}
	return &InterruptHandler{out: out, operation: operation, savedNote: savedNote}
}

// HandleInterrupts returns a child of ctx that ends on the first signal.
// Signals are released once either context is done.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context) context.Context {
	ctx, h.cancel = context.WithCancel(ctx)
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCtx.Done()
		stop()
		if ctx.Err() == nil {
			h.interrupt()
		}
	}()
	return ctx
}

func (h *InterruptHandler) interrupt() {
	h.once.Do(func() {
		h.interrupted.Store(true)
		h.showInterruptMessage()
	})
	if h.cancel != nil {
		h.cancel()
	}
}

func (h *InterruptHandler) showInterruptMessage() {
	msg := "\n\n" + FormatWarning(h.operation+" interrupted!")
	if h.savedNote != "" {
		msg += "\n" + FormatInfo(h.savedNote)
	}
	if _, err := fmt.Fprintln(h.out, msg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write interrupt message: %v\n", err)
	}
}

// WasInterrupted reports whether a signal ended the operation.
func (h *InterruptHandler) WasInterrupted() bool {
	return h.interrupted.Load()
}
