// Package ui provides the scoped long-running operation runner and the
// terminal progress surfaces built on top of it.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"golang.org/x/term"
)

// Outcome reports how a scoped operation ended.
type Outcome uint8

const (
	// OutcomeCompleted means the operation ran to the end.
	OutcomeCompleted Outcome = iota
	// OutcomeCanceled means the operation observed cancellation and
	// stopped early. Cancellation is not an error.
	OutcomeCanceled
)

// Runner executes one user-visible long-running operation. The function
// receives a context whose cancellation is the single cooperative stop
// signal for every suspension point inside the operation.
type Runner interface {
	Run(title, message string, cancellable bool, fn func(ctx context.Context) error) (Outcome, error)
}

// PlainRunner runs the operation without interactive chrome: one line of
// status, Ctrl-C for cancellation. Used on non-TTY outputs and for
// operations that need to prompt on stdin mid-flight.
type PlainRunner struct {
	Out   io.Writer
	Quiet bool
}

func (r *PlainRunner) Run(title, message string, cancellable bool, fn func(ctx context.Context) error) (Outcome, error) {
	ctx := context.Background()
	if cancellable {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
	}

	if !r.Quiet && r.Out != nil {
		fmt.Fprintf(r.Out, "%s: %s\n", title, message)
	}

	err := fn(ctx)
	if canceled(ctx, err) {
		if !r.Quiet && r.Out != nil {
			fmt.Fprintf(r.Out, "%s: canceled\n", title)
		}
		return OutcomeCanceled, nil
	}
	if err != nil {
		return OutcomeCompleted, err
	}
	return OutcomeCompleted, nil
}

// NewRunner picks the runner appropriate for the output: spinner UI on a
// terminal, plain lines otherwise.
func NewRunner(out *os.File, quiet bool) Runner {
	if !quiet && isTerminal(out) {
		return &SpinnerRunner{Out: out}
	}
	return &PlainRunner{Out: out, Quiet: quiet}
}

func canceled(ctx context.Context, err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	return err == nil && ctx.Err() != nil
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
