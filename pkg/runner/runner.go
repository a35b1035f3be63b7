package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/keysort/pkg/domain"
)

// ContentRenderer transforms markdown before output (e.g. glamour in a terminal).
type ContentRenderer func(string) (string, error)

// Runner asks a key's questions and collects answers.
type Runner struct {
	Input       io.Reader
	Output      io.Writer
	Logger      *slog.Logger
	Renderer    ContentRenderer
	PromptStyle func(string) string
}

// New creates a Runner on Stdin/Stdout.
func New(opts ...Option) *Runner {
	r := &Runner{
		Input:  os.Stdin,
		Output: os.Stdout,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run walks key from the root until it reaches a leaf, an unresolved group
// or an empty branch, then prints the outcome.
//
// Unrecognized answers are reported and the question is asked again. The
// partial identification is returned with any error, including io.EOF when
// input ends before the walk does.
//
// Input is read one line per question; lines after the last answer are left
// unread, so Input may be reused once Run returns.
func (r *Runner) Run(ctx context.Context, key *domain.Key) (*domain.Identification, error) {
	lines := newLineReader(r.Input)
	defer lines.Close()

	answer := func(t domain.Trait) (bool, error) {
		for {
			if err := ctx.Err(); err != nil {
				return false, err
			}
			fmt.Fprintf(r.Output, "%s [%s/%s] ", r.style(t.Name+"?"), t.TrueLabel, t.FalseLabel)

			line, err := lines.ReadLine(ctx)
			if err != nil {
				fmt.Fprintln(r.Output)
				return false, err
			}

			outcome, err := ParseAnswer(t, line)
			if err == nil {
				r.Logger.Debug("answer accepted", "trait", t.Name, "label", t.Label(outcome))
				return outcome, nil
			}
			fmt.Fprintf(r.Output, "Error: %v. Please try again.\n", err)
		}
	}

	id, err := key.Identify(answer)
	switch {
	case errors.Is(err, domain.ErrNoMatch):
		fmt.Fprintf(r.Output, "No item matches these answers.\n")
		return id, err
	case err != nil:
		return id, err
	}
	r.report(id)
	return id, nil
}

func (r *Runner) style(s string) string {
	if r.PromptStyle == nil {
		return s
	}
	return r.PromptStyle(s)
}

func (r *Runner) report(id *domain.Identification) {
	if id.Resolved() {
		fmt.Fprintf(r.Output, "Identified: %s\n", id.Item.Name())
		if id.Item.Description != "" {
			fmt.Fprintln(r.Output, strings.TrimSpace(r.render(id.Item.Description)))
		}
		return
	}
	fmt.Fprintf(r.Output, "Could not separate: %s\n", strings.Join(domain.ItemNames(id.Candidates), ", "))
}

func (r *Runner) render(markdown string) string {
	if r.Renderer == nil {
		return markdown
	}
	out, err := r.Renderer(markdown)
	if err != nil {
		r.Logger.Warn("render failed", "err", err)
		return markdown
	}
	return out
}
