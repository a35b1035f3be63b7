package runner

import (
	"io"
	"log/slog"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithIO sets where answers are read from and questions written to.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *Runner) {
		if in != nil {
			r.Input = in
		}
		if out != nil {
			r.Output = out
		}
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.Logger = logger
		}
	}
}

// WithRenderer configures the renderer used for item descriptions.
func WithRenderer(renderer ContentRenderer) Option {
	return func(r *Runner) {
		r.Renderer = renderer
	}
}

// WithPromptStyle configures how questions are styled.
func WithPromptStyle(style func(string) string) Option {
	return func(r *Runner) {
		r.PromptStyle = style
	}
}
