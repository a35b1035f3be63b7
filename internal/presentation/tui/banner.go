package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the keysort banner and version to w.
// Colors degrade to plain text when w is not a terminal.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{" _                            _", "#4ade80"},
		{"| | _____ _   _ ___  ___  _ __| |_", "#22c55e"},
		{"| |/ / _ \\ | | / __|/ _ \\| '__| __|", "#16a34a"},
		{"|   <  __/ |_| \\__ \\ (_) | |  | |_", "#15803d"},
		{"|_|\\_\\___|\\__, |___/\\___/|_|   \\__|", "#166534"},
		{"          |___/", "#14532d"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  dichotomous key "+version).Faint())
	fmt.Fprintln(w)
}

// Prompt styles a question for interactive identification.
func Prompt(w io.Writer, question string) string {
	out := termenv.NewOutput(w)
	return out.String(question).Bold().String()
}
