/*
Package runner walks a dichotomous key interactively.

The runner asks each question of the key on an output stream, reads answers
from an input stream and stops at a leaf, at an unresolved group or at an empty
branch. Answers may be typed as the trait's labels or as yes/no.

# Usage

	r := runner.New(
		runner.WithIO(os.Stdin, os.Stdout),
		runner.WithPromptStyle(func(s string) string { return tui.Prompt(os.Stdout, s) }),
	)

	id, err := r.Run(ctx, key)
*/
package runner
