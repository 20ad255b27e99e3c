package cli

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// spin starts a progress spinner for a long-running call when color
// output is enabled and stderr is a terminal. The returned stop function
// is safe to call unconditionally.
func spin(enabled bool, suffix string) func() {
	if !enabled || !isTerminal(os.Stderr) {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + suffix
	s.Start()
	return s.Stop
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
