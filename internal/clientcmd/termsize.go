package clientcmd

import (
	"os"

	"golang.org/x/term"
)

// termSize reports the current stdout terminal size as (cols, rows).
func termSize() (cols, rows int, err error) {
	return term.GetSize(int(os.Stdout.Fd()))
}
