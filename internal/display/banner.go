package display

import (
	"fmt"
	"io"

	"github.com/backmassage/latexdef/internal/term"
)

// Banner returns the one-line program header.
func Banner(version string) string {
	return term.Stdout.Magenta.Render("latexdef") + " " + term.Stdout.Faint.Render(version)
}

// PrintBanner writes the header followed by a newline.
func PrintBanner(w io.Writer, version string) {
	fmt.Fprintln(w, Banner(version))
}
