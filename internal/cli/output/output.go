// Package output provides styled terminal output for the supawatch CLI.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
)

// Renderer writes status lines with adaptive color. Color degrades to
// plain text when the destination is not a terminal.
type Renderer struct {
	out     io.Writer
	errOut  io.Writer
	profile termenv.Profile
}

// NewRenderer creates a Renderer for the given streams.
func NewRenderer(out, errOut io.Writer) *Renderer {
	profile := termenv.Ascii
	if f, ok := out.(*os.File); ok && isTerminal(f) {
		profile = termenv.ColorProfile()
	}
	return &Renderer{out: out, errOut: errOut, profile: profile}
}

// Successf prints a green status line.
func (r *Renderer) Successf(format string, args ...any) {
	r.styled(r.out, "2", format, args...)
}

// Errorf prints a red status line to the error stream.
func (r *Renderer) Errorf(format string, args ...any) {
	r.styled(r.errOut, "1", format, args...)
}

// Warnf prints a yellow status line to the error stream.
func (r *Renderer) Warnf(format string, args ...any) {
	r.styled(r.errOut, "3", format, args...)
}

// Infof prints an unstyled line.
func (r *Renderer) Infof(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format+"\n", args...)
}

// Dimf prints a faint line for secondary content.
func (r *Renderer) Dimf(format string, args ...any) {
	s := termenv.String(fmt.Sprintf(format, args...)).Faint()
	_, _ = fmt.Fprintln(r.out, s.String())
}

func (r *Renderer) styled(w io.Writer, color, format string, args ...any) {
	s := termenv.String(fmt.Sprintf(format, args...)).Foreground(r.profile.Color(color))
	_, _ = fmt.Fprintln(w, s.String())
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
