package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
	"golang.org/x/term"
)

// progressLine redraws a single status line on stderr while an analysis runs.
type progressLine struct {
	w       io.Writer
	enabled bool
	drawn   bool
}

// newProgressLine only draws when asked to and when stderr is a terminal.
func newProgressLine(want bool) *progressLine {
	return &progressLine{
		w:       os.Stderr,
		enabled: want && term.IsTerminal(int(os.Stderr.Fd())),
	}
}

// Update is a schema.ProgressFunc.
func (p *progressLine) Update(status schema.AnalysisStatus) {
	if !p.enabled {
		return
	}
	message := status.Message
	if strings.HasPrefix(message, "Skipped ") {
		message = contract.YellowColor.Sprint(message)
	}
	fmt.Fprintf(p.w, "\r\033[K⏳ [%3d%%] %s", status.Progress, message)
	p.drawn = true
}

// Write clears the drawn line before passing log output through, so log
// records start on their own row. The next Update redraws the line.
func (p *progressLine) Write(b []byte) (int, error) {
	if p.drawn {
		fmt.Fprint(p.w, "\r\033[K")
		p.drawn = false
	}
	return p.w.Write(b)
}

// captureLogs routes contract.Logger through the line while it is enabled.
// The returned func restores the previous output.
func (p *progressLine) captureLogs() func() {
	if !p.enabled {
		return func() {}
	}
	previous := contract.Logger.Out
	contract.Logger.SetOutput(p)
	return func() { contract.Logger.SetOutput(previous) }
}

// Done erases the line so results start on a clean row.
func (p *progressLine) Done() {
	if p.drawn {
		fmt.Fprint(p.w, "\r\033[K")
		p.drawn = false
	}
}
