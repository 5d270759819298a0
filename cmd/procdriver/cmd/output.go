package cmd

import (
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/mensylisir/procdriver/pkg/driver"
)

const maxSpinnerLine = 60

// newSpinner returns a stderr spinner and a line callback that shows the
// latest output line as its description.
func newSpinner(desc string) (*progressbar.ProgressBar, func(string)) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	return bar, func(line string) {
		line = truncateRunes(strings.TrimSpace(line), maxSpinnerLine)
		if line == "" {
			return
		}
		bar.Describe(desc + ": " + line)
		_ = bar.Add(1)
	}
}

func colorState(s driver.ContainerState) string {
	switch s {
	case driver.Running:
		return color.GreenString(s.String())
	case driver.Stopped:
		return color.YellowString(s.String())
	default:
		return color.RedString(s.String())
	}
}

// truncateRunes shortens s to at most n runes, marking the cut with "...".
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
