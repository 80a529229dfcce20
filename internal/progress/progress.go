// Package progress renders terminal progress for long-running analysis.
package progress

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Tracker drives an indeterminate spinner on stderr. Analysis walks an
// unknown number of files, so there is no total to bind a bar to; each
// processed file ticks the spinner instead.
type Tracker struct {
	bar   *progressbar.ProgressBar
	label string
}

// NewSpinner creates a spinner labeled with the current phase. It clears
// itself once finished so output stays clean when redirected.
func NewSpinner(label string) *Tracker {
	return &Tracker{
		label: label,
		bar: progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetWidth(20),
			progressbar.OptionSetDescription(label),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionClearOnFinish(),
		),
	}
}

// Tick advances the spinner by one processed file.
func (t *Tracker) Tick() {
	_ = t.bar.Add(1)
}

// FinishSuccess stops and clears the spinner.
func (t *Tracker) FinishSuccess() {
	_ = t.bar.Finish()
	_ = t.bar.Clear()
}

// FinishError stops the spinner and reports the failure on stderr.
func (t *Tracker) FinishError(err error) {
	_ = t.bar.Finish()
	_ = t.bar.Clear()
	fmt.Fprintf(os.Stderr, "%s failed: %v\n", t.label, err)
}
