// Package progress draws scan progress on stderr.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Tracker wraps a progress bar counting analyzed files. A nil *Tracker is
// valid and draws nothing, so callers can skip the bar for piped output.
type Tracker struct {
	bar   *progressbar.ProgressBar
	label string
	out   io.Writer
}

// Option configures a Tracker.
type Option func(*options)

type options struct {
	out io.Writer
}

// WithWriter draws the bar on w instead of stderr.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

func resolve(opts []Option) options {
	o := options{out: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewSpinner creates a spinner for work with an unknown total, such as
// walking the tree for candidates.
func NewSpinner(label string, opts ...Option) *Tracker {
	o := resolve(opts)
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(o.out),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	return &Tracker{bar: bar, label: label, out: o.out}
}

// NewTracker creates a bar for total files.
func NewTracker(label string, total int, opts ...Option) *Tracker {
	o := resolve(opts)
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(o.out),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Tracker{bar: bar, label: label, out: o.out}
}

// Tick advances the bar by one file. Safe for concurrent use.
func (t *Tracker) Tick() {
	if t == nil {
		return
	}
	_ = t.bar.Add(1)
}

// Func returns Tick as a callback, or nil for a nil Tracker.
func (t *Tracker) Func() func() {
	if t == nil {
		return nil
	}
	return t.Tick
}

// FinishSuccess clears the bar without further output.
func (t *Tracker) FinishSuccess() {
	if t == nil {
		return
	}
	_ = t.bar.Finish()
	_ = t.bar.Clear()
}

// FinishTimedOut clears the bar and reports how many files completed.
func (t *Tracker) FinishTimedOut(done, total int) {
	if t == nil {
		return
	}
	_ = t.bar.Clear()
	fmt.Fprintf(t.out, "  %s stopped waiting after %d of %d files\n", t.label, done, total)
}

// FinishError clears the bar and prints err.
func (t *Tracker) FinishError(err error) {
	if t == nil {
		return
	}
	_ = t.bar.Finish()
	_ = t.bar.Clear()
	fmt.Fprintf(t.out, "  %s error: %v\n", t.label, err)
}
