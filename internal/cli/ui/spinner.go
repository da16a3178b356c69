package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// StepSpinner shows progress for one blocking step at a time: a braille
// spinner on a terminal, plain text otherwise.
type StepSpinner struct {
	w      io.Writer
	s      *spinner.Spinner
	msg    string
	active bool
	static bool
}

// NewStepSpinner creates a spinner that writes to w. static disables the
// animation for pipes and CI logs.
func NewStepSpinner(w io.Writer, static bool) *StepSpinner {
	return &StepSpinner{w: w, static: static}
}

// Start begins a step.
func (ss *StepSpinner) Start(msg string) {
	ss.msg = msg
	if ss.static {
		fmt.Fprintf(ss.w, "  %s", msg)
		return
	}
	ss.s = spinner.New(spinner.CharSets[14], 80*time.Millisecond, spinner.WithWriter(ss.w))
	ss.s.Prefix = "  "
	ss.s.Suffix = " " + msg
	ss.s.Start()
	ss.active = true
}

// Done ends the step with a check mark.
func (ss *StepSpinner) Done() { ss.finish(StyleSuccess.Render(SymbolCheck)) }

// Fail ends the step with a cross.
func (ss *StepSpinner) Fail() { ss.finish(StyleError.Render(SymbolCross)) }

func (ss *StepSpinner) finish(mark string) {
	if ss.static {
		fmt.Fprintf(ss.w, " %s\n", mark)
		return
	}
	ss.Stop()
	fmt.Fprintf(ss.w, "\r  %s %s\n", ss.msg, mark)
}

// Stop halts the animation without printing a status.
func (ss *StepSpinner) Stop() {
	if ss.s != nil && ss.active {
		ss.s.Stop()
		ss.active = false
	}
}
