package feed

import (
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
)

// Reporter receives progress while a build renders gists. Update runs
// before each gist, with a 1-indexed position and a display message of
// the form "Loading gist i of N…".
type Reporter interface {
	Start(total int)
	Update(current int, message string)
	Finish()
}

// NopReporter drops all progress.
type NopReporter struct{}

func (NopReporter) Start(int)          {}
func (NopReporter) Update(int, string) {}
func (NopReporter) Finish()            {}

// LogReporter writes progress to the log, for the serve path where no
// terminal is attached.
type LogReporter struct{}

func (LogReporter) Start(total int) {
	log.Info().Int("total", total).Msg("Rendering gists")
}

func (LogReporter) Update(current int, message string) {
	log.Debug().Msg(message)
}

func (LogReporter) Finish() {}

// BarReporter draws a terminal progress bar, for the build command.
type BarReporter struct {
	bar *progressbar.ProgressBar
}

func (r *BarReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription("rendering gists"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *BarReporter) Update(current int, message string) {
	if r.bar == nil {
		return
	}
	r.bar.Describe(message)
	_ = r.bar.Set(current - 1)
}

func (r *BarReporter) Finish() {
	if r.bar == nil {
		return
	}
	_ = r.bar.Finish()
}
