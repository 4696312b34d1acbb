package main

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/xhad/websum/internal/types"
)

func getSpinner(w io.Writer, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// spinner animates a progressbar until stopped.
type spinner struct {
	bar  *progressbar.ProgressBar
	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func startSpinner(w io.Writer, description string) *spinner {
	s := &spinner{
		bar:  getSpinner(w, description),
		done: make(chan struct{}),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				s.bar.Add(1)
			}
		}
	}()
	return s
}

func (s *spinner) stop() {
	s.once.Do(func() {
		close(s.done)
		s.wg.Wait()
		s.bar.Finish()
	})
}

// spinnerSink clears the spinner before the wrapped sink writes, so the
// summary never interleaves with the animation.
type spinnerSink struct {
	spinner *spinner
	next    types.Sink
}

func (s *spinnerSink) Deliver(ctx context.Context, summary string) error {
	s.spinner.stop()
	return s.next.Deliver(ctx, summary)
}
