package util

import (
	"os"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Progress counts finished jobs and how many of them failed. When
// FlagProgress is set, a progress bar is drawn on stderr.
type Progress struct {
	errs chan error
	done chan struct{}
}

func NewProgress(total int, what string) Progress {
	p := Progress{make(chan error), make(chan struct{})}

	var pbs *mpb.Progress
	var bar *mpb.Bar
	if FlagProgress {
		pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
		bar = pbs.AddBar(int64(total),
			mpb.PrependDecorators(
				decor.Name(what+": ", decor.WC{W: len(what) + 2, C: decor.DindentRight}),
				decor.Name("", decor.WCSyncSpaceR),
				decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
				decor.EwmaETA(decor.ET_STYLE_GO, 10),
				decor.OnComplete(decor.Name(""), ". done"),
			),
		)
	}
	go func() {
		completed := 0
		errorCount := 0
		last := time.Now()
		for err := range p.errs {
			if err == nil {
				completed += 1
			} else {
				errorCount += 1
				Verbosef("%s", err)
			}
			if bar != nil {
				bar.EwmaIncrement(time.Since(last))
				last = time.Now()
			}
			Verbosef("%d of %d %s complete (%d errors)",
				completed+errorCount, total, what, errorCount)
		}
		if pbs != nil {
			if bar != nil && !bar.Completed() {
				bar.Abort(false)
			}
			pbs.Wait()
		}
		p.done <- struct{}{}
	}()
	return p
}

func (p Progress) JobDone(err error) {
	p.errs <- err
}

func (p Progress) Close() {
	close(p.errs)
	<-p.done
}
