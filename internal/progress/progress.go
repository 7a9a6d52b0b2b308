// Package progress decorates point sequences with progress reporting.
package progress

import (
	"iter"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/cheggaaa/pb/v3/termutil"
	"github.com/paulmach/orb"
)

// Tracker wraps a point sequence with progress reporting. The wrapped
// sequence advances once per candidate examined, regardless of how many
// points survive downstream filtering, so it must be applied before any
// containment filter.
type Tracker interface {
	Track(name string, total int64, points iter.Seq[orb.Point]) iter.Seq[orb.Point]
}

// Nop discards all progress.
type Nop struct{}

func (Nop) Track(name string, total int64, points iter.Seq[orb.Point]) iter.Seq[orb.Point] {
	return points
}

// Bar renders a terminal progress bar around the sequence.
type Bar struct {
	RefreshRate time.Duration
}

func (b Bar) Track(name string, total int64, points iter.Seq[orb.Point]) iter.Seq[orb.Point] {
	return func(yield func(orb.Point) bool) {
		bar := pb.Start64(total)
		bar.Set("prefix", name)
		refresh := b.RefreshRate
		if refresh == 0 {
			refresh = time.Second
		}
		bar.SetRefreshRate(refresh)
		if w, err := termutil.TerminalWidth(); w == 0 || err != nil {
			bar.SetTemplateString(`{{with string . "prefix"}}{{.}} {{end}}{{counters . }} {{bar . }} {{percent . }} {{rtime . "ETA %s"}}{{with string . "suffix"}} {{.}}{{end}}` + "\n")
		}
		defer bar.Finish()

		for p := range points {
			bar.Increment()
			if !yield(p) {
				return
			}
		}
	}
}
