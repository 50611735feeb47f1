package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// batchProgress animates "converted n/total" on one terminal line while
// a batch of conversions runs. Jobs report through finish from any
// goroutine.
type batchProgress struct {
	w      io.Writer
	total  int
	done   atomic.Int32
	failed atomic.Int32

	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
	width   int // widest line drawn, owned by the draw loop
}

// startBatchProgress draws until Stop is called or ctx ends.
func startBatchProgress(ctx context.Context, w io.Writer, total int) *batchProgress {
	b := &batchProgress{
		w:       w,
		total:   total,
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go b.loop(ctx)
	return b
}

// finish counts one finished job.
func (b *batchProgress) finish(err error) {
	if err != nil {
		b.failed.Add(1)
	}
	b.done.Add(1)
}

func (b *batchProgress) status() string {
	s := fmt.Sprintf("converted %d/%d", b.done.Load(), b.total)
	if n := b.failed.Load(); n > 0 {
		s += fmt.Sprintf(" (%d failed)", n)
	}
	return s
}

func (b *batchProgress) loop(ctx context.Context) {
	defer close(b.stopped)
	tick := time.NewTicker(80 * time.Millisecond)
	defer tick.Stop()
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			b.clear()
			return
		case <-b.stop:
			b.clear()
			return
		case <-tick.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			msg := b.status()
			n := len(frame) + 1 + len(msg)
			pad := ""
			if n < b.width {
				pad = strings.Repeat(" ", b.width-n)
			}
			b.width = max(b.width, n)
			fmt.Fprintf(b.w, "\r%s %s%s", styleIconSpinner.Render(frame), StyleDim.Render(msg), pad)
		}
	}
}

func (b *batchProgress) clear() {
	if b.width > 0 {
		fmt.Fprintf(b.w, "\r%s\r", strings.Repeat(" ", b.width))
	}
}

// Stop clears the line. It may be called more than once.
func (b *batchProgress) Stop() {
	b.once.Do(func() { close(b.stop) })
	<-b.stopped
}
