package execution

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gosuri/uilive"
)

// progressReporter live-updates a row counter on the terminal. Table
// functions with unknown cardinality disable it at bind time through the
// query config, in which case Start logs the reason once and the reporter
// stays inert.
type progressReporter struct {
	qctx *QueryContext

	rows    int64
	writer  *uilive.Writer
	done    chan struct{}
	running bool
}

func newProgressReporter(qctx *QueryContext) *progressReporter {
	return &progressReporter{
		qctx: qctx,
		done: make(chan struct{}),
	}
}

func (r *progressReporter) Start() {
	if !r.qctx.Config.EnableProgressBar {
		if reason := r.qctx.Config.ProgressBarDisableReason; reason != "" {
			r.qctx.Log.Logf("DEBUG progress reporting disabled for %s: %s", r.qctx.InvocationID, reason)
		}
		return
	}
	r.writer = uilive.New()
	r.writer.Start()
	r.running = true

	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fmt.Fprintf(r.writer, "%d rows\n", atomic.LoadInt64(&r.rows))
			case <-r.done:
				return
			}
		}
	}()
}

func (r *progressReporter) Add(rows int) {
	atomic.AddInt64(&r.rows, int64(rows))
}

func (r *progressReporter) Stop() {
	if !r.running {
		return
	}
	close(r.done)
	fmt.Fprintf(r.writer, "%d rows\n", atomic.LoadInt64(&r.rows))
	r.writer.Stop()
	r.running = false
}
