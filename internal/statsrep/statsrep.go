/*
file: rudis/internal/statsrep/statsrep.go
*/

// Package statsrep runs a background ticker that periodically samples this
// process's resident memory via gopsutil and logs it, stopped cleanly when
// its context is cancelled.
package statsrep

import (
	"context"
	"os"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/akashmaji946/rudis/internal/rlog"
)

// DefaultInterval is how often Run samples memory when the caller doesn't
// need a different cadence.
const DefaultInterval = 30 * time.Second

// Run samples this process's resident set size every interval and logs it
// at INFO level, until ctx is cancelled. It is meant to be launched in its
// own goroutine by the process entrypoint.
func Run(ctx context.Context, log *rlog.Logger, interval time.Duration) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Warn("statsrep: could not attach to own process: %v", err)
		return
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			mi, err := proc.MemoryInfoWithContext(ctx)
			if err != nil {
				log.Warn("statsrep: reading memory info: %v", err)
				continue
			}
			log.Info("rss=%d bytes vms=%d bytes", mi.RSS, mi.VMS)
		}
	}
}
