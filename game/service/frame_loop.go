package service

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/logjam/game/view"
)

// FrameSink receives frames of sessions whose animations advanced
type FrameSink interface {
	BroadcastFrame(sessionID string, frame *view.Frame)
}

// RunFrameLoop ticks every session once per interval and hands the frames of
// sessions that were animating to sink. dt is the wall-clock time since the
// previous tick. It returns when ctx is cancelled.
func RunFrameLoop(ctx context.Context, svc GameService, interval time.Duration, sink FrameSink) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.WithField("interval", interval).Debug("frame loop started")
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			log.Debug("frame loop stopped")
			return
		case now := <-ticker.C:
			dt := float64(now.Sub(last)) / float64(time.Millisecond)
			last = now

			for _, id := range svc.Advance(ctx, dt) {
				frame, err := svc.GetFrame(ctx, id)
				if err != nil {
					// deleted between Advance and GetFrame
					continue
				}
				if sink != nil {
					sink.BroadcastFrame(id, frame)
				}
			}
		}
	}
}

// FrameInterval converts a frames-per-second rate into a ticker interval
func FrameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}
