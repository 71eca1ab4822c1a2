// Package loop drives a frame callback at a fixed rate until it finishes, the
// context ends or the process is interrupted.
package loop

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

const DefaultFPS = 30

// Frame renders one frame. elapsed is the time since Run started. Returning
// false ends the loop.
type Frame func(ctx context.Context, elapsed time.Duration) (bool, error)

type Looper struct {
	period time.Duration
	frame  Frame
	log    zerolog.Logger
}

// New returns a Looper calling f fps times per second. fps <= 0 selects
// DefaultFPS.
func New(fps int, f Frame, log zerolog.Logger) *Looper {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Looper{period: time.Second / time.Duration(fps), frame: f, log: log}
}

func (l *Looper) Period() time.Duration { return l.period }

// Run blocks until the frame callback finishes or fails, ctx is done, or
// SIGINT/SIGTERM arrives. Cancellation and signals are not errors.
func (l *Looper) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(c)

	ticker := time.NewTicker(l.period)
	defer ticker.Stop()

	start := time.Now()
	var frames, overruns uint64
	for {
		select {
		case <-ticker.C:
			t := time.Now()
			more, err := l.frame(ctx, t.Sub(start))
			frames++
			if err != nil {
				return err
			}
			if !more {
				l.log.Debug().Uint64("frames", frames).Dur("elapsed", time.Since(start)).Msg("loop done")
				return nil
			}
			if d := time.Since(t); d > l.period {
				overruns++
				l.log.Debug().Dur("took", d).Uint64("overruns", overruns).Msg("frame overran period")
			}

		case sig := <-c:
			l.log.Info().Str("signal", sig.String()).Msg("aborting")
			return nil

		case <-ctx.Done():
			return nil
		}
	}
}
