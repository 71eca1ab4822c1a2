package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"periph.io/x/extra/devices/screen"

	"github.com/coreman2200/funtimes-ledmatrix/board"
	"github.com/coreman2200/funtimes-ledmatrix/bus"
	"github.com/coreman2200/funtimes-ledmatrix/internal/loop"
	"github.com/coreman2200/funtimes-ledmatrix/internal/pattern"
	"github.com/coreman2200/funtimes-ledmatrix/internal/scroll"
	"github.com/coreman2200/funtimes-ledmatrix/internal/server"
	"github.com/coreman2200/funtimes-ledmatrix/is31fl3731"
)

var errUsage = errors.New("bad arguments, see -h")

func run(ctx context.Context, e *env, cmd string, args []string) error {
	dev := e.disp.Device()
	switch cmd {
	case "setup":
		return dev.Setup(ctx, is31fl3731.Sleep)
	case "reset":
		return dev.Reset(ctx, is31fl3731.Sleep)
	case "fill":
		if len(args) < 1 || len(args) > 2 {
			return errUsage
		}
		v, err := parseByte(args[0])
		if err != nil {
			return err
		}
		blink := is31fl3731.BlinkUnchanged
		if len(args) == 2 {
			if blink, err = is31fl3731.ParseBlink(args[1]); err != nil {
				return err
			}
		}
		return dev.Fill(ctx, v, blink, dev.Frame())
	case "pixel":
		n, err := argBytes(args, 3)
		if err != nil {
			return err
		}
		return e.disp.SetPixel(ctx, n[0], n[1], n[2])
	case "rgb":
		n, err := argBytes(args, 5)
		if err != nil {
			return err
		}
		return e.disp.SetPixelRGB(ctx, n[0], n[1], n[2], n[3], n[4])
	case "frame":
		n, err := argBytes(args, 1)
		if err != nil {
			return err
		}
		return dev.SetFrame(ctx, n[0])
	case "sleep":
		if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
			return errUsage
		}
		return dev.SetSleep(ctx, args[0] == "on")
	case "mode":
		if len(args) != 1 {
			return errUsage
		}
		m, err := is31fl3731.ParseMode(args[0])
		if err != nil {
			return err
		}
		return dev.SetMode(ctx, m)
	case "autoplay":
		n, err := argBytes(args, 3)
		if err != nil {
			return err
		}
		return dev.SetAutoplay(ctx, is31fl3731.Autoplay{Start: n[0], Loops: n[1], Delay: n[2]})
	case "breath":
		if len(args) == 1 && args[0] == "off" {
			return dev.SetBreath(ctx, is31fl3731.Breath{})
		}
		n, err := argBytes(args, 3)
		if err != nil {
			return err
		}
		return dev.SetBreath(ctx, is31fl3731.Breath{Enabled: true, FadeIn: n[0], FadeOut: n[1], Extinguish: n[2]})
	case "blink":
		if len(args) == 1 && args[0] == "off" {
			return dev.SetBlinkPeriod(ctx, false, 0)
		}
		n, err := argBytes(args, 1)
		if err != nil {
			return err
		}
		return dev.SetBlinkPeriod(ctx, true, n[0])
	case "gain":
		if len(args) < 1 || len(args) > 2 {
			return errUsage
		}
		g, err := parseByte(args[0])
		if err != nil {
			return err
		}
		return dev.SetAudioGain(ctx, len(args) == 2 && args[1] == "agc", g)
	case "test":
		if len(args) != 1 {
			return errUsage
		}
		return runPattern(ctx, e, args[0])
	case "scroll":
		if len(args) == 0 {
			return errUsage
		}
		return runScroll(ctx, e, strings.Join(args, " "))
	case "serve":
		return serve(ctx, e)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func runPattern(ctx context.Context, e *env, name string) error {
	k, err := pattern.Parse(name)
	if err != nil {
		return err
	}
	const level = 255
	kind := e.disp.Kind()
	r := pattern.NewRunner(k, kind, level)
	var buf [is31fl3731.NumLEDs]byte
	l := loop.New(e.cfg.FPS, func(ctx context.Context, _ time.Duration) (bool, error) {
		if !r.Step(&buf) {
			if !e.loop {
				return false, nil
			}
			r = pattern.NewRunner(k, kind, level)
			r.Step(&buf)
		}
		if err := e.disp.Device().SetAllPixels(ctx, &buf); err != nil {
			return false, err
		}
		e.show()
		return true, nil
	}, log.Logger)
	log.Info().Str("pattern", name).Str("board", kind.String()).Msg("running test pattern")
	return l.Run(ctx)
}

func runScroll(ctx context.Context, e *env, text string) error {
	d := board.NewDrawer(e.disp, e.cfg.Gamma)
	s := scroll.New(text, d.Bounds())
	s.Loop = e.loop
	l := loop.New(e.cfg.FPS, func(context.Context, time.Duration) (bool, error) {
		more, err := s.Step(d)
		if err == nil {
			e.show()
		}
		return more, err
	}, log.Logger)
	log.Info().Str("text", text).Int("steps", s.Steps()).Msg("scrolling")
	return l.Run(ctx)
}

func serve(ctx context.Context, e *env) error {
	// A request abandoned by its client never cuts a bus transaction short.
	q := bus.NewQueue(e.t)
	defer q.Close()
	disp := board.New(is31fl3731.New(q, e.disp.Device().Address()), e.disp.Kind())
	if f := e.disp.Device().Frame(); f != 0 {
		if err := disp.Device().SetFrame(ctx, f); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:         e.cfg.Listen,
		Handler:      server.New(disp, e.cfg.Driver, log.Logger).Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", e.cfg.Listen).Str("driver", e.cfg.Driver).Msg("HTTP server starting")
		errc <- srv.ListenAndServe()
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(ch)
	select {
	case s := <-ch:
		log.Info().Str("signal", s.String()).Msg("shutting down")
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}
	return srv.Close()
}

// show prints the visible image of the simulated chip when previewing.
func (e *env) show() {
	if !e.preview {
		return
	}
	regs := e.sim.Visible()
	img := e.disp.Kind().Image(&regs)
	b := img.Bounds()
	row := screen.New(b.Dx())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		if err := row.Draw(row.Bounds(), img, image.Pt(b.Min.X, y)); err != nil {
			log.Warn().Err(err).Msg("preview")
			return
		}
		fmt.Printf("\n")
	}
	fmt.Printf("\n")
}

// argBytes parses exactly want arguments as uint8s.
func argBytes(args []string, want int) ([]uint8, error) {
	if len(args) != want {
		return nil, errUsage
	}
	out := make([]uint8, 0, want)
	for _, a := range args {
		v, err := parseByte(a)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseByte(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, err)
	}
	return uint8(v), nil
}
