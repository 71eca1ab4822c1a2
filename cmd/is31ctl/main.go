// Command is31ctl drives an IS31FL3731 board from the command line, either over
// a Linux I2C bus or against a simulated chip.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/funtimes-ledmatrix/board"
	"github.com/coreman2200/funtimes-ledmatrix/bus"
	"github.com/coreman2200/funtimes-ledmatrix/internal/config"
	"github.com/coreman2200/funtimes-ledmatrix/is31fl3731"
)

const usage = `usage: is31ctl [flags] <command> [args]

commands:
  setup                         initialise the chip
  reset                         pulse software shutdown
  fill <brightness> [on|off]    fill the current frame
  pixel <x> <y> <brightness>    set one monochrome pixel
  rgb <x> <y> <r> <g> <b>       set one RGB pixel
  frame <n>                     select the displayed frame (0-8)
  sleep on|off                  enter or leave software shutdown
  mode picture|autoplay|audioplay
  autoplay <start> <loops> <delay>
  breath <fade-in> <fade-out> <extinguish> | breath off
  blink <period> | blink off
  gain <0-7> [agc]
  test index_sweep|rgb_channels|row_sweep|rainbow
  scroll <text>
  serve                         HTTP/websocket control on -listen
  boards                        list supported boards

flags:
`

// env carries what every command needs.
type env struct {
	cfg     *config.Config
	disp    *board.Display
	t       is31fl3731.Transport
	sim     *bus.Sim
	preview bool
	loop    bool
}

func main() {
	var (
		configPath = flag.String("config", "is31ctl.yaml", "path to config file")
		driver     = flag.String("driver", "", "driver: i2c | sim")
		busName    = flag.String("bus", "", "I2C bus name, empty for the first bus")
		speed      = flag.Int("speed-khz", 0, "I2C clock in kHz")
		boardName  = flag.String("board", "", "board layout, see `is31ctl boards`")
		addr       = flag.Uint("addr", 0, "7-bit chip address, 0 for the board default")
		frame      = flag.Uint("frame", 0, "frame selected before drawing")
		gamma      = flag.Bool("gamma", true, "gamma correct drawn images")
		fps        = flag.Int("fps", 0, "frame rate of test and scroll")
		listen     = flag.String("listen", "", "HTTP listen address for serve")
		level      = flag.String("log-level", "", "trace | debug | info | warn | error")
		verbose    = flag.Bool("v", false, "log every bus write")
		preview    = flag.Bool("preview", false, "print the simulated chip after each change (sim only)")
		loop       = flag.Bool("loop", false, "repeat scroll and test until interrupted")
		save       = flag.Bool("save", false, "write the effective config back to -config")
	)
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    !term.IsTerminal(int(os.Stderr.Fd())),
	})

	// ---- Config, then flags that were actually set ----
	cfg, err := config.Load(*configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = config.Default()
	case err != nil:
		log.Fatal().Err(err).Msg("config")
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "driver":
			cfg.Driver = *driver
		case "bus":
			cfg.Bus = *busName
		case "speed-khz":
			cfg.SpeedKHz = *speed
		case "board":
			cfg.Board = *boardName
		case "addr":
			cfg.Address = uint8(*addr)
		case "frame":
			cfg.Frame = uint8(*frame)
		case "gamma":
			cfg.Gamma = *gamma
		case "fps":
			cfg.FPS = *fps
		case "listen":
			cfg.Listen = *listen
		case "log-level":
			cfg.LogLevel = *level
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level; using info")
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if *verbose && zerolog.GlobalLevel() > zerolog.DebugLevel {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if *save {
		if err := config.Save(*configPath, cfg); err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("save config")
		}
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if args[0] == "boards" {
		for _, k := range board.Kinds() {
			w, h := k.Grid()
			fmt.Printf("%-16s %2dx%-2d rgb=%-5t addr=0x%02x\n", k, w, h, k.RGB(), k.DefaultAddress())
		}
		return
	}

	e, closer, err := open(cfg, *verbose)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Driver).Msg("open")
	}
	defer closer()
	e.preview = *preview && e.sim != nil
	e.loop = *loop

	ctx := context.Background()
	if cfg.Frame != 0 {
		if err := e.disp.Device().SetFrame(ctx, cfg.Frame); err != nil {
			log.Fatal().Err(err).Msg("frame")
		}
	}
	if err := run(ctx, e, args[0], args[1:]); err != nil {
		log.Fatal().Err(err).Str("command", args[0]).Msg("failed")
	}
	e.show()
}

// open builds the transport stack for cfg and the Display on top of it.
func open(cfg *config.Config, verbose bool) (*env, func(), error) {
	e := &env{cfg: cfg}
	kind := cfg.Kind()
	addr := cfg.Address
	if addr == 0 {
		addr = kind.DefaultAddress()
	}

	var t is31fl3731.Transport
	closer := func() {}
	switch cfg.Driver {
	case "sim":
		e.sim = bus.NewSim(addr)
		t = e.sim
		if err := is31fl3731.New(t, addr).Setup(context.Background(), is31fl3731.DelayFunc(func(time.Duration) {})); err != nil {
			return nil, nil, err
		}
	default:
		p, bc, err := bus.Open(cfg.Bus, physic.Frequency(cfg.SpeedKHz)*physic.KiloHertz)
		if err != nil {
			return nil, nil, err
		}
		closer = func() {
			if err := bc.Close(); err != nil {
				log.Warn().Err(err).Msg("close bus")
			}
		}
		t = p
		log.Debug().Str("bus", p.String()).Msg("bus open")
	}
	if verbose {
		t = bus.NewTrace(t, log.Logger)
	}

	disp, err := board.Open(t, kind, addr)
	if err != nil {
		closer()
		return nil, nil, err
	}
	e.disp, e.t = disp, t
	log.Debug().Str("board", kind.String()).Uint8("addr", addr).Str("driver", cfg.Driver).Msg("display ready")
	return e, closer, nil
}
