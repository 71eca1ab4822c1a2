// Package server exposes a board over HTTP: a health endpoint and a websocket
// accepting JSON control requests.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-ledmatrix/board"
	diag "github.com/coreman2200/funtimes-ledmatrix/internal/diagnostics"
	"github.com/coreman2200/funtimes-ledmatrix/is31fl3731"
)

// OpTimeout bounds the bus traffic of a single request.
const OpTimeout = 2 * time.Second

var errUnknownOp = errors.New("server: unknown op")

// Request is one control message. Fields not used by Op are ignored.
type Request struct {
	ID     int     `json:"id,omitempty"`
	Op     string  `json:"op"`
	X      uint8   `json:"x"`
	Y      uint8   `json:"y"`
	Value  uint8   `json:"value"`
	R      uint8   `json:"r"`
	G      uint8   `json:"g"`
	B      uint8   `json:"b"`
	Frame  *uint8  `json:"frame,omitempty"`
	Blink  string  `json:"blink,omitempty"`
	Mode   string  `json:"mode,omitempty"`
	Asleep bool    `json:"asleep"`
	LEDs   []uint8 `json:"leds,omitempty"`
}

type Reply struct {
	ID    int              `json:"id,omitempty"`
	Op    string           `json:"op"`
	OK    bool             `json:"ok"`
	Frame uint8            `json:"frame"`
	Diag  *diag.Diagnostic `json:"diag,omitempty"`
}

// Server serialises every request onto one Display.
type Server struct {
	mu     sync.Mutex
	disp   *board.Display
	driver string
	log    zerolog.Logger
	up     websocket.Upgrader

	start    time.Time
	ops      uint64
	failures uint64
	buf      [is31fl3731.NumLEDs]byte
}

func New(disp *board.Display, driver string, log zerolog.Logger) *Server {
	return &Server{
		disp:   disp,
		driver: driver,
		log:    log,
		up:     websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		start:  time.Now(),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/control", s.HandleControl)
	return withCORS(mux)
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := map[string]any{
		"uptime_s": time.Since(s.start).Seconds(),
		"board":    s.disp.Kind().String(),
		"address":  s.disp.Device().Address(),
		"frame":    s.disp.Device().Frame(),
		"driver":   s.driver,
		"ops":      s.ops,
		"failures": s.failures,
	}
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) HandleControl(w http.ResponseWriter, r *http.Request) {
	conn, err := s.up.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("upgrade")
		return
	}
	defer conn.Close()
	s.log.Info().Str("remote", r.RemoteAddr).Msg("control client connected")
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			s.log.Info().Str("remote", r.RemoteAddr).Msg("control client gone")
			return
		}
		var req Request
		var rep Reply
		if err := json.Unmarshal(data, &req); err != nil {
			rep.Diag = &diag.Diagnostic{Severity: diag.Warn, Code: "REQ.BAD_JSON", Summary: "Malformed request", Detail: err.Error()}
		} else {
			rep = s.Apply(r.Context(), req)
		}
		if err := conn.WriteJSON(rep); err != nil {
			s.log.Debug().Err(err).Msg("write reply")
			return
		}
	}
}

// Apply runs req against the display and describes the outcome.
func (s *Server) Apply(ctx context.Context, req Request) Reply {
	ctx, cancel := context.WithTimeout(ctx, OpTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops++
	err := s.apply(ctx, req)
	rep := Reply{ID: req.ID, Op: req.Op, OK: err == nil, Frame: s.disp.Device().Frame()}
	if err != nil {
		s.failures++
		var d diag.Diagnostic
		if errors.Is(err, errUnknownOp) {
			d = diag.Diagnostic{Severity: diag.Warn, Code: "REQ.UNKNOWN_OP", Summary: "Unknown op",
				Evidence: map[string]any{"op": req.Op}}
		} else {
			d = diag.FromError(err)
		}
		rep.Diag = &d
		s.log.Warn().Err(err).Str("op", req.Op).Str("code", d.Code).Msg("control request failed")
	}
	return rep
}

func (s *Server) apply(ctx context.Context, req Request) error {
	dev := s.disp.Device()
	switch req.Op {
	case "pixel":
		return s.disp.SetPixel(ctx, req.X, req.Y, req.Value)
	case "rgb":
		return s.disp.SetPixelRGB(ctx, req.X, req.Y, req.R, req.G, req.B)
	case "leds":
		if len(req.LEDs) > is31fl3731.NumLEDs {
			return &is31fl3731.LocationError{Value: len(req.LEDs)}
		}
		s.buf = [is31fl3731.NumLEDs]byte{}
		copy(s.buf[:], req.LEDs)
		return dev.SetAllPixels(ctx, &s.buf)
	case "fill":
		blink, err := is31fl3731.ParseBlink(req.Blink)
		if err != nil {
			return err
		}
		frame := dev.Frame()
		if req.Frame != nil {
			frame = *req.Frame
		}
		return dev.Fill(ctx, req.Value, blink, frame)
	case "clear":
		return s.disp.Clear(ctx)
	case "frame":
		// Without a frame the reply only reports the current one.
		if req.Frame == nil {
			return nil
		}
		return dev.SetFrame(ctx, *req.Frame)
	case "sleep":
		return dev.SetSleep(ctx, req.Asleep)
	case "mode":
		m, err := is31fl3731.ParseMode(req.Mode)
		if err != nil {
			return err
		}
		return dev.SetMode(ctx, m)
	case "setup":
		return dev.Setup(ctx, is31fl3731.Sleep)
	}
	return errUnknownOp
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.ServeHTTP(w, r)
	})
}
