// Package server streams audio blocks through per-connection vocal
// pipelines over WebSocket.
//
// A client connects to /ws?rate=48000&channels=2. Binary messages carry
// interleaved little-endian float32 PCM and are answered with the processed
// block in the same format. Text messages carry JSON control commands:
//
//	{"param": "tone", "value": 0.8}
//	{"character": "Robot"}
//	{"reset": true}
//
// Each command is answered with a text message holding either the current
// parameter values or an error.
package server

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/cwbudde/vocal-transformer/dsp/buffer"
	"github.com/cwbudde/vocal-transformer/dsp/core"
	"github.com/cwbudde/vocal-transformer/vocal"
)

const (
	bytesPerSample = 4
	queueDepth     = 8

	// controlReadLimit bounds a message when the largest audio frame is smaller.
	controlReadLimit = 4096
)

// Config holds the stream defaults every new connection starts from.
type Config struct {
	SampleRate   float64
	Channels     int
	MaxBlockSize int
	Character    vocal.Character
	Strength     float64
}

// Server owns the HTTP handlers. It holds no per-connection state.
type Server struct {
	cfg      Config
	upgrader websocket.Upgrader
	pool     *buffer.Pool
}

// New returns a Server whose connections start from cfg.
func New(cfg Config) *Server {
	return &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		pool: buffer.NewPool(),
	}
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWebSocket)
	mux.HandleFunc("/presets", s.handlePresets)
	return mux
}

// presetInfo is one /presets entry.
type presetInfo struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	vocal.Preset
}

func (s *Server) handlePresets(w http.ResponseWriter, _ *http.Request) {
	var out []presetInfo
	for _, c := range vocal.Characters() {
		p, _ := c.Preset()
		out = append(out, presetInfo{Index: int(c), Name: c.String(), Preset: p})
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.Printf("server: presets: %v", err)
	}
}

// streamSpec applies the rate and channels query parameters to the defaults.
func (s *Server) streamSpec(r *http.Request) (core.ProcessSpec, error) {
	spec := core.ProcessSpec{
		SampleRate:   s.cfg.SampleRate,
		MaxBlockSize: s.cfg.MaxBlockSize,
		NumChannels:  s.cfg.Channels,
	}
	q := r.URL.Query()
	if v := q.Get("rate"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return spec, fmt.Errorf("rate: %w", err)
		}
		spec.SampleRate = rate
	}
	if v := q.Get("channels"); v != "" {
		ch, err := strconv.Atoi(v)
		if err != nil {
			return spec, fmt.Errorf("channels: %w", err)
		}
		spec.NumChannels = ch
	}
	if err := spec.Validate(); err != nil {
		return spec, err
	}
	if !vocal.SupportsLayout(spec.NumChannels, spec.NumChannels) {
		return spec, fmt.Errorf("%w: %d channels", vocal.ErrUnsupportedLayout, spec.NumChannels)
	}
	return spec, nil
}

func (s *Server) newPipeline(spec core.ProcessSpec) (*vocal.Pipeline, error) {
	store := vocal.NewStore()
	if err := store.SetCharacter(s.cfg.Character); err != nil {
		return nil, err
	}
	if err := store.Set(vocal.ParamCharacterStrength, s.cfg.Strength); err != nil {
		return nil, err
	}
	p, err := vocal.New(vocal.WithStore(store))
	if err != nil {
		return nil, err
	}
	if err := p.Prepare(spec); err != nil {
		return nil, err
	}
	return p, nil
}

// HandleWebSocket upgrades the request and serves one streaming session.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	spec, err := s.streamSpec(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, err := s.newPipeline(spec)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: upgrade error: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(readLimit(spec))

	log.Printf("server: client %s connected (%d ch, %.0f Hz)", r.RemoteAddr, spec.NumChannels, spec.SampleRate)
	newSession(conn, p, s.pool).run()
	log.Printf("server: client %s disconnected", r.RemoteAddr)
}

// readLimit is the largest message a connection accepts: one full block
// of PCM, or a control message.
func readLimit(spec core.ProcessSpec) int64 {
	return int64(max(spec.MaxBlockSize*spec.NumChannels*bytesPerSample, controlReadLimit))
}

type controlMessage struct {
	Param     string   `json:"param,omitempty"`
	Value     *float64 `json:"value,omitempty"`
	Character string   `json:"character,omitempty"`
	Reset     bool     `json:"reset,omitempty"`
}

type controlReply struct {
	Params map[string]float64 `json:"params,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// messageConn is the part of a websocket connection a session uses.
type messageConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
}

// session pairs a reader goroutine (control and audio intake) with a
// processing goroutine that is the connection's only writer.
type session struct {
	conn     messageConn
	pipeline *vocal.Pipeline
	pool     *buffer.Pool

	audio   chan []byte
	replies chan []byte

	samples []float32
	out     []byte
}

func newSession(conn messageConn, p *vocal.Pipeline, pool *buffer.Pool) *session {
	return &session{
		conn:     conn,
		pipeline: p,
		pool:     pool,
		audio:    make(chan []byte, queueDepth),
		replies:  make(chan []byte, queueDepth),
	}
}

func (s *session) run() {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.writeLoop()
	}()

	defer func() {
		close(s.audio)
		<-done
	}()

	for {
		kind, data, err := s.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("server: read error: %v", err)
			}
			return
		}
		switch kind {
		case websocket.BinaryMessage:
			s.audio <- data
		case websocket.TextMessage:
			s.replies <- s.control(data)
		}
	}
}

func (s *session) writeLoop() {
	for {
		select {
		case data, ok := <-s.audio:
			if !ok {
				s.flushReplies()
				return
			}
			msgType, payload := s.processFrame(data)
			if err := s.conn.WriteMessage(msgType, payload); err != nil {
				log.Printf("server: write error: %v", err)
				s.drain()
				return
			}
		case reply := <-s.replies:
			if err := s.conn.WriteMessage(websocket.TextMessage, reply); err != nil {
				log.Printf("server: write error: %v", err)
				s.drain()
				return
			}
		}
	}
}

// flushReplies writes the control replies still queued when the reader stops.
func (s *session) flushReplies() {
	for {
		select {
		case reply := <-s.replies:
			if err := s.conn.WriteMessage(websocket.TextMessage, reply); err != nil {
				return
			}
		default:
			return
		}
	}
}

// drain keeps the reader from blocking after the writer has failed.
func (s *session) drain() {
	for {
		select {
		case _, ok := <-s.audio:
			if !ok {
				return
			}
		case <-s.replies:
		}
	}
}

func (s *session) processFrame(data []byte) (int, []byte) {
	spec := s.pipeline.Spec()
	channels := spec.NumChannels
	if len(data) == 0 || len(data)%(bytesPerSample*channels) != 0 {
		return websocket.TextMessage, encodeReply(controlReply{
			Error: fmt.Sprintf("binary frame of %d bytes is not a whole number of %d-channel float32 frames", len(data), channels),
		})
	}

	if frames := len(data) / (bytesPerSample * channels); frames > spec.MaxBlockSize {
		return websocket.TextMessage, encodeReply(controlReply{
			Error: fmt.Sprintf("binary frame of %d frames exceeds the block size of %d", frames, spec.MaxBlockSize),
		})
	}

	n := len(data) / bytesPerSample
	if cap(s.samples) < n {
		s.samples = make([]float32, n)
	}
	s.samples = s.samples[:n]
	for i := range s.samples {
		s.samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*bytesPerSample:]))
	}

	b := s.pool.Get(channels, n/channels)
	defer s.pool.Put(b)
	buffer.Deinterleave(b, s.samples)
	if err := s.pipeline.Process(b); err != nil {
		return websocket.TextMessage, encodeReply(controlReply{Error: err.Error()})
	}
	buffer.Interleave(s.samples, b)

	if cap(s.out) < len(data) {
		s.out = make([]byte, len(data))
	}
	s.out = s.out[:len(data)]
	for i, v := range s.samples {
		binary.LittleEndian.PutUint32(s.out[i*bytesPerSample:], math.Float32bits(v))
	}
	return websocket.BinaryMessage, s.out
}

func (s *session) control(data []byte) []byte {
	var msg controlMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return encodeReply(controlReply{Error: "invalid control message: " + err.Error()})
	}
	if err := s.apply(msg); err != nil {
		return encodeReply(controlReply{Error: err.Error()})
	}
	return encodeReply(controlReply{Params: s.pipeline.Store().Values()})
}

func (s *session) apply(msg controlMessage) error {
	store := s.pipeline.Store()
	switch {
	case msg.Reset:
		store.ResetDefaults()
		return nil
	case msg.Character != "":
		c, err := vocal.ParseCharacter(msg.Character)
		if err != nil {
			return err
		}
		return store.SetCharacter(c)
	case msg.Param != "":
		if msg.Value == nil {
			return fmt.Errorf("missing value for %q", msg.Param)
		}
		return store.SetByName(msg.Param, *msg.Value)
	}
	return errors.New("empty control message")
}

func encodeReply(r controlReply) []byte {
	data, err := json.Marshal(r)
	if err != nil {
		return []byte(`{"error":"internal encoding error"}`)
	}
	return data
}
