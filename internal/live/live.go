// Package live runs a vocal pipeline on the default PortAudio duplex device.
package live

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"

	"github.com/cwbudde/vocal-transformer/dsp/buffer"
	"github.com/cwbudde/vocal-transformer/vocal"
)

// Config describes the duplex device stream.
type Config struct {
	SampleRate      float64
	FramesPerBuffer int
	Channels        int
}

// GetDefaultConfig returns a stereo 44.1 kHz stream with 512-frame buffers.
func GetDefaultConfig() Config {
	return Config{
		SampleRate:      44100,
		FramesPerBuffer: 512,
		Channels:        2,
	}
}

// Engine feeds device input through the pipeline and plays the result.
type Engine struct {
	cfg      Config
	pipeline *vocal.Pipeline
	block    *buffer.Block

	blocks   atomic.Int64
	failures atomic.Int64
}

// NewEngine returns an Engine for a pipeline already prepared for cfg.
func NewEngine(p *vocal.Pipeline, cfg Config) (*Engine, error) {
	if p == nil {
		return nil, errors.New("live: nil pipeline")
	}
	if !vocal.SupportsLayout(cfg.Channels, cfg.Channels) {
		return nil, fmt.Errorf("live: %w: %d channels", vocal.ErrUnsupportedLayout, cfg.Channels)
	}
	if cfg.FramesPerBuffer <= 0 {
		return nil, fmt.Errorf("live: frames per buffer must be > 0: %d", cfg.FramesPerBuffer)
	}
	if !p.Prepared() {
		return nil, vocal.ErrNotPrepared
	}
	return &Engine{
		cfg:      cfg,
		pipeline: p,
		block:    buffer.New(cfg.Channels, cfg.FramesPerBuffer),
	}, nil
}

// Blocks returns the number of callbacks processed.
func (e *Engine) Blocks() int64 { return e.blocks.Load() }

// Failures returns the number of callbacks that produced silence because
// the pipeline rejected the block.
func (e *Engine) Failures() int64 { return e.failures.Load() }

// process is the PortAudio stream callback. in and out are interleaved.
func (e *Engine) process(in, out []float32) {
	buffer.Deinterleave(e.block, in)
	if err := e.pipeline.Process(e.block); err != nil {
		e.failures.Add(1)
		clear(out)
		return
	}
	n := buffer.Interleave(out, e.block) * e.cfg.Channels
	clear(out[n:])
	e.blocks.Add(1)
}

// Run opens the default duplex stream and processes audio until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("live: %w", err)
	}
	defer portaudio.Terminate()

	stream, err := portaudio.OpenDefaultStream(
		e.cfg.Channels,
		e.cfg.Channels,
		e.cfg.SampleRate,
		e.cfg.FramesPerBuffer,
		e.process,
	)
	if err != nil {
		return fmt.Errorf("live: open stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("live: start stream: %w", err)
	}
	log.Printf("live: streaming %d ch at %.0f Hz, %d frames per buffer",
		e.cfg.Channels, e.cfg.SampleRate, e.cfg.FramesPerBuffer)

	<-ctx.Done()

	if err := stream.Stop(); err != nil {
		return fmt.Errorf("live: stop stream: %w", err)
	}
	log.Printf("live: stopped after %d blocks (%d failed)", e.Blocks(), e.Failures())
	return nil
}
