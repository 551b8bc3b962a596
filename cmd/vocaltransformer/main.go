// Command vocaltransformer applies character voice effects to audio.
//
// Usage:
//
//	vocaltransformer render -in voice.wav -out robot.wav -character Robot
//	vocaltransformer live [-character Choir]
//	vocaltransformer serve [-addr :8080]
//	vocaltransformer presets
//
// Defaults come from VT_* environment variables (or a .env file); flags
// override them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/cwbudde/vocal-transformer/dsp/buffer"
	"github.com/cwbudde/vocal-transformer/dsp/core"
	"github.com/cwbudde/vocal-transformer/internal/audioio"
	"github.com/cwbudde/vocal-transformer/internal/config"
	"github.com/cwbudde/vocal-transformer/internal/live"
	"github.com/cwbudde/vocal-transformer/internal/server"
	"github.com/cwbudde/vocal-transformer/measure/analysis"
	"github.com/cwbudde/vocal-transformer/vocal"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "render":
		err = withConfig(runRender, args)
	case "live":
		err = withConfig(runLive, args)
	case "serve":
		err = withConfig(runServe, args)
	case "presets":
		err = runPresets(os.Stdout)
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

// withConfig loads the environment configuration for commands that process audio.
func withConfig(run func(*config.Config, []string) error, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	return run(cfg, args)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: vocaltransformer <command> [flags]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  render   process an audio file (WAV or MP3 in, WAV out)\n")
	fmt.Fprintf(os.Stderr, "  live     process the default audio device in real time\n")
	fmt.Fprintf(os.Stderr, "  serve    stream audio through the pipeline over WebSocket\n")
	fmt.Fprintf(os.Stderr, "  presets  list the character presets\n")
}

// paramFlags collects repeated -param name=value flags.
type paramFlags []string

func (p *paramFlags) String() string { return strings.Join(*p, ",") }

func (p *paramFlags) Set(v string) error {
	if !strings.Contains(v, "=") {
		return fmt.Errorf("want name=value, got %q", v)
	}
	*p = append(*p, v)
	return nil
}

// voiceFlags registers the flags shared by every processing command.
type voiceFlags struct {
	character string
	strength  float64
	params    paramFlags
	state     string
}

func (v *voiceFlags) register(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&v.character, "character", cfg.Character, "character preset name or index")
	fs.Float64Var(&v.strength, "strength", cfg.Strength, "character strength in [0, 1]")
	fs.Var(&v.params, "param", "parameter override name=value (repeatable)")
	fs.StringVar(&v.state, "state", cfg.StateFile, "JSON parameter state file to load first")
}

// store builds the parameter store: state file, then character, then overrides.
func (v *voiceFlags) store() (*vocal.Store, error) {
	s := vocal.NewStore()
	if v.state != "" {
		f, err := os.Open(v.state)
		if err != nil {
			return nil, err
		}
		err = vocal.LoadState(f, s)
		f.Close()
		if err != nil {
			return nil, err
		}
	}

	c, err := vocal.ParseCharacter(v.character)
	if err != nil {
		return nil, err
	}
	if err := s.SetCharacter(c); err != nil {
		return nil, err
	}
	if err := s.Set(vocal.ParamCharacterStrength, v.strength); err != nil {
		return nil, err
	}

	for _, kv := range v.params {
		name, raw, _ := strings.Cut(kv, "=")
		val, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("param %s: %w", name, err)
		}
		if err := s.SetByName(name, val); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func runRender(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	in := fs.String("in", "", "input file (.wav or .mp3)")
	out := fs.String("out", "", "output WAV file")
	block := fs.Int("block", cfg.BlockSize, "processing block size in frames")
	saveState := fs.String("save-state", "", "write the final parameter state to this JSON file")
	var vf voiceFlags
	vf.register(fs, cfg)
	_ = fs.Parse(args)

	if *in == "" || *out == "" {
		fs.Usage()
		return errors.New("-in and -out are required")
	}
	if *block <= 0 {
		return fmt.Errorf("block size must be > 0: %d", *block)
	}

	clip, err := audioio.ReadFile(*in)
	if err != nil {
		return err
	}
	channels := clip.Block.NumChannels()
	if !vocal.SupportsLayout(channels, channels) {
		return fmt.Errorf("%w: %s has %d channels", vocal.ErrUnsupportedLayout, *in, channels)
	}

	store, err := vf.store()
	if err != nil {
		return err
	}
	p, err := vocal.New(vocal.WithStore(store))
	if err != nil {
		return err
	}
	spec := core.NewProcessSpec(
		core.WithSampleRate(clip.SampleRate),
		core.WithMaxBlockSize(*block),
		core.WithNumChannels(channels),
	)
	if err := p.Prepare(spec); err != nil {
		return err
	}

	before, err := analysis.AnalyzeBlock(clip.Block, clip.SampleRate)
	if err != nil {
		return err
	}

	rendered := buffer.New(channels, clip.Block.NumFrames())
	if err := render(p, clip.Block, rendered, *block); err != nil {
		return err
	}
	result := &audioio.Clip{Block: rendered, SampleRate: clip.SampleRate}
	if err := audioio.WriteFile(*out, result); err != nil {
		return err
	}

	after, err := analysis.AnalyzeBlock(rendered, clip.SampleRate)
	if err != nil {
		return err
	}
	log.Printf("rendered %s -> %s (%.2f s, %d ch, %s)", *in, *out, clip.Duration(), channels, store.Character())
	printReport(os.Stdout, before, after)

	if *saveState != "" {
		f, err := os.Create(*saveState)
		if err != nil {
			return err
		}
		if err := vocal.SaveState(f, store); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	return nil
}

// render runs src through p in blocks of blockSize frames, writing dst.
func render(p *vocal.Pipeline, src, dst *buffer.Block, blockSize int) error {
	channels := src.NumChannels()
	frames := src.NumFrames()
	work := buffer.New(channels, blockSize)
	for start := 0; start < frames; start += blockSize {
		n := min(blockSize, frames-start)
		work.Resize(n)
		for ch := 0; ch < channels; ch++ {
			core.CopyInto(work.Channel(ch), src.Channel(ch)[start:])
		}
		if err := p.Process(work); err != nil {
			return err
		}
		for ch := 0; ch < channels; ch++ {
			core.CopyInto(dst.Channel(ch)[start:], work.Channel(ch))
		}
	}
	return nil
}

func printReport(w io.Writer, before, after analysis.Report) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tRMS dB\tPeak dB\tCrest dB\tCentroid Hz\tRoll-off Hz")
	for _, row := range []struct {
		name string
		r    analysis.Report
	}{{"input", before}, {"output", after}} {
		fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%.1f\t%.0f\t%.0f\n",
			row.name, row.r.RMS_dB, row.r.Peak_dB, row.r.CrestFactor_dB, row.r.Centroid, row.r.Rolloff)
	}
	tw.Flush()
}

func runLive(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("live", flag.ExitOnError)
	rate := fs.Float64("rate", cfg.SampleRate, "sample rate in Hz")
	frames := fs.Int("frames", cfg.BlockSize, "frames per buffer")
	channels := fs.Int("channels", cfg.Channels, "channel count (1 or 2)")
	var vf voiceFlags
	vf.register(fs, cfg)
	_ = fs.Parse(args)

	store, err := vf.store()
	if err != nil {
		return err
	}
	p, err := vocal.New(vocal.WithStore(store))
	if err != nil {
		return err
	}
	spec := core.ProcessSpec{SampleRate: *rate, MaxBlockSize: *frames, NumChannels: *channels}
	if err := p.Prepare(spec); err != nil {
		return err
	}

	engine, err := live.NewEngine(p, live.Config{
		SampleRate:      *rate,
		FramesPerBuffer: *frames,
		Channels:        *channels,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log.Printf("live: %s at strength %.2f, press Ctrl+C to stop", store.Character(), vf.strength)
	return engine.Run(ctx)
}

func runServe(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", cfg.ListenAddr, "listen address")
	character := fs.String("character", cfg.Character, "initial character for new connections")
	strength := fs.Float64("strength", cfg.Strength, "initial character strength")
	_ = fs.Parse(args)

	c, err := vocal.ParseCharacter(*character)
	if err != nil {
		return err
	}
	srv := server.New(server.Config{
		SampleRate:   cfg.SampleRate,
		Channels:     cfg.Channels,
		MaxBlockSize: cfg.BlockSize,
		Character:    c,
		Strength:     *strength,
	})

	httpSrv := &http.Server{Addr: *addr, Handler: srv.Handler()}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		_ = httpSrv.Shutdown(context.Background())
	}()

	log.Printf("Server starting on %s (ws://<host>%s/ws)", *addr, *addr)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func runPresets(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tName\tPitch\tFormant\tVoices\tDetune\tReverb")
	for _, c := range vocal.Characters() {
		p, _ := c.Preset()
		fmt.Fprintf(tw, "%d\t%s\t%+.0f\t%.1f\t%d\t%.1f\t%.1f\n",
			int(c), c, p.PitchShift, p.FormantShift, p.VoiceCount, p.Detune, p.Reverb)
	}
	return tw.Flush()
}
