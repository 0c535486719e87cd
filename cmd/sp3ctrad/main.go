// Command sp3ctrad wires the configuration, ingest listener, synthesis
// core, audio output, and MIDI/reverb collaborators into one running
// process and drives the main synthesis loop until it is signaled to
// stop.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/ondulab/sp3ctra-go/internal/audiobuf"
	"github.com/ondulab/sp3ctra-go/internal/config"
	"github.com/ondulab/sp3ctra-go/internal/ingest"
	"github.com/ondulab/sp3ctra-go/internal/logging"
	"github.com/ondulab/sp3ctra-go/internal/metrics"
	"github.com/ondulab/sp3ctra-go/internal/midi"
	"github.com/ondulab/sp3ctra-go/internal/reverb"
	"github.com/ondulab/sp3ctra-go/internal/synth"
	"github.com/ondulab/sp3ctra-go/internal/wavetable"
	"github.com/ondulab/sp3ctra-go/internal/workerpool"
)

const numWorkers = 3

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (defaults built in if omitted)")
	listenAddr := flag.String("listen", ":55151", "UDP address to receive image line fragments on")
	backendName := flag.String("backend", "oto", "Audio output backend: oto or sdl2")
	enableLogging := flag.Bool("log", false, "Enable component logging to stdout")
	flag.Parse()

	if err := run(*configPath, *listenAddr, *backendName, *enableLogging); err != nil {
		fmt.Fprintf(os.Stderr, "sp3ctrad: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, listenAddr, backendName string, enableLogging bool) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	log := logging.New(4096)
	if enableLogging {
		log.SetMinLevel(logging.LevelDebug)
	} else {
		log.SetMinLevel(logging.LevelWarning)
	}
	defer func() {
		log.Shutdown()
		if enableLogging {
			for _, e := range log.GetEntries() {
				fmt.Println(e.Format())
			}
		}
	}()

	table, err := wavetable.Build(wavetable.Params{
		SampleRate:         cfg.SamplingFrequency,
		StartFrequency:     cfg.StartFrequency,
		SemitonesPerOctave: cfg.SemitonesPerOctave,
		CommasPerSemitone:  cfg.CommasPerSemitone,
		NoteCount:          cfg.NoteCount(),
	})
	if err != nil {
		return fmt.Errorf("build wavetable: %w", err)
	}

	pool := workerpool.New(table, numWorkers, cfg.AudioBufferSize)
	defer pool.Close()

	dbuf := audiobuf.NewDoubleBuffer(cfg.AudioBufferSize)

	dryRing := reverb.NewRing(cfg.AudioBufferSize * 8)
	wetL := reverb.NewRing(cfg.AudioBufferSize * 8)
	wetR := reverb.NewRing(cfg.AudioBufferSize * 8)
	send := reverb.NewSend(dryRing)
	ret := reverb.NewReturn(wetL, wetR)

	coll := metrics.NewCollector(time.Second)

	driver := synth.New(cfg, pool, dbuf, log, coll, send)

	mix := audiobuf.NewMixState()
	mix.SetAdditiveMix(1)
	poller := midi.NewPoller(midi.NoopSource{}, mix, 64)

	callback := audiobuf.NewCallback(dbuf, mix, ret)
	callback.SetTicker(poller)

	output, err := openBackend(backendName, callback, cfg.SamplingFrequency, cfg.AudioBufferSize)
	if err != nil {
		return fmt.Errorf("open audio backend %q: %w", backendName, err)
	}
	if err := output.Start(); err != nil {
		return fmt.Errorf("start audio backend: %w", err)
	}

	udpAddr, err := net.ResolveUDPAddr("udp", listenAddr)
	if err != nil {
		return fmt.Errorf("resolve listen address %q: %w", listenAddr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("listen udp %q: %w", listenAddr, err)
	}

	reassembler := ingest.NewReassembler(cfg.PixelsPerImage)
	lineBuf := ingest.NewLineBuffer(cfg.PixelsPerImage)
	listener := ingest.NewListener(conn, reassembler, lineBuf, log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ingestDone := make(chan error, 1)
	go func() { ingestDone <- listener.Run(ctx) }()

	loopDone := make(chan struct{})
	go runSynthLoop(ctx, driver, lineBuf, cfg, log, loopDone)

	log.Logf(logging.ComponentSystem, logging.LevelInfo, "sp3ctrad listening on %s, %d notes, backend=%s", listenAddr, cfg.NoteCount(), backendName)

	<-ctx.Done()

	// Stop the audio stream before tearing down anything it reads from.
	_ = output.Stop()
	_ = output.Close()
	<-ingestDone
	<-loopDone
	return nil
}

// runSynthLoop is the single synthesis-driver thread: it waits on the
// ingest line buffer with a bounded timeout and always runs one
// ProcessLine per tick, so audio output never stalls even without image
// traffic. A stalled or never-started ingest source is logged at most
// once per second, not once per tick. MIDI mix/reverb sends are sampled
// from the audio callback instead (see callback.SetTicker), not here.
func runSynthLoop(ctx context.Context, driver *synth.Driver, lineBuf *ingest.LineBuffer, cfg config.Config, log *logging.Logger, done chan struct{}) {
	defer close(done)

	r := make([]byte, cfg.PixelsPerImage)
	g := make([]byte, cfg.PixelsPerImage)
	b := make([]byte, cfg.PixelsPerImage)
	rl := logging.RateLimiter{Interval: time.Second}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		result := lineBuf.WaitNext(10*time.Millisecond, r, g, b)
		if result != ingest.ResultNewLine && log != nil && rl.Allow(time.Now()) {
			log.Logf(logging.ComponentIngest, logging.LevelWarning, "no ingest data, falling back (result=%v)", result)
		}

		line := synth.Line{R: r, G: g, B: b}
		if err := driver.ProcessLine(line, time.Now()); err != nil {
			return
		}
	}
}

func openBackend(name string, cb *audiobuf.Callback, sampleRate, bufferSize int) (audiobuf.Output, error) {
	switch name {
	case "oto":
		return audiobuf.NewOtoOutput(cb, sampleRate, bufferSize)
	case "sdl2":
		return audiobuf.NewSDL2Output(cb, sampleRate, bufferSize)
	default:
		return nil, fmt.Errorf("unknown backend %q (want oto or sdl2)", name)
	}
}
