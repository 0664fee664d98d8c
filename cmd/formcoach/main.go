// formcoach is the real-time exercise coaching service: landmark frames in,
// rep counts, posture corrections, and spoken feedback out.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	anyllm "github.com/mozilla-ai/any-llm-go"
	"golang.org/x/sync/errgroup"

	"github.com/formsense/go-formcoach/internal/config"
	"github.com/formsense/go-formcoach/internal/log"
	"github.com/formsense/go-formcoach/pkg/audio"
	"github.com/formsense/go-formcoach/pkg/coach"
	"github.com/formsense/go-formcoach/pkg/exercise"
	"github.com/formsense/go-formcoach/pkg/fit"
	"github.com/formsense/go-formcoach/pkg/hub"
	"github.com/formsense/go-formcoach/pkg/ingest"
	"github.com/formsense/go-formcoach/pkg/llm"
	"github.com/formsense/go-formcoach/pkg/pose"
	"github.com/formsense/go-formcoach/pkg/protocol"
	"github.com/formsense/go-formcoach/pkg/session"
	"github.com/formsense/go-formcoach/pkg/speech"
	"github.com/formsense/go-formcoach/pkg/tts"
	"github.com/formsense/go-formcoach/pkg/web"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	feedURL := flag.String("feed", "", "Outbound pose estimator WebSocket URL (optional; feeds can also connect to /ws/pose)")
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	mute := flag.Bool("mute", false, "Disable spoken feedback")
	flag.Parse()

	level := "info"
	if *debug {
		level = "debug"
	}
	log.Init(level)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "formcoach: %v\n", err)
			os.Exit(1)
		}
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *mute {
		cfg.Speech.Enabled = false
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, *feedURL); err != nil {
		log.Error("formcoach: fatal", "error", err)
		os.Exit(1)
	}
}

// run wires the pipeline and blocks until the context is cancelled.
func run(ctx context.Context, cfg *config.Config, feedURL string) error {
	// Text generation for the coach.
	generator, err := buildGenerator(cfg.Coach)
	if err != nil {
		return err
	}
	defer generator.Close()

	arbiter := coach.NewArbiter(generator, coach.Config{
		BaseCooldown:    cfg.Coach.BaseCooldown,
		UrgentCooldown:  cfg.Coach.UrgentCooldown,
		GenerateTimeout: cfg.Coach.Timeout,
	})

	// Speaking pipeline.
	var dispatcher *speech.Dispatcher
	if cfg.Speech.Enabled {
		dispatcher, err = buildSpeech(cfg.Speech)
		if err != nil {
			return err
		}
		defer dispatcher.Shutdown()
	}

	// Result persistence.
	var sink session.ResultSink = session.DiscardResults{}
	var fitSink *fit.Sink
	if cfg.Fit.Enabled {
		fitSink, err = fit.NewSink(fit.Config{
			ClientID:     cfg.Fit.ClientID,
			ClientSecret: cfg.Fit.ClientSecret,
			RedirectURL:  cfg.Fit.RedirectURL,
			TokenPath:    cfg.Fit.TokenPath,
		})
		if err != nil {
			return err
		}
		sink = fitSink
	}

	dashHub := hub.New("dashboard")

	var speaker session.Speaker
	if dispatcher != nil {
		speaker = dispatcher
	}
	manager := session.NewManager(arbiter, speaker, sink, dashHub)

	// Start a default session so frames are coached as soon as they arrive;
	// the API can stop it and start a configured one.
	if _, err := manager.Start(session.Config{
		Mode:     exercise.ModeWorkout,
		GoalReps: cfg.Exercise.GoalReps,
		GoalSets: cfg.Exercise.GoalSets,
		Thresholds: exercise.Thresholds{
			FlexUp:   cfg.Exercise.FlexUp,
			FlexDown: cfg.Exercise.FlexDown,
			Drift:    cfg.Exercise.Drift,
		},
	}); err != nil {
		return err
	}

	// Frame routing: both the inbound feed hub and the optional outbound
	// client funnel into the active session.
	processFrame := func(frame pose.Frame) {
		active := manager.Active()
		if active == nil {
			return
		}
		update := active.ProcessFrame(ctx, frame)
		dashHub.Publish(statusMessage(active))
		if update.WorkoutCompleted {
			log.Info("formcoach: workout complete", "session_id", active.ID())
		}
	}

	ingestHub := ingest.NewHub()
	ingestHub.OnLandmarks(func(feedID string, data *protocol.LandmarkData) {
		processFrame(pose.FrameFromLandmarks(data))
	})

	srv := web.NewServer(cfg.Server.Addr, manager, dashHub, ingestHub, dispatcher)
	if fitSink != nil {
		srv.RegisterFit(fitSink)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Start()
	})

	g.Go(func() error {
		<-ctx.Done()
		return srv.Shutdown()
	})

	if feedURL != "" {
		client := pose.NewClient(feedURL)
		client.OnFrame(func(frameID uint64, frame pose.Frame) {
			processFrame(frame)
		})
		client.OnError(func(err error) {
			log.Warn("formcoach: pose feed error", "error", err)
		})
		if err := client.Connect(ctx); err != nil {
			return err
		}
		defer client.Close()
	}

	log.Info("formcoach: running", "addr", cfg.Server.Addr, "speech", cfg.Speech.Enabled)
	return g.Wait()
}

// buildGenerator creates the configured text-generation backend.
func buildGenerator(cfg config.CoachConfig) (llm.Generator, error) {
	var opts []anyllm.Option
	if cfg.APIKey != "" {
		opts = append(opts, anyllm.WithAPIKey(cfg.APIKey))
	}
	return llm.New(cfg.Provider, cfg.Model, opts...)
}

// buildSpeech assembles the TTS fallback chain and its playout sink.
func buildSpeech(cfg config.SpeechConfig) (*speech.Dispatcher, error) {
	var providers []tts.Provider
	for _, name := range cfg.Providers {
		switch name {
		case "openai":
			p, err := tts.NewOpenAI(
				tts.WithAPIKey(config.Env("OPENAI_API_KEY", cfg.OpenAIKey)),
			)
			if err != nil {
				return nil, err
			}
			providers = append(providers, p)
		case "elevenlabs":
			p, err := tts.NewElevenLabs(
				tts.WithAPIKey(config.Env("ELEVENLABS_API_KEY", cfg.ElevenLabsKey)),
				tts.WithVoice(cfg.Voice),
			)
			if err != nil {
				return nil, err
			}
			providers = append(providers, p)
		}
	}

	chain, err := tts.NewChain(providers...)
	if err != nil {
		return nil, err
	}

	var sink speech.Sink
	if cfg.RTPAddr != "" {
		sink, err = audio.NewStreamer(cfg.RTPAddr)
	} else {
		sink, err = audio.NewExecPlayer("")
	}
	if err != nil {
		return nil, err
	}

	return speech.NewDispatcher(chain, sink), nil
}

// statusMessage builds the status broadcast for the dashboard.
func statusMessage(s *session.Session) *protocol.Message {
	msg, err := protocol.NewMessage(protocol.TypeStatus, s.Status())
	if err != nil {
		return &protocol.Message{Type: protocol.TypeStatus}
	}
	return msg
}
