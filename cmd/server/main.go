package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studyflow-backend/internal/config"
	"studyflow-backend/internal/events"
	"studyflow-backend/internal/handlers"
	"studyflow-backend/internal/logger"
	"studyflow-backend/internal/middleware"
	"studyflow-backend/internal/models"
	"studyflow-backend/internal/notes"
	"studyflow-backend/internal/router"
	"studyflow-backend/internal/studyplan"
	"studyflow-backend/internal/tutor"
	"studyflow-backend/internal/voice"
	"studyflow-backend/internal/websocket"
	"studyflow-backend/internal/worker"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	logger.Configure(cfg.LogLevel, cfg.IsDevelopment())
	log := logger.Logger

	log.Info().Msg("🚀 Starting StudyFlow Backend...")
	log.Info().Str("env", cfg.Env).Msg("✓ Environment variables loaded")

	// ──── Step 2: Event Bus (Redis when configured) ────
	var bus events.Bus
	if cfg.RedisURL != "" {
		client, err := events.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("✗ Redis connection failed")
		}
		defer client.Close()
		bus = events.NewRedisBus(client)
		log.Info().Msg("✓ Redis event bus connected")
	} else {
		bus = events.NewLocalBus(64)
		log.Info().Msg("✓ In-process event bus started")
	}

	// ──── Step 3: Voice Capability ────
	var (
		recognizer  voice.Recognizer
		synthesizer voice.Synthesizer
	)
	if cfg.BrowserVoice {
		recognizer = &voice.RemoteRecognizer{Publisher: bus}
		synthesizer = &voice.RemoteSynthesizer{Publisher: bus}
		log.Info().Msg("✓ Voice relayed to browser")
	} else {
		log.Info().Msg("✓ Voice disabled")
	}

	// ──── Step 4: Study Plan Seed ────
	seed := studyplan.DefaultSeed
	if cfg.StudyPlanSeed != "" {
		loaded, err := studyplan.LoadSeedFile(cfg.StudyPlanSeed)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.StudyPlanSeed).Msg("✗ Study plan seed failed to load")
		}
		seed = loaded
		log.Info().Str("path", cfg.StudyPlanSeed).Msg("✓ Study plan seed loaded")
	}

	// ──── Step 5: Widgets & Worker Pool ────
	var notesWidget *notes.Widget
	workerPool := worker.NewPool(
		func(ctx context.Context, job *models.NoteJob) error {
			return notesWidget.Process(ctx, job)
		},
		cfg.WorkerCount,
		256,
	)
	notesWidget = notes.New(
		notes.WithDelay(cfg.NoteProcessingDelay),
		notes.WithSubmitter(workerPool),
		notes.WithPublisher(bus),
		notes.WithCredential(cfg.HasCredential()),
	)

	tutorWidget := tutor.New(
		tutor.WithDelay(cfg.TutorResponseDelay),
		tutor.WithRecognizer(recognizer),
		tutor.WithSynthesizer(synthesizer),
		tutor.WithPublisher(bus),
		tutor.WithCredential(cfg.HasCredential()),
	)

	planWidget := studyplan.New(
		studyplan.WithSeed(seed),
		studyplan.WithPublisher(bus),
	)

	workerPool.Start()
	log.Info().Int("workers", cfg.WorkerCount).Msg("✓ Worker pool started")

	// ──── Step 6: WebSocket Hub ────
	wsHub := websocket.NewHub(bus)
	log.Info().Msg("✓ WebSocket hub started")

	// ──── Step 7: HTTP Server ────
	writeLimiter := middleware.NewRateLimiter(60, time.Minute)
	r := router.New(
		handlers.NewTutorHandler(tutorWidget),
		handlers.NewNotesHandler(notesWidget),
		handlers.NewStudyPlanHandler(planWidget),
		wsHub,
		writeLimiter,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down...")
		workerPool.Stop()
		writeLimiter.Stop()
		wsHub.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Info().Msgf("✓ StudyFlow Backend ready on http://localhost:%s", cfg.Port)
	log.Info().Msgf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Info().Msgf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Server error")
	}
}
