package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/zhouzirui/eventbuddy/internal/config"
	"github.com/zhouzirui/eventbuddy/internal/handler"
	"github.com/zhouzirui/eventbuddy/internal/service/bot"
	eventsgw "github.com/zhouzirui/eventbuddy/internal/service/events"
	"github.com/zhouzirui/eventbuddy/internal/service/recognizer"
	"github.com/zhouzirui/eventbuddy/internal/service/session"
	weathergw "github.com/zhouzirui/eventbuddy/internal/service/weather"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Select the session store backend.
	var store session.Store
	if cfg.Session.DBPath != "" {
		sqliteStore, err := session.NewSQLiteStore(cfg.Session.DBPath)
		if err != nil {
			log.Fatalf("failed to open session store: %v", err)
		}
		defer sqliteStore.Close()
		store = sqliteStore
		log.Printf("session store: sqlite at %s", cfg.Session.DBPath)
	} else {
		store = session.NewMemoryStore()
		log.Println("session store: in-memory (sessions do not survive restarts)")
	}

	eventsGateway := eventsgw.NewGateway(
		cfg.Events.BaseURL,
		cfg.Events.ClientID,
		cfg.Events.ClientSecret,
		eventsgw.WithTimeout(cfg.Events.Timeout),
	)

	weatherGateway := weathergw.NewGateway(
		cfg.Weather.BaseURL,
		cfg.Weather.APIKey,
		weathergw.WithTimeout(cfg.Weather.Timeout),
	)
	if !cfg.Weather.Enabled() {
		log.Println("warning: WEATHER_API_KEY not set, forecast lookups will fail politely")
	}

	// Initialize the optional LLM intent classifier.
	recognizerCfg := recognizer.Config{Enabled: cfg.Intent.Enabled()}
	var recognizerSvc *recognizer.Service
	if cfg.Intent.Enabled() {
		chatModel, err := cfg.Intent.NewChatModel(ctx)
		if err != nil {
			log.Printf("warning: failed to initialize intent model: %v", err)
			log.Println("continuing with keyword triggers only")
			recognizerSvc, _ = recognizer.NewService(ctx, nil, recognizer.Config{})
		} else {
			recognizerSvc, err = recognizer.NewService(ctx, chatModel, recognizerCfg)
			if err != nil {
				log.Fatalf("failed to initialize intent classifier: %v", err)
			}
			log.Println("LLM intent classifier enabled")
		}
	} else {
		recognizerSvc, _ = recognizer.NewService(ctx, nil, recognizer.Config{})
		log.Println("LLM intent classifier disabled, using keyword triggers")
	}

	botOpts := []bot.Option{}
	if cfg.Events.StaticToken != "" {
		botOpts = append(botOpts, bot.WithStaticToken(cfg.Events.StaticToken))
		log.Println("using static events token, login dialog will not prompt")
	}

	botService := bot.NewService(store, eventsGateway, weatherGateway, recognizerSvc, botOpts...)

	router := handler.NewRouter(botService, cfg.Channel.AppSecret)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("EventBuddy backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
