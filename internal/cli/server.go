package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wellness-survey-service/internal/app"
	"wellness-survey-service/internal/config"
	"wellness-survey-service/internal/gemini"
	"wellness-survey-service/internal/infra/memory"
	pgloader "wellness-survey-service/internal/infra/postgres"
	redisinfra "wellness-survey-service/internal/infra/redis"
	"wellness-survey-service/internal/insight"
	transport "wellness-survey-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the survey server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.DepartmentLoader = memory.NewBuiltinDepartmentLoader()
	if pool != nil {
		loader = pgloader.NewDepartmentLoader(pool)
	}

	surveyTTL := config.TTLDuration(cfg.Survey.TTL, 10*time.Minute)
	var departments app.DepartmentRepository
	if redisClient != nil {
		departments = redisinfra.NewDepartmentRepository(redisClient, loader, surveyTTL)
	} else {
		departments = memory.NewDepartmentRepository(loader, surveyTTL)
	}

	var store app.SessionRepository
	if redisClient != nil {
		store = redisinfra.NewSessionStore(redisClient, redisTTL)
	} else {
		store = memory.NewSessionStore()
	}

	if cfg.GeminiAPIKey() == "" {
		log.Printf("GEMINI_API_KEY not set; recommendations will report a configuration error")
	}
	client := gemini.NewClient(cfg.GeminiAPIKey(), geminiOptions(cfg)...)
	extractor := insight.NewExtractor(client)

	service := app.NewSurveyService(store, departments, extractor)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		// Writes can be held open by the blocking model call on submit.
		WriteTimeout: 120 * time.Second,
	}

	go func() {
		log.Printf("starting survey service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func geminiOptions(cfg config.Config) []gemini.Option {
	opts := []gemini.Option{}
	if cfg.Gemini.BaseURL != "" {
		opts = append(opts, gemini.WithBaseURL(cfg.Gemini.BaseURL))
	}
	if cfg.Gemini.Model != "" {
		opts = append(opts, gemini.WithModel(cfg.Gemini.Model))
	}
	if timeout := config.TTLDuration(cfg.Gemini.Timeout, 0); timeout > 0 {
		opts = append(opts, gemini.WithTimeout(timeout))
	}
	return opts
}
