package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/capricorn-med/litreview/internal/config"
	"github.com/capricorn-med/litreview/internal/events"
	"github.com/capricorn-med/litreview/internal/extraction"
	"github.com/capricorn-med/litreview/internal/handlers"
	"github.com/capricorn-med/litreview/internal/llm"
	"github.com/capricorn-med/litreview/internal/service"
	"github.com/capricorn-med/litreview/internal/source"
	"github.com/capricorn-med/litreview/internal/store"
	"github.com/capricorn-med/litreview/pkg/metrics"
	"github.com/capricorn-med/litreview/pkg/middleware"
	"go.uber.org/zap"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg      *config.Config
	store    store.Store
	listener net.Listener
	producer *events.Producer
}

// New returns a new instance of a litreview server.
func New(
	cfg *config.Config,
	store store.Store,
	listener net.Listener,
	producer *events.Producer,
) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		listener: listener,
		producer: producer,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	journalImpact, err := s.store.JournalImpact().Map(ctx)
	if err != nil {
		return err
	}
	zap.S().Named("api_server").Infof("loaded %d journal impact scores", len(journalImpact))

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.Service.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	llmClient := llm.NewHTTPClient(s.cfg.LLM.Endpoint, s.cfg.LLM.Model, s.cfg.LLM.Timeout)
	sourceClient := source.NewHTTPClient(s.cfg.LLM.SourceAddress, s.cfg.LLM.SourceTimeout)

	retrievalService := service.NewRetrievalService(
		s.cfg,
		sourceClient,
		extraction.NewExtractor(llmClient),
		s.store,
		s.producer,
		journalImpact,
	)

	h := handlers.NewServiceHandler(
		retrievalService,
		service.NewExtractionService(llmClient),
		service.NewAnalysisService(llmClient),
		service.NewFeedbackService(s.store),
	)

	router.Get("/health", h.Health)
	router.Route("/api/v1alpha1", func(r chi.Router) {
		r.Post("/retrieve", h.RetrieveArticles)
		r.Post("/extract", h.ExtractCase)
		r.Post("/analysis", h.ComposeAnalysis)
		r.Post("/feedback", h.CreateFeedback)
	})

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}
