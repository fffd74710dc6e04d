package music

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/GLH08/TuneBot/internal/config"
	"github.com/GLH08/TuneBot/internal/download"
	"github.com/GLH08/TuneBot/internal/hub"
	"github.com/GLH08/TuneBot/internal/logging"
	"github.com/GLH08/TuneBot/internal/script"
)

// Service bundles the protocol layer into the operations the CLI and other
// consumers call. All state it owns is injectable, so multiple instances do
// not interfere.
type Service struct {
	cfg         *config.Config
	logger      *slog.Logger
	hub         *hub.Client
	descriptors *hub.Cache
	executor    *hub.Executor
	downloader  *download.Downloader
}

// NewService wires a Service from configuration.
func NewService(cfg *config.Config, logger *slog.Logger) (*Service, error) {
	hubClient, err := hub.New(hub.Config{
		BaseURL: cfg.Hub.BaseURL,
		APIKey:  cfg.Hub.APIKey,
		Timeout: time.Duration(cfg.Hub.TimeoutSeconds) * time.Second,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	budget := time.Duration(cfg.Transform.BudgetMillis) * time.Millisecond
	expander := script.NewExpander(logger, budget)
	sandbox := script.NewSandbox(logger, budget)
	downloader := download.New(logger,
		download.WithMaxRetries(cfg.Download.MaxRetries),
		download.WithTimeout(time.Duration(cfg.Download.TimeoutSeconds)*time.Second))

	return &Service{
		cfg:         cfg,
		logger:      logging.NewComponentLogger(logger, "music"),
		hub:         hubClient,
		descriptors: hub.NewCache(hubClient),
		executor:    hub.NewExecutor(hubClient.HTTPClient(), expander, sandbox, logger),
		downloader:  downloader,
	}, nil
}

// ResetDescriptors drops all cached method descriptors.
func (s *Service) ResetDescriptors() {
	s.descriptors.Reset()
}

// DownloadAudio streams the resolved audio URL with retry and progress
// reporting. Empty bytes signal failure.
func (s *Service) DownloadAudio(ctx context.Context, url string, progress download.Progress) []byte {
	return s.downloader.Fetch(ctx, url, progress)
}

// DownloadBytes fetches a small asset (cover art, lyrics file) without retry.
func (s *Service) DownloadBytes(ctx context.Context, url string) []byte {
	if url == "" {
		return nil
	}
	return s.downloader.FetchOnce(ctx, url)
}

// execute runs one descriptor-driven operation, returning the normalized
// records or nil on any failure.
func (s *Service) execute(ctx context.Context, platform, operation string, vars script.Variables) []script.Record {
	ctx = logging.WithLogger(ctx, s.logger.With(
		slog.String(logging.FieldPlatform, platform),
		slog.String(logging.FieldOperation, operation)))
	desc, err := s.descriptors.Get(ctx, platform, operation)
	if err != nil {
		return nil
	}
	return s.executor.Execute(ctx, desc, vars)
}

// headContentLength probes the size of a remote payload.
func (s *Service) headContentLength(ctx context.Context, url string) int64 {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0
	}
	resp, err := s.hub.HTTPClient().Do(req)
	if err != nil {
		s.logger.Warn("content length probe failed", logging.Error(err))
		return 0
	}
	defer resp.Body.Close()
	if resp.ContentLength > 0 {
		return resp.ContentLength
	}
	return 0
}
