package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tutejaLucky/docExtract/internal/pipeline"
)

const defaultRequestTimeout = 3 * time.Minute

// Submitter processes one saved document.
type Submitter interface {
	Submit(ctx context.Context, req pipeline.SubmitRequest) (*pipeline.Submission, error)
}

// Pinger reports store reachability.
type Pinger interface {
	HealthCheck(ctx context.Context, timeout time.Duration) error
}

// Server is the HTTP front of the extraction pipeline.
type Server struct {
	logger         *slog.Logger
	submitter      Submitter
	store          Pinger // nil when reconciliation is disabled
	uploadDir      string
	requestTimeout time.Duration
}

func New(logger *slog.Logger, submitter Submitter, store Pinger, uploadDir string, requestTimeout time.Duration) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	return &Server{
		logger:         logger,
		submitter:      submitter,
		store:          store,
		uploadDir:      uploadDir,
		requestTimeout: requestTimeout,
	}
}

// Router builds the gin engine with middleware and routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(s.logger), Recovery(s.logger))
	r.MaxMultipartMemory = 32 << 20

	r.GET("/health", s.Health)
	r.POST("/upload", s.Upload)
	return r
}
