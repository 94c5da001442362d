package docstrange

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// Config for the extraction service client.
type Config struct {
	BaseURL string        // service root, e.g. https://extract.example.com/api/v1
	APIKey  string        // if empty, falls back to env EXTRACTOR_API_KEY
	Timeout time.Duration // http client timeout
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("EXTRACTOR_API_KEY")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}
}
