package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/Belphemur/ShowFinder/internal/cache"
	"github.com/Belphemur/ShowFinder/internal/config"
	"github.com/Belphemur/ShowFinder/internal/models"
	"github.com/Belphemur/ShowFinder/internal/parser"
)

// maxResponseBytes caps an upstream body.
const maxResponseBytes = 16 << 20

// Client defines the interface for querying the TVmaze API
type Client interface {
	// SearchShows looks term up on /search/shows and returns one record per
	// upstream entry, in upstream order. The term is sent as-is.
	SearchShows(ctx context.Context, term string) ([]models.Show, error)

	// GetEpisodes returns every episode of the show, in upstream order.
	GetEpisodes(ctx context.Context, showID int) ([]models.Episode, error)

	// Close releases any resources held by the client (e.g., cache connections).
	Close() error
}

// client implements the Client interface
type client struct {
	httpClient    *http.Client
	baseURL       string
	userAgent     string
	cache         cache.Cache // nil when response caching is disabled
	maxBodyBytes  int64
	showParser    parser.Parser[models.Show]
	episodeParser parser.Parser[models.Episode]
}

// NewClient creates a new client instance with proxy configuration if provided
func NewClient(cfg *config.Config) Client {
	logger := config.GetLogger()
	timeout := config.ParseDuration("client_timeout", cfg.ClientTimeout, 30*time.Second)

	// Clone DefaultTransport to keep its pooling, timeouts and HTTP/2 settings
	baseTransport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.ProxyConnectionString != "" {
		proxyURL, err := url.Parse(cfg.ProxyConnectionString)
		if err != nil {
			logger.Warn().Err(err).Str("proxy", cfg.ProxyConnectionString).Msg("Invalid proxy URL, continuing without proxy")
		} else {
			baseTransport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = config.GetUserAgent()
	}

	return &client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: newCompressionTransport(baseTransport),
		},
		baseURL:       cfg.APIURL,
		maxBodyBytes:  maxResponseBytes,
		userAgent:     userAgent,
		cache:         newResponseCache(cfg),
		showParser:    parser.NewShowSearchParser(),
		episodeParser: parser.NewEpisodeParser(),
	}
}

// newResponseCache builds the upstream response cache, or returns nil when
// cache.ttl is unset or the provider cannot be created.
func newResponseCache(cfg *config.Config) cache.Cache {
	logger := config.GetLogger()
	ttl := config.ParseDuration("cache.ttl", cfg.Cache.TTL, 0)
	if ttl <= 0 {
		return nil
	}

	c, err := cache.New(cfg.Cache.Provider, cache.ProviderConfig{
		Size:          cfg.Cache.Size,
		TTL:           ttl,
		Logger:        cache.NewZerologLogger(logger),
		RedisAddress:  cfg.Cache.Redis.Address,
		RedisPassword: cfg.Cache.Redis.Password,
		RedisDB:       cfg.Cache.Redis.DB,
		Group:         "tvmaze",
	})
	if err != nil {
		logger.Warn().Err(err).Str("provider", cfg.Cache.Provider).Msg("Response cache disabled")
		return nil
	}

	logger.Info().Str("provider", cfg.Cache.Provider).Int("size", cfg.Cache.Size).Dur("ttl", ttl).Msg("Response cache enabled")
	return c
}

// Close releases any resources held by the client, such as cache connections.
func (c *client) Close() error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Close()
}
