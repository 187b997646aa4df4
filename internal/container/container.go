package container

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"signin-screen/internal/config"
	"signin-screen/internal/observe"
	"signin-screen/internal/provider"
	"signin-screen/internal/provider/google"
	"signin-screen/internal/session"
	"signin-screen/pkg/logger"
	"signin-screen/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *logger.Logger
	RedisClient  *redis.Client
	Registry     *prometheus.Registry
	Provider     *google.Provider
	Configurator *session.Configurator
	Controller   *session.Controller
	Tally        *observe.TallyRecorder
}

// New creates a new dependency injection container. The provider is built
// but not configured; call Configurator.Run before serving.
func New(cfg *config.Config, logger *logger.Logger) (*Container, error) {
	// Initialize Redis client if Redis URL is configured
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, logger.Logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize Redis client, proceeding without outcome tallies")
		} else {
			redisClient = client
			logger.Info("Redis client initialized successfully")
		}
	} else {
		logger.Info("Redis URL not configured, proceeding without outcome tallies")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	recorders := observe.Multi{
		observe.NewLogRecorder(logger),
		observe.NewMetricsRecorder(registry),
	}

	var tally *observe.TallyRecorder
	if redisClient != nil {
		tally = observe.NewTallyRecorder(redisClient, redisClient.KeyBuilder.KeyOutcomes(), logger)
		recorders = append(recorders, tally)
	}

	googleProvider := google.New(google.Options{
		ClientSecret:    cfg.GoogleClientSecret,
		RedirectURL:     cfg.RedirectURL(),
		RevokeOnSignOut: cfg.RevokeOnSignOut,
		FlowTimeout:     cfg.SignInFlowTimeout,
		Logger:          logger,
	})

	configurator := session.NewConfigurator(googleProvider, provider.Config{
		ClientID:      cfg.GoogleClientID,
		OfflineAccess: cfg.GoogleOfflineAccess,
	})

	return &Container{
		Config:       cfg,
		Logger:       logger,
		RedisClient:  redisClient,
		Registry:     registry,
		Provider:     googleProvider,
		Configurator: configurator,
		Controller:   session.NewController(googleProvider, recorders),
		Tally:        tally,
	}, nil
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetRedisClient returns the Redis client (may be nil if not configured)
func (c *Container) GetRedisClient() *redis.Client {
	return c.RedisClient
}

// HasRedis returns true if Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}
