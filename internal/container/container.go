// Package container wires the application together with samber/do provider
// packages. Each XxxPackage registers the providers for one concern; binaries
// compose the packages they need.
package container

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/clicks"
	"github.com/serroba/shortlink/internal/handlers"
	"github.com/serroba/shortlink/internal/messaging"
	"github.com/serroba/shortlink/internal/middleware"
	"github.com/serroba/shortlink/internal/shortener"
	"github.com/serroba/shortlink/internal/store"
	"go.uber.org/zap"
)

// Options is the configuration surface, populated by humacli from flags and
// environment variables.
type Options struct {
	Port          int    `default:"8888"    help:"Port to listen on"                                               short:"p"`
	BaseURL       string `default:""        help:"Public base URL for short links (default http://localhost:PORT)"`
	DatabaseURL   string `default:""        help:"PostgreSQL connection string; in-memory store when empty"`
	RedisAddr     string `default:""        help:"Redis address for link cache and click stream; in-process when empty"`
	AllowedOrigin string `default:""        help:"Origin allowed to call the API cross-origin"`
	CacheTTL      int    `default:"300"     help:"Link cache TTL in seconds"`
	LogFormat     string `default:"console" help:"Log format: console or json"`
}

// clickStreamGroup is the Redis Streams consumer group name. The API server
// and the standalone consumer binary join the same group, so click events are
// distributed between them rather than duplicated.
const clickStreamGroup = "clicks-writer"

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the Redis client. Only invoked when another provider
// actually needs Redis.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{Addr: options.RedisAddr}), nil
	})
}

// PostgresPackage provides the pgx connection pool.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)

		pool, err := pgxpool.New(context.Background(), options.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}

		return pool, nil
	})
}

// StorePackage provides the shortener.Repository: Postgres when configured,
// in-memory otherwise, with the Redis cache decorator layered on top when a
// Redis address is set.
func StorePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortener.Repository, error) {
		options := do.MustInvoke[*Options](i)

		var repo shortener.Repository

		if options.DatabaseURL != "" {
			pool := do.MustInvoke[*pgxpool.Pool](i)
			repo = store.NewPostgresStore(pool)
		} else {
			repo = store.NewMemoryStore()
		}

		if options.RedisAddr != "" {
			client := do.MustInvoke[*redis.Client](i)
			ttl := time.Duration(options.CacheTTL) * time.Second
			repo = store.NewCachedStore(repo, client, ttl)
		}

		return repo, nil
	})
}

// MessagingPackage provides the click-event transport: Redis Streams when a
// Redis address is configured, an in-process GoChannel otherwise. The typed
// click publish function is derived here.
func MessagingPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*gochannel.GoChannel, error) {
		return gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 1024},
			watermill.NopLogger{},
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		options := do.MustInvoke[*Options](i)

		if options.RedisAddr == "" {
			return messaging.NewPublisherGroup(do.MustInvoke[*gochannel.GoChannel](i)), nil
		}

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: do.MustInvoke[*redis.Client](i),
		}, watermill.NopLogger{})
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (message.Subscriber, error) {
		options := do.MustInvoke[*Options](i)

		if options.RedisAddr == "" {
			// GoChannel delivers only to subscribers of the same instance,
			// so publisher and subscriber must share it.
			return do.MustInvoke[*gochannel.GoChannel](i), nil
		}

		return redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        do.MustInvoke[*redis.Client](i),
			ConsumerGroup: clickStreamGroup,
		}, watermill.NopLogger{})
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[shortener.ClickEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[shortener.ClickEvent](group.Publisher(), clicks.Topic), nil
	})
}

// ConsumerGroupPackage provides the consumer group persisting click events.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)
		subscriber := do.MustInvoke[message.Subscriber](i)
		repo := do.MustInvoke[shortener.Repository](i)

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(
			subscriber,
			clicks.Topic,
			clicks.NewPersistHandler(repo, logger),
			logger,
		))

		return group, nil
	})
}

// HTTPPackage provides the router and the huma API with all routes
// registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*chi.Mux, error) {
		options := do.MustInvoke[*Options](i)

		router := chi.NewMux()
		router.Use(middleware.CORS(options.AllowedOrigin))

		return router, nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		repo := do.MustInvoke[shortener.Repository](i)
		publishClick := do.MustInvoke[messaging.Publish[shortener.ClickEvent]](i)
		router := do.MustInvoke[*chi.Mux](i)

		api := humachi.New(router, huma.DefaultConfig("Shortlink", "1.0.0"))
		api.UseMiddleware(middleware.RequestMeta(api))

		generator, err := shortener.NewCodeGenerator()
		if err != nil {
			return nil, err
		}

		baseURL := options.BaseURL
		if baseURL == "" {
			baseURL = fmt.Sprintf("http://localhost:%d", options.Port)
		}

		urlHandler := handlers.NewURLHandler(
			shortener.NewAllocator(repo, generator),
			shortener.NewResolver(repo),
			shortener.NewStatsAggregator(repo),
			baseURL,
			publishClick,
			logger,
		)

		healthHandler := handlers.NewHealthHandler(healthDeps(i, options))

		handlers.RegisterRoutes(api, urlHandler, healthHandler)

		return api, nil
	})
}

func healthDeps(i *do.Injector, options *Options) map[string]handlers.Pinger {
	deps := make(map[string]handlers.Pinger)

	if options.RedisAddr != "" {
		client := do.MustInvoke[*redis.Client](i)
		deps["redis"] = handlers.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
	}

	if options.DatabaseURL != "" {
		pool := do.MustInvoke[*pgxpool.Pool](i)
		deps["postgres"] = handlers.PingFunc(pool.Ping)
	}

	return deps
}
