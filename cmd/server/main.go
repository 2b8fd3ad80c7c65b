package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	billingmod "github.com/iqstart/eduedu/modules/billing"
	"github.com/iqstart/eduedu/pkg/config"
	"github.com/iqstart/eduedu/pkg/httpserver"
	"github.com/iqstart/eduedu/pkg/logger"
	"github.com/iqstart/eduedu/pkg/pg"
	"github.com/iqstart/eduedu/pkg/redis"
	"github.com/iqstart/eduedu/pkg/requestid"
	"github.com/iqstart/eduedu/pkg/subscription"
)

type appConfig struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"APP_NAME" envDefault:"eduedu"`
	PlansPath   string `env:"PLANS_PATH"` // optional YAML catalog file; built-in plans when empty
}

func main() {
	ctx := context.Background()

	var appCfg appConfig
	config.MustLoad(&appCfg)

	log := logger.New(
		logger.WithEnvironment(appCfg.Environment, appCfg.ServiceName),
		logger.WithContextExtractors(requestIDExtractor),
	)
	logger.SetAsDefault(log)

	if err := run(ctx, appCfg, log); err != nil {
		log.ErrorContext(ctx, "server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, appCfg appConfig, log *slog.Logger) error {
	var pgCfg pg.Config
	config.MustLoad(&pgCfg)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		return err
	}

	var stripeCfg subscription.StripeConfig
	config.MustLoad(&stripeCfg)

	provider, err := subscription.NewStripeProvider(stripeCfg)
	if err != nil {
		return err
	}

	catalog, err := loadCatalog(appCfg.PlansPath)
	if err != nil {
		return err
	}

	opts := []subscription.ServiceOption{
		subscription.WithLogger(log),
		subscription.WithCheckoutTimeout(stripeCfg.Timeout),
	}

	readychecks := []func(context.Context) error{pg.Healthcheck(pool)}

	// Redis only backs best-effort event dedup; the service runs without it.
	var redisCfg redis.Config
	config.MustLoad(&redisCfg)
	if redisCfg.ConnectionURL != "" {
		rdb, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer rdb.Close()
		opts = append(opts, subscription.WithDeduplicator(subscription.NewRedisDeduplicator(rdb, 0)))
		readychecks = append(readychecks, redis.Healthcheck(rdb))
	}

	svc := subscription.NewService(catalog, provider, subscription.NewPgStore(pool), opts...)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", httpserver.HealthCheckHandler(log))
	r.Get("/ready", httpserver.HealthCheckHandler(log, readychecks...))

	// The auth gateway in front of this service validates sessions and
	// forwards the principal as trusted headers.
	r.With(principalFromHeaders).Mount("/", billingmod.Router(svc, log))

	var httpCfg httpserver.Config
	config.MustLoad(&httpCfg)

	server := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	return server.Run(ctx, r)
}

func loadCatalog(path string) (*subscription.Catalog, error) {
	if path != "" {
		return subscription.LoadCatalogFile(path)
	}
	return subscription.NewCatalog(subscription.DefaultPlans())
}

// principalFromHeaders picks up the principal the auth gateway injected.
// Requests without the headers (webhook deliveries included) pass through
// unauthenticated; endpoints that need a principal reject them.
func principalFromHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := subscription.Principal{
			ID:    r.Header.Get("X-Auth-User-ID"),
			Email: r.Header.Get("X-Auth-User-Email"),
		}
		if p.IsAuthenticated() {
			r = r.WithContext(subscription.SetPrincipalToContext(r.Context(), p))
		}
		next.ServeHTTP(w, r)
	})
}

func requestIDExtractor(ctx context.Context) (slog.Attr, bool) {
	if id := requestid.FromContext(ctx); id != "" {
		return slog.String("request_id", id), true
	}
	return slog.Attr{}, false
}
