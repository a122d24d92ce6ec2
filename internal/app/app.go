package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/campuseats/freefood-backend/internal/auth"
	"github.com/campuseats/freefood-backend/internal/config"
	"github.com/campuseats/freefood-backend/internal/docstore"
	"github.com/campuseats/freefood-backend/internal/docstore/memory"
	"github.com/campuseats/freefood-backend/internal/docstore/mongo"
	"github.com/campuseats/freefood-backend/internal/docstore/postgres"
	"github.com/campuseats/freefood-backend/internal/registry"
	"github.com/campuseats/freefood-backend/internal/repository"
	"github.com/campuseats/freefood-backend/internal/service/authflow"
	"github.com/campuseats/freefood-backend/internal/service/event"
	"github.com/campuseats/freefood-backend/internal/service/identity"
	"github.com/campuseats/freefood-backend/internal/service/stats"
	"github.com/campuseats/freefood-backend/internal/validation"
	"github.com/campuseats/freefood-backend/pkg/ctxutil"
)

// App is the assembled application: the document store behind the
// configured driver and every service wired on top of it.
type App struct {
	Log      *slog.Logger
	Store    docstore.Store
	Tokens   *auth.TokenManager
	Registry *registry.Service
	Identity *identity.Service
	Events   *event.Service
	Stats    *stats.Service

	cfg   *config.Config
	close func(ctx context.Context) error
}

// New opens the configured store and wires the services together.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	rules := validation.NewRules(cfg.Campus.EmailDomain, cfg.Campus.ReservedUsernames())
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.SessionTTL)

	eventsRepo := repository.NewEvents(store)
	accountsRepo := repository.NewAccounts(store)
	reservationsRepo := repository.NewReservations(store)
	boardRepo := repository.NewLeaderboard(store)

	registrySvc := registry.NewService(logger, reservationsRepo, rules)
	statsSvc := stats.NewService(logger, eventsRepo, boardRepo)
	eventSvc := event.NewService(logger, eventsRepo, statsSvc)
	identitySvc := identity.NewService(logger, accountsRepo, registrySvc, eventSvc, statsSvc, tokens, rules, cfg.Auth)

	return &App{
		Log:      logger,
		Store:    store,
		Tokens:   tokens,
		Registry: registrySvc,
		Identity: identitySvc,
		Events:   eventSvc,
		Stats:    statsSvc,
		cfg:      cfg,
		close:    closeStore,
	}, nil
}

// NewAuthFlow creates a per-client auth flow. deliver receives debounced
// username-availability results and may be nil.
func (a *App) NewAuthFlow(deliver func(authflow.AvailabilityResult)) *authflow.Flow {
	var debouncer *authflow.Debouncer
	if deliver != nil {
		debouncer = authflow.NewDebouncer(a.cfg.Auth.AvailabilityDebounce, a.Registry, deliver)
	}
	return authflow.NewFlow(a.Log, a.Identity, debouncer)
}

// Authenticate validates a session token and returns a context carrying
// the account id, for handlers downstream to pick up via ctxutil.
func (a *App) Authenticate(ctx context.Context, sessionToken string) (context.Context, error) {
	accountID, err := a.Tokens.ValidateSessionToken(sessionToken)
	if err != nil {
		return ctx, fmt.Errorf("authenticate: %w", err)
	}
	return ctxutil.WithAccountID(ctx, accountID), nil
}

// Close releases the store connection, if the driver holds one.
func (a *App) Close(ctx context.Context) error {
	if a.close == nil {
		return nil
	}
	return a.close(ctx)
}

// openStore builds the document store for the configured driver.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (docstore.Store, func(ctx context.Context) error, error) {
	logger.Info("opening document store", slog.String("driver", cfg.Store.Driver))

	switch cfg.Store.Driver {
	case "memory":
		return memory.New(), nil, nil

	case "postgres":
		if err := postgres.Migrate(ctx, cfg.Database.DSN); err != nil {
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		closeStore := func(context.Context) error {
			pool.Close()
			return nil
		}
		return postgres.New(pool), closeStore, nil

	case "mongo":
		store, err := mongo.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
