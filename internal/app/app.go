// Package app wires the console: config, logging, telemetry, the API client and its
// interceptors, the domain services, the session store and the route guard.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"numis/console/internal/api"
	"numis/console/internal/api/interceptors"
	auditrepo "numis/console/internal/audit/repository"
	auditservice "numis/console/internal/audit/service"
	"numis/console/internal/coin"
	coinrepo "numis/console/internal/coin/repository"
	coinservice "numis/console/internal/coin/service"
	"numis/console/internal/config"
	"numis/console/internal/console"
	dashboardrepo "numis/console/internal/dashboard/repository"
	dashboardservice "numis/console/internal/dashboard/service"
	identityrepo "numis/console/internal/identity/repository"
	identityservice "numis/console/internal/identity/service"
	"numis/console/internal/logging"
	mfarepo "numis/console/internal/mfa/repository"
	mfaservice "numis/console/internal/mfa/service"
	"numis/console/internal/policy/engine"
	"numis/console/internal/session"
	sessionrepo "numis/console/internal/session/repository"
	"numis/console/internal/telemetry"
	otelsetup "numis/console/internal/telemetry/otel"
	userrepo "numis/console/internal/user/repository"
	userservice "numis/console/internal/user/service"
)

// App holds the wired services. Create with New and release with Close.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Client    *api.Client
	Sessions  *session.Store
	Flow      *identityservice.AuthFlow
	Users     *userservice.UserService
	Coins     *coinservice.CoinService
	Dashboard *dashboardservice.DashboardService
	Audit     *auditservice.AuditService
	MFA       *mfaservice.MFAService
	Access    *engine.OPAEvaluator
	Emitter   telemetry.EventEmitter
	Presenter *coin.Presenter

	providers *otelsetup.Providers
}

// New builds the App from cfg. The session store starts loading in the background; callers
// that need the session wait on Sessions.Ready, as the navigator does.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	providers, err := otelsetup.NewProviders(ctx, cfg.OTLPEndpoint, cfg.ServiceName, cfg.OTLPInsecure)
	if err != nil {
		logger.Warn("app: telemetry disabled", zap.Error(err))
		providers, _ = otelsetup.NewProviders(ctx, "", cfg.ServiceName, false)
	}
	if providers.Exporting {
		providers.SetGlobal()
	}
	emitter := otelsetup.NewEventEmitter(providers.LoggerProvider)

	sessionFile, err := cfg.SessionFile()
	if err != nil {
		_ = providers.Shutdown(ctx)
		return nil, err
	}
	sessions := session.NewStore(sessionrepo.NewFileStore(sessionFile), logging.Named(logger, "session"))

	transport := interceptors.Chain(nil,
		interceptors.RequestID(),
		interceptors.Bearer(sessions),
		interceptors.Logging(logging.Named(logger, "api")),
		interceptors.Telemetry(providers.TracerProvider, providers.MeterProvider),
	)
	client := api.NewClient(cfg.APIURL, cfg.AssetURL, transport, cfg.Timeout())

	access, err := engine.NewOPAEvaluator(ctx, logging.Named(logger, "policy"))
	if err != nil {
		_ = providers.Shutdown(ctx)
		return nil, fmt.Errorf("route policy: %w", err)
	}

	users := userservice.NewUserService(userrepo.NewAPIRepository(client))
	a := &App{
		Config:    cfg,
		Logger:    logger,
		Client:    client,
		Sessions:  sessions,
		Flow:      identityservice.NewAuthFlow(identityrepo.NewAPIRepository(client), sessions, emitter, logging.Named(logger, "auth"), cfg.ChallengeTTL()),
		Users:     users,
		Coins:     coinservice.NewCoinService(coinrepo.NewAPIRepository(client), logging.Named(logger, "coin")),
		Dashboard: dashboardservice.NewDashboardService(dashboardrepo.NewAPIRepository(client)),
		Audit:     auditservice.NewAuditService(auditrepo.NewAPIRepository(client)),
		MFA:       mfaservice.NewMFAService(mfarepo.NewAPIRepository(client), users, logging.Named(logger, "mfa")),
		Access:    access,
		Emitter:   emitter,
		Presenter: coin.NewPresenter(cfg.AssetURL, cfg.Tag(), cfg.Currency, cfg.CurrencySymbol),
		providers: providers,
	}
	go sessions.Init(ctx)
	return a, nil
}

// Console returns a console drawing on out and reading from in.
func (a *App) Console(out io.Writer, in console.Prompter) *console.Console {
	qrDir := a.Config.StateDir
	if file, err := a.Config.SessionFile(); err == nil {
		qrDir = filepath.Dir(file)
	}
	scr := console.NewScreen(out, in, a.Presenter, a.Config.DateTimeLayout)
	return console.New(console.Deps{
		Flow:      a.Flow,
		Sessions:  a.Sessions,
		Access:    a.Access,
		Coins:     a.Coins,
		Summaries: a.Dashboard,
		Audit:     a.Audit,
		MFA:       a.MFA,
		Users:     a.Users,
		QRDir:     qrDir,
		Emitter:   a.Emitter,
		Logger:    logging.Named(a.Logger, "console"),
	}, scr)
}

// Health is the result of Check.
type Health struct {
	Server *api.HealthStatus
	// ServerErr is set when the backend root did not answer.
	ServerErr error
	// PolicyErr is set when the route policy cannot be evaluated.
	PolicyErr error
}

// OK reports whether every check passed.
func (h *Health) OK() bool { return h.ServerErr == nil && h.PolicyErr == nil }

// Check probes the backend root and the route policy.
func (a *App) Check(ctx context.Context) *Health {
	h := &Health{}
	h.Server, h.ServerErr = a.Client.Health(ctx)
	h.PolicyErr = a.Access.HealthCheck(ctx)
	return h
}

// Close stops the session store, flushes telemetry and syncs the logger.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.Sessions.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.providers.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("telemetry shutdown: %w", err))
	}
	_ = a.Logger.Sync()
	return errors.Join(errs...)
}
