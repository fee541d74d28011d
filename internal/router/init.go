package router

import (
	"github.com/colabore/colabore-api/internal/application"
	"github.com/colabore/colabore-api/internal/container"
	"github.com/colabore/colabore-api/internal/infrastructure/notify"
	pginfra "github.com/colabore/colabore-api/internal/infrastructure/postgres"
	"github.com/colabore/colabore-api/internal/infrastructure/refundqueue"
	handlers "github.com/colabore/colabore-api/internal/interface/http"
	"github.com/colabore/colabore-api/internal/router/modules"
)

type AccountDeps struct {
	Service        *application.Service
	UserHandler    *handlers.UserHandler
	AccountHandler *handlers.AccountHandler
}

func buildAccountDeps() AccountDeps {
	cfg := container.GetConfig()
	pool := container.GetPGPool()
	logger := container.GetLogger()

	users := pginfra.NewUserRepository(pool)
	contribs := pginfra.NewContributionRepository(pool)
	payments := pginfra.NewPaymentRepository(pool)
	projects := pginfra.NewProjectRepository(pool)
	unsubs := pginfra.NewUnsubscribeRepository(pool)
	credits := pginfra.NewCreditStore(pool)
	follows := pginfra.NewFollowStats(pool)
	extAuth := pginfra.NewAuthorizationLookup(pool)

	notifier := notify.NewQueueNotifier(container.GetRabbitPub())

	svc := &application.Service{
		Users:         users,
		Payments:      payments,
		Subscriptions: application.NewSubscriptions(unsubs, contribs),
		ResetTokens:   application.NewResetTokenService(users, cfg.ResetTokenTTL, logger),
		Ledger:        application.NewCreditLedger(credits),
		Refunds:       application.NewRefundFilter(cfg.RefundGateway),
		RefundQueue:   refundqueue.New(container.GetRedis()),
		Lifecycle:     application.NewLifecycle(users, contribs, notifier, application.ConfirmedEmailPolicy{}, logger),
		Validator:     application.NewProfileValidator(users, projects, contribs, cfg.ReservedPermalinkList()),
		Analytics:     application.NewAnalytics(contribs, projects, follows, extAuth),
		Notifier:      notifier,

		JWT:              container.GetJWT(),
		Redis:            container.GetRedis(),
		Logger:           logger,
		ES:               container.GetES(),
		ESAnalyticsIndex: cfg.ESAnalyticsIndex,
		ResetLinkBase:    cfg.ResetPasswordURL,
	}

	userHandler := handlers.NewUserHandler(svc, logger, cfg.CookieDomain, cfg.CookieSecure)
	accountHandler := handlers.NewAccountHandler(svc, logger)

	return AccountDeps{
		Service:        svc,
		UserHandler:    userHandler,
		AccountHandler: accountHandler,
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildAccountDeps()
	r.Add(modules.NewUserModule(deps.UserHandler, container.GetJWT()))
	r.Add(modules.NewAccountModule(deps.AccountHandler, container.GetJWT()))
	r.Add(modules.NewDebugModule())
}
