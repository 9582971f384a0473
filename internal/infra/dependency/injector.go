// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/household-ledger/backend/config"
	"github.com/household-ledger/backend/internal/application/adapter"
	"github.com/household-ledger/backend/internal/application/usecase/auth"
	basicexpense "github.com/household-ledger/backend/internal/application/usecase/basic_expense"
	"github.com/household-ledger/backend/internal/application/usecase/category"
	"github.com/household-ledger/backend/internal/application/usecase/report"
	"github.com/household-ledger/backend/internal/application/usecase/transaction"
	"github.com/household-ledger/backend/internal/infra/server/router"
	"github.com/household-ledger/backend/internal/integration/adapters"
	"github.com/household-ledger/backend/internal/integration/cache"
	"github.com/household-ledger/backend/internal/integration/entrypoint/controller"
	"github.com/household-ledger/backend/internal/integration/entrypoint/middleware"
	"github.com/household-ledger/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Router *router.Router
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient may be nil, in which case reports are not cached.
func NewInjector(
	cfg *config.Config,
	db *gorm.DB,
	redisClient *redis.Client,
	clock adapter.Clock,
	logger *zap.SugaredLogger,
) *Injector {
	// Create repositories
	userRepo := persistence.NewUserRepository(db)
	tokenRepo := persistence.NewTokenRepository(db, clock)
	categoryRepo := persistence.NewCategoryRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	basicExpenseRepo := persistence.NewBasicExpenseRepository(db)
	reportRepo := persistence.NewReportRepository(db, logger)

	reportCache := cache.NewNoopReportCache()
	if redisClient != nil {
		reportCache = cache.NewReportCache(redisClient, cfg.Redis.ReportCacheTTL)
	}

	// Create adapters/services
	passwordService := adapters.NewPasswordService()
	tokenService := adapters.NewTokenService(cfg.JWT, tokenRepo, clock)

	// Create auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)
	refreshTokenUseCase := auth.NewRefreshTokenUseCase(userRepo, tokenService)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService)

	// Create category use cases
	listCategoriesUseCase := category.NewListCategoriesUseCase(categoryRepo)
	createCategoryUseCase := category.NewCreateCategoryUseCase(categoryRepo, reportCache, logger)
	updateCategoryUseCase := category.NewUpdateCategoryUseCase(categoryRepo, reportCache, logger)
	deleteCategoryUseCase := category.NewDeleteCategoryUseCase(categoryRepo, reportCache, logger)

	// Create transaction use cases
	listTransactionsUseCase := transaction.NewListTransactionsUseCase(transactionRepo, categoryRepo)
	createTransactionUseCase := transaction.NewCreateTransactionUseCase(transactionRepo, categoryRepo, reportCache, logger)
	updateTransactionUseCase := transaction.NewUpdateTransactionUseCase(transactionRepo, categoryRepo, reportCache, logger)
	deleteTransactionUseCase := transaction.NewDeleteTransactionUseCase(transactionRepo, reportCache, logger)

	// Create basic expense use cases
	listBasicExpensesUseCase := basicexpense.NewListBasicExpensesUseCase(basicExpenseRepo, categoryRepo)
	createBasicExpenseUseCase := basicexpense.NewCreateBasicExpenseUseCase(basicExpenseRepo, categoryRepo, reportCache, logger)
	updateBasicExpenseUseCase := basicexpense.NewUpdateBasicExpenseUseCase(basicExpenseRepo, categoryRepo, reportCache, logger)
	deleteBasicExpenseUseCase := basicexpense.NewDeleteBasicExpenseUseCase(basicExpenseRepo, reportCache, logger)

	// Create report use cases
	aggregator := report.NewAggregator(logger)
	getSummaryUseCase := report.NewGetSummaryUseCase(reportRepo, reportCache, aggregator, logger)
	getBreakdownUseCase := report.NewGetBreakdownUseCase(reportRepo, clock)

	// Create controllers
	healthController := controller.NewHealthController(
		func() bool {
			sqlDB, err := db.DB()
			if err != nil {
				return false
			}
			return sqlDB.Ping() == nil
		},
		redisHealthChecker(redisClient),
	)

	authController := controller.NewAuthController(
		registerUseCase,
		loginUseCase,
		refreshTokenUseCase,
		logoutUseCase,
	)

	categoryController := controller.NewCategoryController(
		listCategoriesUseCase,
		createCategoryUseCase,
		updateCategoryUseCase,
		deleteCategoryUseCase,
	)

	transactionController := controller.NewTransactionController(
		listTransactionsUseCase,
		createTransactionUseCase,
		updateTransactionUseCase,
		deleteTransactionUseCase,
	)

	basicExpenseController := controller.NewBasicExpenseController(
		listBasicExpensesUseCase,
		createBasicExpenseUseCase,
		updateBasicExpenseUseCase,
		deleteBasicExpenseUseCase,
	)

	reportController := controller.NewReportController(
		getSummaryUseCase,
		getBreakdownUseCase,
	)

	// Create middleware
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	var loginRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		loginRateLimiter = middleware.NewRateLimiterWithConfig(1000, 1*time.Minute)
	} else {
		loginRateLimiter = middleware.NewRateLimiterWithConfig(cfg.RateLimit.LoginAttempts, cfg.RateLimit.LoginWindow)
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	r := router.NewRouter(
		healthController,
		authController,
		categoryController,
		transactionController,
		basicExpenseController,
		reportController,
		loginRateLimiter,
		authMiddleware,
	)

	return &Injector{
		Config: cfg,
		DB:     db,
		Redis:  redisClient,
		Router: r,
	}
}

func redisHealthChecker(client *redis.Client) func() bool {
	if client == nil {
		return nil
	}
	return func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return client.Ping(ctx).Err() == nil
	}
}
