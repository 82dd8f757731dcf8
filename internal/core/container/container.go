package container

import (
	"database/sql"

	auditLogRepo "github.com/GThiruAishwarya/kristaball/internal/auditlog"
	"github.com/GThiruAishwarya/kristaball/internal/bases"
	"github.com/GThiruAishwarya/kristaball/internal/categories"
	"github.com/GThiruAishwarya/kristaball/internal/inventory/assets"
	"github.com/GThiruAishwarya/kristaball/internal/inventory/dashboard"
	"github.com/GThiruAishwarya/kristaball/internal/inventory/ledger"
	"github.com/GThiruAishwarya/kristaball/internal/inventory/movements"
	"github.com/GThiruAishwarya/kristaball/internal/repository"
	"github.com/GThiruAishwarya/kristaball/internal/users"
	"github.com/GThiruAishwarya/kristaball/pkg/auditlog"
	"github.com/GThiruAishwarya/kristaball/pkg/security"
)

// Container holds the wired application graph.
type Container struct {
	Repository       *repository.Repository
	AuditLog         *auditlog.Auditlog
	LoginHandler     *security.LoginHandler
	AssetHandler     *assets.AssetHandler
	LedgerHandler    *ledger.LedgerHandler
	MovementHandler  *movements.MovementHandler
	DashboardHandler *dashboard.DashboardHandler
	BaseHandler      *bases.BaseHandler
	CategoryHandler  *categories.CategoryHandler
	UserHandler      *users.UsersHandler
}

func NewAppContainer(db *sql.DB) *Container {
	repo := repository.NewRepository(db)
	auditStore := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(auditStore)

	assetsRepo := assets.NewRepository(repo)
	ledgerRepo := ledger.NewRepository(repo)
	movementService := movements.NewMovementService(assetsRepo, ledgerRepo, repo, auditLog)
	metricsService := dashboard.NewMetricsService(assetsRepo, ledgerRepo)

	baseRepo := bases.NewRepository(repo)
	categoryRepo := categories.NewRepository(repo)
	userRepo := users.NewRepository(repo)

	return &Container{
		Repository:       repo,
		AuditLog:         auditLog,
		LoginHandler:     security.NewLoginHandler(repo),
		AssetHandler:     assets.NewAssetHandler(assetsRepo, auditLog, auditStore),
		LedgerHandler:    ledger.NewLedgerHandler(ledgerRepo),
		MovementHandler:  movements.NewMovementHandler(movementService),
		DashboardHandler: dashboard.NewDashboardHandler(metricsService),
		BaseHandler:      bases.NewBaseHandler(baseRepo),
		CategoryHandler:  categories.NewCategoryHandler(categoryRepo),
		UserHandler:      users.NewHandler(userRepo),
	}
}
