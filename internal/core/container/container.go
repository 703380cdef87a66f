package container

import (
	"database/sql"
	"time"

	"github.com/annisazulfa99/inventaris/internal/activitylog"
	"github.com/annisazulfa99/inventaris/internal/borrows"
	"github.com/annisazulfa99/inventaris/internal/dashboard"
	"github.com/annisazulfa99/inventaris/internal/institutions"
	"github.com/annisazulfa99/inventaris/internal/items"
	"github.com/annisazulfa99/inventaris/internal/reports"
	"github.com/annisazulfa99/inventaris/internal/repository"
	"github.com/annisazulfa99/inventaris/internal/users"
	"github.com/annisazulfa99/inventaris/pkg/activity"
	"github.com/annisazulfa99/inventaris/pkg/security"

	"github.com/redis/go-redis/v9"
)

type Container struct {
	Repository         *repository.Repository
	ActivityLog        *activity.Logger
	LoginHandler       *security.LoginHandler
	ItemHandler        *items.ItemHandler
	BorrowHandler      *borrows.BorrowHandler
	ReportHandler      *reports.ReportHandler
	UserHandler        *users.UsersHandler
	InstitutionHandler *institutions.InstitutionHandler
	ActivityLogHandler *activitylog.ActivityLogHandler
	DashboardHandler   *dashboard.DashboardHandler
	StatsRefresher     *dashboard.Refresher
}

func NewAppContainer(db *sql.DB, redisClient *redis.Client) *Container {
	repo := repository.NewRepository(db)
	activityLogRepo := activitylog.NewRepository(repo)
	activityLog := activity.NewLogger(activityLogRepo)
	loginHandler := security.NewLoginHandler(repo, activityLog)
	itemRepo := items.NewRepository(repo)
	itemHandler := items.NewItemHandler(itemRepo, activityLog)
	borrowRepo := borrows.NewRepository(repo)
	borrowService := borrows.NewBorrowService(repo, borrowRepo)
	borrowHandler := borrows.NewHandler(borrowService, borrowRepo, itemRepo, activityLog)
	reportRepo := reports.NewRepository(repo)
	reportHandler := reports.NewHandler(reportRepo, borrowRepo, itemRepo, activityLog)
	userRepo := users.NewRepository(repo)
	userHandler := users.NewHandler(userRepo, activityLog)
	institutionRepo := institutions.NewRepository(repo)
	institutionHandler := institutions.NewHandler(institutionRepo, itemRepo)
	activityLogHandler := activitylog.NewHandler(activityLogRepo)
	statsRepo := dashboard.NewStatsRepository(repo, reportRepo)
	statsCache := dashboard.NewStatsCache(redisClient, 5*time.Minute)
	dashboardHandler := dashboard.NewDashboardHandler(statsRepo, statsCache)
	statsRefresher := dashboard.NewRefresher(statsRepo, statsCache, time.Minute)

	return &Container{
		Repository:         repo,
		ActivityLog:        activityLog,
		LoginHandler:       loginHandler,
		ItemHandler:        itemHandler,
		BorrowHandler:      borrowHandler,
		ReportHandler:      reportHandler,
		UserHandler:        userHandler,
		InstitutionHandler: institutionHandler,
		ActivityLogHandler: activityLogHandler,
		DashboardHandler:   dashboardHandler,
		StatsRefresher:     statsRefresher,
	}
}
