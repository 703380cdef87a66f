package dashboard

import (
	"fmt"
	"time"

	"github.com/annisazulfa99/inventaris/internal/repository"
	"github.com/annisazulfa99/inventaris/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// Stats is the dashboard counter set the UI polls for.
type Stats struct {
	TotalItems       int       `json:"total_items"`
	AvailableUnits   int       `json:"available_units"`
	PendingBorrows   int       `json:"pending_borrows"`
	ActiveBorrows    int       `json:"active_borrows"`
	OverdueBorrows   int       `json:"overdue_borrows"`
	ReportsInProcess int       `json:"reports_in_process"`
	RefreshedAt      time.Time `json:"refreshed_at"`
}

type reportCounter interface {
	CountByStatus(status string) (int, error)
}

type StatsRepository struct {
	repository *repository.Repository
	reports    reportCounter
}

func NewStatsRepository(r *repository.Repository, reports reportCounter) *StatsRepository {
	return &StatsRepository{repository: r, reports: reports}
}

func (r *StatsRepository) GetStats() (*Stats, error) {
	stats := Stats{RefreshedAt: time.Now()}

	itemQuery := r.repository.GoquDBWrapper.
		From("barang").
		Select(
			goqu.COUNT("*").As("total_items"),
			goqu.COALESCE(goqu.SUM("jumlah_tersedia"), 0).As("available_units"),
		)
	var itemCounts struct {
		TotalItems     int `db:"total_items"`
		AvailableUnits int `db:"available_units"`
	}
	if _, err := itemQuery.Executor().ScanStruct(&itemCounts); err != nil {
		return nil, fmt.Errorf("failed to count barang: %w", err)
	}
	stats.TotalItems = itemCounts.TotalItems
	stats.AvailableUnits = itemCounts.AvailableUnits

	var err error
	if stats.PendingBorrows, err = r.countBorrows(goqu.Ex{"status_barang": models.BorrowStatusPending}); err != nil {
		return nil, err
	}
	if stats.ActiveBorrows, err = r.countBorrows(goqu.Ex{"status_barang": models.BorrowStatusActive}); err != nil {
		return nil, err
	}

	overdueQuery := r.repository.GoquDBWrapper.
		From("borrow").
		Select(goqu.COUNT("*")).
		Where(
			goqu.Ex{"status_barang": models.BorrowStatusActive},
			goqu.I("dl_kembali").Lt(goqu.L("CURRENT_DATE")),
		)
	if _, err := overdueQuery.Executor().ScanVal(&stats.OverdueBorrows); err != nil {
		return nil, fmt.Errorf("failed to count overdue borrows: %w", err)
	}

	if stats.ReportsInProcess, err = r.reports.CountByStatus(models.ReportStatusProcessing); err != nil {
		return nil, fmt.Errorf("failed to count laporan: %w", err)
	}

	return &stats, nil
}

func (r *StatsRepository) countBorrows(condition goqu.Ex) (int, error) {
	var count int
	query := r.repository.GoquDBWrapper.
		From("borrow").
		Select(goqu.COUNT("*")).
		Where(condition)

	if _, err := query.Executor().ScanVal(&count); err != nil {
		return 0, fmt.Errorf("failed to count borrows: %w", err)
	}

	return count, nil
}
