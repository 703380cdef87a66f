package reports

import (
	"errors"
	"fmt"
	"time"

	"github.com/annisazulfa99/inventaris/internal/repository"
	"github.com/annisazulfa99/inventaris/pkg/metadata"
	"github.com/annisazulfa99/inventaris/pkg/models"
	"github.com/annisazulfa99/inventaris/pkg/roles"

	"github.com/doug-martin/goqu/v9"
)

var ErrReportNotFound = errors.New("report not found")

type ReportRepository interface {
	PersistReport(peminjamanID int, kodeBarang string) (*models.Report, error)
	GetReport(reportID int) (*models.Report, error)
	GetReports(scope roles.Scope) ([]models.Report, error)
	GetReportsByStatus(status string, scope roles.Scope) ([]models.Report, error)
	UpdateStatus(reportID int, status string) error
	CountByStatus(status string) (int, error)
}

type reportRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *reportRepository {
	return &reportRepository{repository: r}
}

// PersistReport numbers and inserts the report in one transaction so
// the count-derived sequence stays gapless. Reports are never deleted,
// which keeps the numbers strictly increasing.
func (r *reportRepository) PersistReport(peminjamanID int, kodeBarang string) (*models.Report, error) {
	report := models.Report{
		PeminjamanID: peminjamanID,
		KodeBarang:   kodeBarang,
		Status:       models.ReportStatusProcessing,
		TglLaporan:   time.Now(),
	}

	err := r.repository.WithTransaction(func(tx *goqu.TxDatabase) error {
		var total int
		countQuery := tx.From("lapor").Select(goqu.COUNT("*"))
		if _, err := countQuery.Executor().ScanVal(&total); err != nil {
			return fmt.Errorf("failed to count laporan: %w", err)
		}

		report.NoLaporan = metadata.ReportNumber(total + 1)

		insertQuery := tx.Insert("lapor").
			Rows(goqu.Record{
				"no_laporan":    report.NoLaporan,
				"id_peminjaman": report.PeminjamanID,
				"kode_barang":   report.KodeBarang,
				"status":        report.Status,
				"tgl_laporan":   report.TglLaporan,
			}).
			Returning("id_laporan")

		if _, err := insertQuery.Executor().ScanVal(&report.ID); err != nil {
			return fmt.Errorf("failed to insert laporan: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return &report, nil
}

func (r *reportRepository) getReportQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(
			goqu.I("l.id_laporan").As("id_laporan"),
			goqu.I("l.no_laporan").As("no_laporan"),
			goqu.I("l.id_peminjaman").As("id_peminjaman"),
			goqu.I("l.kode_barang").As("kode_barang"),
			goqu.I("l.status").As("status"),
			goqu.I("l.tgl_laporan").As("tgl_laporan"),
			goqu.I("u.nama").As("nama_peminjam"),
			goqu.I("br.nama_barang").As("nama_barang"),
			goqu.I("l.created_at").As("created_at"),
		).
		From(goqu.T("lapor").As("l")).
		Join(
			goqu.T("borrow").As("b"),
			goqu.On(goqu.Ex{"l.id_peminjaman": goqu.I("b.id_peminjaman")}),
		).
		Join(
			goqu.T("peminjam").As("p"),
			goqu.On(goqu.Ex{"b.id_peminjam": goqu.I("p.id_peminjam")}),
		).
		Join(
			goqu.T("users").As("u"),
			goqu.On(goqu.Ex{"p.id_user": goqu.I("u.id_user")}),
		).
		Join(
			goqu.T("barang").As("br"),
			goqu.On(goqu.Ex{"l.kode_barang": goqu.I("br.kode_barang")}),
		)
}

func scopeConditions(scope roles.Scope) []goqu.Expression {
	switch scope.Role {
	case roles.Peminjam:
		return []goqu.Expression{goqu.Ex{"b.id_peminjam": scope.RoleID}}
	case roles.Instansi:
		return []goqu.Expression{goqu.Ex{"br.id_instansi": scope.RoleID}}
	default:
		return nil
	}
}

func (r *reportRepository) scanReports(query *goqu.SelectDataset) ([]models.Report, error) {
	var flatReports []models.FlatReportRecord
	if err := query.Executor().ScanStructs(&flatReports); err != nil {
		return nil, fmt.Errorf("unable to select laporan: %w", err)
	}

	reports := make([]models.Report, 0, len(flatReports))
	for _, flat := range flatReports {
		reports = append(reports, flat.TransformToReport())
	}

	return reports, nil
}

func (r *reportRepository) GetReport(reportID int) (*models.Report, error) {
	var flat models.FlatReportRecord
	query := r.getReportQuery().Where(goqu.Ex{"l.id_laporan": reportID})

	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("unable to select laporan %d: %w", reportID, err)
	}
	if !found {
		return nil, ErrReportNotFound
	}

	report := flat.TransformToReport()
	return &report, nil
}

func (r *reportRepository) GetReports(scope roles.Scope) ([]models.Report, error) {
	query := r.getReportQuery().
		Where(scopeConditions(scope)...).
		Order(goqu.I("l.created_at").Desc())
	return r.scanReports(query)
}

func (r *reportRepository) GetReportsByStatus(status string, scope roles.Scope) ([]models.Report, error) {
	conditions := append(scopeConditions(scope), goqu.Ex{"l.status": status})
	query := r.getReportQuery().
		Where(conditions...).
		Order(goqu.I("l.created_at").Desc())
	return r.scanReports(query)
}

func (r *reportRepository) UpdateStatus(reportID int, status string) error {
	query := r.repository.GoquDBWrapper.
		Update("lapor").
		Set(goqu.Record{"status": status}).
		Where(goqu.Ex{"id_laporan": reportID})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update laporan status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrReportNotFound
	}

	return nil
}

func (r *reportRepository) CountByStatus(status string) (int, error) {
	var count int
	query := r.repository.GoquDBWrapper.
		From("lapor").
		Select(goqu.COUNT("*")).
		Where(goqu.Ex{"status": status})

	if _, err := query.Executor().ScanVal(&count); err != nil {
		return 0, fmt.Errorf("failed to count laporan: %w", err)
	}

	return count, nil
}
