package activitylog

import (
	"fmt"

	"github.com/annisazulfa99/inventaris/internal/repository"
	"github.com/annisazulfa99/inventaris/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type ActivityLogRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *ActivityLogRepository {
	return &ActivityLogRepository{repository: r}
}

func (r *ActivityLogRepository) PersistEntry(entry models.ActivityLog) error {
	query := r.repository.GoquDBWrapper.Insert("log_activity").
		Rows(goqu.Record{
			"username":   entry.Username,
			"keterangan": entry.Keterangan,
			"aktifitas":  entry.Aktifitas,
			"user_role":  entry.UserRole,
		})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert activity log: %w", err)
	}

	return nil
}

// GetEntries lists activity entries newest first, optionally filtered
// by username and/or action code.
func (r *ActivityLogRepository) GetEntries(conditions repository.QueryBuilder) ([]models.ActivityLog, error) {
	aliases := map[string]string{
		"username":  "username",
		"aktifitas": "aktifitas",
	}

	query := r.repository.GoquDBWrapper.
		Select("id", "username", "keterangan", "aktifitas", "user_role", "created_at").
		From("log_activity").
		Where(conditions.BuildConditions(aliases)).
		Order(goqu.I("created_at").Desc())

	var entries []models.ActivityLog
	if err := query.Executor().ScanStructs(&entries); err != nil {
		return nil, fmt.Errorf("unable to select activity log entries: %w", err)
	}

	return entries, nil
}
