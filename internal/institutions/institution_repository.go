package institutions

import (
	"errors"
	"fmt"

	"github.com/annisazulfa99/inventaris/internal/repository"
	"github.com/annisazulfa99/inventaris/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

var ErrInstitutionNotFound = errors.New("institution not found")

type InstitutionRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *InstitutionRepository {
	return &InstitutionRepository{repository: r}
}

func (r *InstitutionRepository) GetInstitutions() ([]models.Institution, error) {
	var institutions []models.Institution
	query := r.repository.GoquDBWrapper.
		Select("id_instansi", "id_user", "nama_instansi").
		From("instansi").
		Order(goqu.I("nama_instansi").Asc())

	if err := query.Executor().ScanStructs(&institutions); err != nil {
		return nil, fmt.Errorf("unable to select instansi: %w", err)
	}

	return institutions, nil
}

func (r *InstitutionRepository) GetInstitution(id int) (*models.Institution, error) {
	var institution models.Institution
	query := r.repository.GoquDBWrapper.
		Select("id_instansi", "id_user", "nama_instansi").
		From("instansi").
		Where(goqu.Ex{"id_instansi": id})

	found, err := query.Executor().ScanStruct(&institution)
	if err != nil {
		return nil, fmt.Errorf("unable to select instansi %d: %w", id, err)
	}
	if !found {
		return nil, ErrInstitutionNotFound
	}

	return &institution, nil
}
