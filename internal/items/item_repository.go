package items

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/annisazulfa99/inventaris/internal/repository"
	custom_error "github.com/annisazulfa99/inventaris/pkg/errors"
	"github.com/annisazulfa99/inventaris/pkg/models"
	"github.com/annisazulfa99/inventaris/pkg/roles"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

var ErrItemNotFound = errors.New("item not found")

type ItemRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *ItemRepository {
	return &ItemRepository{repository: r}
}

func (r *ItemRepository) PersistItem(req CreateItemRequest) (*models.Item, error) {
	query := r.repository.GoquDBWrapper.Insert("barang").
		Rows(goqu.Record{
			"kode_barang":     req.KodeBarang,
			"nama_barang":     req.NamaBarang,
			"lokasi_barang":   req.LokasiBarang,
			"jumlah_total":    req.JumlahTotal,
			"jumlah_tersedia": req.JumlahTotal,
			"deskripsi":       req.Deskripsi,
			"kondisi_barang":  req.KondisiBarang,
			"status":          req.Status,
			"foto":            req.Foto,
			"id_instansi":     req.InstansiID,
		}).
		Returning("id_barang")

	item := models.Item{
		KodeBarang:     req.KodeBarang,
		NamaBarang:     req.NamaBarang,
		LokasiBarang:   req.LokasiBarang,
		JumlahTotal:    req.JumlahTotal,
		JumlahTersedia: req.JumlahTotal,
		Deskripsi:      req.Deskripsi,
		KondisiBarang:  req.KondisiBarang,
		Status:         req.Status,
		Foto:           req.Foto,
	}
	if req.InstansiID != nil {
		item.Pemilik = &models.Institution{ID: *req.InstansiID}
	}

	if _, err := query.Executor().ScanVal(&item.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, custom_error.WrapDBError("Duplicate kode_barang "+req.KodeBarang, string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert barang record: %w", err)
	}

	return &item, nil
}

func (r *ItemRepository) getItemQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(
			goqu.I("b.id_barang").As("id_barang"),
			goqu.I("b.kode_barang").As("kode_barang"),
			goqu.I("b.nama_barang").As("nama_barang"),
			goqu.I("b.lokasi_barang").As("lokasi_barang"),
			goqu.I("b.jumlah_total").As("jumlah_total"),
			goqu.I("b.jumlah_tersedia").As("jumlah_tersedia"),
			goqu.I("b.deskripsi").As("deskripsi"),
			goqu.I("b.kondisi_barang").As("kondisi_barang"),
			goqu.I("b.status").As("status"),
			goqu.I("b.foto").As("foto"),
			goqu.I("b.id_instansi").As("id_instansi"),
			goqu.I("i.nama_instansi").As("nama_instansi"),
			goqu.I("b.created_at").As("created_at"),
			goqu.I("b.updated_at").As("updated_at"),
		).
		From(goqu.T("barang").As("b")).
		LeftJoin(
			goqu.T("instansi").As("i"),
			goqu.On(goqu.Ex{"b.id_instansi": goqu.I("i.id_instansi")}),
		)
}

func (r *ItemRepository) scanItems(query *goqu.SelectDataset) ([]models.Item, error) {
	var flatItems []models.FlatItemRecord
	if err := query.Executor().ScanStructs(&flatItems); err != nil {
		return nil, fmt.Errorf("unable to select barang from database: %w", err)
	}

	items := make([]models.Item, 0, len(flatItems))
	for _, flat := range flatItems {
		items = append(items, flat.TransformToItem())
	}

	return items, nil
}

// GetItems returns items visible to the caller. Institutions only see
// their own items; everyone else sees the full catalogue.
func (r *ItemRepository) GetItems(scope roles.Scope) ([]models.Item, error) {
	query := r.getItemQuery().Order(goqu.I("b.created_at").Desc())
	if scope.Role == roles.Instansi {
		query = query.Where(goqu.Ex{"b.id_instansi": scope.RoleID})
	}
	return r.scanItems(query)
}

func (r *ItemRepository) GetItemByCode(code string) (*models.Item, error) {
	var flat models.FlatItemRecord
	query := r.getItemQuery().Where(goqu.Ex{"b.kode_barang": code})

	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("unable to select barang %s: %w", code, err)
	}
	if !found {
		return nil, ErrItemNotFound
	}

	item := flat.TransformToItem()
	return &item, nil
}

// GetAvailableItems lists items that can still be requested.
func (r *ItemRepository) GetAvailableItems() ([]models.Item, error) {
	query := r.getItemQuery().
		Where(
			goqu.I("b.jumlah_tersedia").Gt(0),
			goqu.Ex{"b.status": "tersedia"},
		).
		Order(goqu.I("b.nama_barang").Asc())
	return r.scanItems(query)
}

// GetLowStockItems lists items running low (fewer than 5 units left).
func (r *ItemRepository) GetLowStockItems() ([]models.Item, error) {
	query := r.getItemQuery().
		Where(
			goqu.I("b.jumlah_tersedia").Lt(5),
			goqu.I("b.jumlah_tersedia").Gt(0),
		).
		Order(goqu.I("b.jumlah_tersedia").Asc())
	return r.scanItems(query)
}

func (r *ItemRepository) GetItemsByInstitution(instansiID int) ([]models.Item, error) {
	query := r.getItemQuery().
		Where(goqu.Ex{"b.id_instansi": instansiID}).
		Order(goqu.I("b.nama_barang").Asc())
	return r.scanItems(query)
}

func (r *ItemRepository) SearchItems(keyword string, scope roles.Scope) ([]models.Item, error) {
	pattern := "%" + keyword + "%"
	query := r.getItemQuery().
		Where(goqu.Or(
			goqu.I("b.kode_barang").ILike(pattern),
			goqu.I("b.nama_barang").ILike(pattern),
			goqu.I("b.lokasi_barang").ILike(pattern),
		)).
		Order(goqu.I("b.nama_barang").Asc())
	if scope.Role == roles.Instansi {
		query = query.Where(goqu.Ex{"b.id_instansi": scope.RoleID})
	}
	return r.scanItems(query)
}

func (r *ItemRepository) UpdateItem(code string, req *PatchItemRequest) error {
	updates := goqu.Record{"updated_at": goqu.L("now()")}
	if req.NamaBarang != nil {
		updates["nama_barang"] = *req.NamaBarang
	}
	if req.LokasiBarang != nil {
		updates["lokasi_barang"] = *req.LokasiBarang
	}
	if req.JumlahTotal != nil {
		// shrink or grow the pool; the stock bounds constraint rejects
		// totals below the currently reserved quantity
		updates["jumlah_tersedia"] = goqu.L("jumlah_tersedia + (? - jumlah_total)", *req.JumlahTotal)
		updates["jumlah_total"] = *req.JumlahTotal
	}
	if req.Deskripsi != nil {
		updates["deskripsi"] = *req.Deskripsi
	}
	if req.KondisiBarang != nil {
		updates["kondisi_barang"] = *req.KondisiBarang
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Foto != nil {
		updates["foto"] = *req.Foto
	}

	query := r.repository.GoquDBWrapper.
		Update("barang").
		Set(updates).
		Where(goqu.Ex{"kode_barang": code})

	result, err := query.Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Cannot update barang "+code, string(pqErr.Code))
		}
		return fmt.Errorf("failed to update barang: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

func (r *ItemRepository) DeleteItem(code string) error {
	query := r.repository.GoquDBWrapper.
		Delete("barang").
		Where(goqu.Ex{"kode_barang": code})

	result, err := query.Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Barang "+code+" is referenced by borrow records", string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete barang: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}

// GetItemOwner returns the owning institution id, or nil for commonly
// owned items.
func (r *ItemRepository) GetItemOwner(code string) (*int, error) {
	var instansiID sql.NullInt64
	query := r.repository.GoquDBWrapper.
		Select("id_instansi").
		From("barang").
		Where(goqu.Ex{"kode_barang": code})

	found, err := query.Executor().ScanVal(&instansiID)
	if err != nil {
		return nil, fmt.Errorf("unable to select barang owner: %w", err)
	}
	if !found {
		return nil, ErrItemNotFound
	}
	if !instansiID.Valid {
		return nil, nil
	}

	owner := int(instansiID.Int64)
	return &owner, nil
}
