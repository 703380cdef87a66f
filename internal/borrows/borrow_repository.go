package borrows

import (
	"errors"
	"fmt"
	"time"

	"github.com/annisazulfa99/inventaris/internal/repository"
	"github.com/annisazulfa99/inventaris/pkg/models"
	"github.com/annisazulfa99/inventaris/pkg/roles"

	"github.com/doug-martin/goqu/v9"
)

var (
	ErrBorrowNotFound    = errors.New("borrow record not found")
	ErrInsufficientStock = errors.New("not enough stock available")
	ErrInvalidState      = errors.New("borrow record is not in the required state")
)

// BorrowRepository is the persistence surface of the borrowing
// workflow. Methods taking a *goqu.TxDatabase participate in the
// caller's transaction.
type BorrowRepository interface {
	InsertBorrowRecord(tx *goqu.TxDatabase, req models.BorrowRequest) (int, error)
	ReserveStock(tx *goqu.TxDatabase, kodeBarang string, quantity int) error
	RestoreStock(tx *goqu.TxDatabase, kodeBarang string, quantity int) error
	MarkApproved(borrowID, adminID int) error
	MarkReturned(tx *goqu.TxDatabase, borrowID int, kondisi string, foto string) error
	DeleteBorrowRecord(tx *goqu.TxDatabase, borrowID int) error
	GetBorrow(borrowID int) (*models.Borrow, error)
	GetBorrows(scope roles.Scope) ([]models.Borrow, error)
	GetPendingBorrows() ([]models.Borrow, error)
	GetActiveBorrows(scope roles.Scope) ([]models.Borrow, error)
	GetOverdueBorrows(scope roles.Scope) ([]models.Borrow, error)
}

type borrowRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *borrowRepository {
	return &borrowRepository{repository: r}
}

func (r *borrowRepository) InsertBorrowRecord(tx *goqu.TxDatabase, req models.BorrowRequest) (int, error) {
	query := tx.Insert("borrow").
		Rows(goqu.Record{
			"id_peminjam":    req.PeminjamID,
			"kode_barang":    req.KodeBarang,
			"jumlah_pinjam":  req.JumlahPinjam,
			"tgl_peminjaman": time.Now(),
			"tgl_pinjam":     req.TglPinjam,
			"dl_kembali":     req.DlKembali,
			"status_barang":  models.BorrowStatusPending,
		}).
		Returning("id_peminjaman")

	var borrowID int
	if _, err := query.Executor().ScanVal(&borrowID); err != nil {
		return 0, fmt.Errorf("failed to insert borrow record: %w", err)
	}

	return borrowID, nil
}

// ReserveStock decrements availability only when enough units remain;
// the guard in the WHERE clause is what closes the check-then-act race
// between concurrent requests.
func (r *borrowRepository) ReserveStock(tx *goqu.TxDatabase, kodeBarang string, quantity int) error {
	query := tx.Update("barang").
		Set(goqu.Record{"jumlah_tersedia": goqu.L("jumlah_tersedia - ?", quantity)}).
		Where(
			goqu.Ex{"kode_barang": kodeBarang},
			goqu.I("jumlah_tersedia").Gte(quantity),
		)

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to reserve stock for %s: %w", kodeBarang, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrInsufficientStock
	}

	return nil
}

func (r *borrowRepository) RestoreStock(tx *goqu.TxDatabase, kodeBarang string, quantity int) error {
	query := tx.Update("barang").
		Set(goqu.Record{"jumlah_tersedia": goqu.L("jumlah_tersedia + ?", quantity)}).
		Where(goqu.Ex{"kode_barang": kodeBarang})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to restore stock for %s: %w", kodeBarang, err)
	}

	return nil
}

// MarkApproved flips a pending record to dipinjam. The status guard in
// the WHERE clause makes a concurrent reject lose cleanly instead of
// resurrecting a deleted record.
func (r *borrowRepository) MarkApproved(borrowID, adminID int) error {
	query := r.repository.GoquDBWrapper.Update("borrow").
		Set(goqu.Record{
			"status_barang": models.BorrowStatusActive,
			"id_admin":      adminID,
		}).
		Where(goqu.Ex{
			"id_peminjaman": borrowID,
			"status_barang": models.BorrowStatusPending,
		})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to approve borrow %d: %w", borrowID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrInvalidState
	}

	return nil
}

func (r *borrowRepository) MarkReturned(tx *goqu.TxDatabase, borrowID int, kondisi string, foto string) error {
	record := goqu.Record{
		"status_barang":  models.BorrowStatusReturned,
		"tgl_kembali":    time.Now(),
		"kondisi_barang": kondisi,
	}
	if foto != "" {
		record["foto_pengembalian"] = foto
	}

	query := tx.Update("borrow").
		Set(record).
		Where(goqu.Ex{
			"id_peminjaman": borrowID,
			"status_barang": models.BorrowStatusActive,
		})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to mark borrow %d returned: %w", borrowID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrInvalidState
	}

	return nil
}

// DeleteBorrowRecord removes a pending request. The status guard in
// the WHERE clause makes a concurrent approve win: the delete then
// touches zero rows and the surrounding transaction rolls the stock
// restore back instead of erasing an active borrow.
func (r *borrowRepository) DeleteBorrowRecord(tx *goqu.TxDatabase, borrowID int) error {
	query := tx.Delete("borrow").Where(goqu.Ex{
		"id_peminjaman": borrowID,
		"status_barang": models.BorrowStatusPending,
	})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to delete borrow %d: %w", borrowID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrInvalidState
	}

	return nil
}

func (r *borrowRepository) getBorrowQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(
			goqu.I("b.id_peminjaman").As("id_peminjaman"),
			goqu.I("b.id_peminjam").As("id_peminjam"),
			goqu.I("b.id_admin").As("id_admin"),
			goqu.I("b.kode_barang").As("kode_barang"),
			goqu.I("b.jumlah_pinjam").As("jumlah_pinjam"),
			goqu.I("b.tgl_peminjaman").As("tgl_peminjaman"),
			goqu.I("b.tgl_pinjam").As("tgl_pinjam"),
			goqu.I("b.dl_kembali").As("dl_kembali"),
			goqu.I("b.tgl_kembali").As("tgl_kembali"),
			goqu.I("b.kondisi_barang").As("kondisi_barang"),
			goqu.I("b.foto_pengembalian").As("foto_pengembalian"),
			goqu.I("b.status_barang").As("status_barang"),
			goqu.I("u.nama").As("nama_peminjam"),
			goqu.I("p.no_telepon").As("no_telepon"),
			goqu.I("br.nama_barang").As("nama_barang"),
			goqu.I("b.created_at").As("created_at"),
		).
		From(goqu.T("borrow").As("b")).
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
			goqu.On(goqu.Ex{"b.kode_barang": goqu.I("br.kode_barang")}),
		)
}

func (r *borrowRepository) scanBorrows(query *goqu.SelectDataset) ([]models.Borrow, error) {
	var flatBorrows []models.FlatBorrowRecord
	if err := query.Executor().ScanStructs(&flatBorrows); err != nil {
		return nil, fmt.Errorf("unable to select borrow records: %w", err)
	}

	today := time.Now()
	borrows := make([]models.Borrow, 0, len(flatBorrows))
	for _, flat := range flatBorrows {
		borrows = append(borrows, flat.TransformToBorrow(today))
	}

	return borrows, nil
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

func (r *borrowRepository) GetBorrow(borrowID int) (*models.Borrow, error) {
	var flat models.FlatBorrowRecord
	query := r.getBorrowQuery().Where(goqu.Ex{"b.id_peminjaman": borrowID})

	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("unable to select borrow %d: %w", borrowID, err)
	}
	if !found {
		return nil, ErrBorrowNotFound
	}

	borrow := flat.TransformToBorrow(time.Now())
	return &borrow, nil
}

func (r *borrowRepository) GetBorrows(scope roles.Scope) ([]models.Borrow, error) {
	query := r.getBorrowQuery().
		Where(scopeConditions(scope)...).
		Order(goqu.I("b.created_at").Desc())
	return r.scanBorrows(query)
}

func (r *borrowRepository) GetPendingBorrows() ([]models.Borrow, error) {
	query := r.getBorrowQuery().
		Where(goqu.Ex{"b.status_barang": models.BorrowStatusPending}).
		Order(goqu.I("b.created_at").Desc())
	return r.scanBorrows(query)
}

func (r *borrowRepository) GetActiveBorrows(scope roles.Scope) ([]models.Borrow, error) {
	conditions := append(
		scopeConditions(scope),
		goqu.Ex{"b.status_barang": models.BorrowStatusActive},
	)
	query := r.getBorrowQuery().
		Where(conditions...).
		Order(goqu.I("b.dl_kembali").Asc())
	return r.scanBorrows(query)
}

// GetOverdueBorrows derives the overdue set at read time; overdue is
// never a stored status.
func (r *borrowRepository) GetOverdueBorrows(scope roles.Scope) ([]models.Borrow, error) {
	conditions := append(
		scopeConditions(scope),
		goqu.Ex{"b.status_barang": models.BorrowStatusActive},
		goqu.I("b.dl_kembali").Lt(goqu.L("CURRENT_DATE")),
	)
	query := r.getBorrowQuery().
		Where(conditions...).
		Order(goqu.I("b.dl_kembali").Asc())
	return r.scanBorrows(query)
}
