package borrows

import (
	"errors"
	"fmt"

	"github.com/annisazulfa99/inventaris/internal/repository"
	"github.com/annisazulfa99/inventaris/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

var ErrDeadlineBeforeStart = errors.New("dl_kembali must not be before tgl_pinjam")

// BorrowService owns the borrowing lifecycle:
//
//	request -> pending -> approve -> dipinjam -> return -> dikembalikan
//	                   \-> reject (record deleted, stock restored)
//
// Every multi-statement step runs inside a single transaction so the
// stock reservation and the record it backs commit or roll back
// together.
type BorrowService struct {
	tx repository.TransactionRunner
	br BorrowRepository
}

func NewBorrowService(tx repository.TransactionRunner, br BorrowRepository) *BorrowService {
	return &BorrowService{tx: tx, br: br}
}

// Request reserves stock and creates a pending record atomically.
func (s *BorrowService) Request(req models.BorrowRequest) (int, error) {
	if req.JumlahPinjam < 1 {
		return 0, fmt.Errorf("jumlah_pinjam must be positive")
	}
	if req.DlKembali.Before(req.TglPinjam.Time) {
		return 0, ErrDeadlineBeforeStart
	}

	var borrowID int
	err := s.tx.WithTransaction(func(tx *goqu.TxDatabase) error {
		if err := s.br.ReserveStock(tx, req.KodeBarang, req.JumlahPinjam); err != nil {
			return err
		}

		var err error
		if borrowID, err = s.br.InsertBorrowRecord(tx, req); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	return borrowID, nil
}

// Approve stamps the admin and activates the record. Stock stays as
// is: it was already reserved at request time.
func (s *BorrowService) Approve(borrowID, adminID int) error {
	return s.br.MarkApproved(borrowID, adminID)
}

// Reject restores the reserved stock and deletes the record in one
// transaction. The pending read here is only a fast path; the delete
// re-checks the status so a request approved in between survives and
// the restore rolls back.
func (s *BorrowService) Reject(borrowID int) error {
	borrow, err := s.br.GetBorrow(borrowID)
	if err != nil {
		return err
	}
	if borrow.StatusBarang != models.BorrowStatusPending {
		return ErrInvalidState
	}

	return s.tx.WithTransaction(func(tx *goqu.TxDatabase) error {
		if err := s.br.RestoreStock(tx, borrow.KodeBarang, borrow.JumlahPinjam); err != nil {
			return err
		}

		return s.br.DeleteBorrowRecord(tx, borrowID)
	})
}

// Return closes an active record and restores the stock in one
// transaction. The status guard inside MarkReturned keeps a double
// return from restoring stock twice.
func (s *BorrowService) Return(borrowID int, kondisi, foto string) error {
	borrow, err := s.br.GetBorrow(borrowID)
	if err != nil {
		return err
	}
	if borrow.StatusBarang != models.BorrowStatusActive {
		return ErrInvalidState
	}

	return s.tx.WithTransaction(func(tx *goqu.TxDatabase) error {
		if err := s.br.MarkReturned(tx, borrowID, kondisi, foto); err != nil {
			return err
		}

		return s.br.RestoreStock(tx, borrow.KodeBarang, borrow.JumlahPinjam)
	})
}
