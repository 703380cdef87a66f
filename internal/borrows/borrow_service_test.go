package borrows

import (
	"errors"
	"testing"
	"time"

	"github.com/annisazulfa99/inventaris/pkg/models"
	"github.com/annisazulfa99/inventaris/pkg/roles"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockTransactionRunner struct {
	mock.Mock
}

func (m *MockTransactionRunner) WithTransaction(fn func(tx *goqu.TxDatabase) error) error {
	m.Called()
	return fn(nil)
}

type MockBorrowRepository struct {
	mock.Mock
}

func (m *MockBorrowRepository) InsertBorrowRecord(tx *goqu.TxDatabase, req models.BorrowRequest) (int, error) {
	args := m.Called(tx, req)
	return args.Int(0), args.Error(1)
}

func (m *MockBorrowRepository) ReserveStock(tx *goqu.TxDatabase, kodeBarang string, quantity int) error {
	args := m.Called(tx, kodeBarang, quantity)
	return args.Error(0)
}

func (m *MockBorrowRepository) RestoreStock(tx *goqu.TxDatabase, kodeBarang string, quantity int) error {
	args := m.Called(tx, kodeBarang, quantity)
	return args.Error(0)
}

func (m *MockBorrowRepository) MarkApproved(borrowID, adminID int) error {
	args := m.Called(borrowID, adminID)
	return args.Error(0)
}

func (m *MockBorrowRepository) MarkReturned(tx *goqu.TxDatabase, borrowID int, kondisi string, foto string) error {
	args := m.Called(tx, borrowID, kondisi, foto)
	return args.Error(0)
}

func (m *MockBorrowRepository) DeleteBorrowRecord(tx *goqu.TxDatabase, borrowID int) error {
	args := m.Called(tx, borrowID)
	return args.Error(0)
}

func (m *MockBorrowRepository) GetBorrow(borrowID int) (*models.Borrow, error) {
	args := m.Called(borrowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Borrow), args.Error(1)
}

func (m *MockBorrowRepository) GetBorrows(scope roles.Scope) ([]models.Borrow, error) {
	args := m.Called(scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Borrow), args.Error(1)
}

func (m *MockBorrowRepository) GetPendingBorrows() ([]models.Borrow, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Borrow), args.Error(1)
}

func (m *MockBorrowRepository) GetActiveBorrows(scope roles.Scope) ([]models.Borrow, error) {
	args := m.Called(scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Borrow), args.Error(1)
}

func (m *MockBorrowRepository) GetOverdueBorrows(scope roles.Scope) ([]models.Borrow, error) {
	args := m.Called(scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Borrow), args.Error(1)
}

func newBorrowRequest() models.BorrowRequest {
	return models.BorrowRequest{
		PeminjamID:   5,
		KodeBarang:   "BRG-01",
		JumlahPinjam: 3,
		TglPinjam:    models.Date{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		DlKembali:    models.Date{Time: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)},
	}
}

func TestRequestBorrow(t *testing.T) {
	mockTx := new(MockTransactionRunner)
	mockRepo := new(MockBorrowRepository)
	service := NewBorrowService(mockTx, mockRepo)

	req := newBorrowRequest()
	var tx *goqu.TxDatabase

	mockTx.On("WithTransaction").Return(nil).Once()
	mockRepo.On("ReserveStock", tx, "BRG-01", 3).Return(nil).Once()
	mockRepo.On("InsertBorrowRecord", tx, req).Return(123, nil).Once()

	borrowID, err := service.Request(req)

	assert.NoError(t, err)
	assert.Equal(t, 123, borrowID)
	mockRepo.AssertExpectations(t)
}

func TestRequestBorrowInsufficientStock(t *testing.T) {
	mockTx := new(MockTransactionRunner)
	mockRepo := new(MockBorrowRepository)
	service := NewBorrowService(mockTx, mockRepo)

	req := newBorrowRequest()
	var tx *goqu.TxDatabase

	mockTx.On("WithTransaction").Return(nil).Once()
	mockRepo.On("ReserveStock", tx, "BRG-01", 3).Return(ErrInsufficientStock).Once()

	_, err := service.Request(req)

	assert.ErrorIs(t, err, ErrInsufficientStock)
	// the record insert must never run once the reservation failed
	mockRepo.AssertNotCalled(t, "InsertBorrowRecord", tx, req)
}

func TestRequestBorrowDeadlineBeforeStart(t *testing.T) {
	mockTx := new(MockTransactionRunner)
	mockRepo := new(MockBorrowRepository)
	service := NewBorrowService(mockTx, mockRepo)

	req := newBorrowRequest()
	req.DlKembali = models.Date{Time: req.TglPinjam.AddDate(0, 0, -1)}

	_, err := service.Request(req)

	assert.ErrorIs(t, err, ErrDeadlineBeforeStart)
	mockTx.AssertNotCalled(t, "WithTransaction")
}

func TestApproveBorrow(t *testing.T) {
	mockTx := new(MockTransactionRunner)
	mockRepo := new(MockBorrowRepository)
	service := NewBorrowService(mockTx, mockRepo)

	mockRepo.On("MarkApproved", 123, 1).Return(nil).Once()

	err := service.Approve(123, 1)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestApproveBorrowNotPending(t *testing.T) {
	mockTx := new(MockTransactionRunner)
	mockRepo := new(MockBorrowRepository)
	service := NewBorrowService(mockTx, mockRepo)

	mockRepo.On("MarkApproved", 123, 1).Return(ErrInvalidState).Once()

	err := service.Approve(123, 1)

	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRejectBorrow(t *testing.T) {
	mockTx := new(MockTransactionRunner)
	mockRepo := new(MockBorrowRepository)
	service := NewBorrowService(mockTx, mockRepo)

	var tx *goqu.TxDatabase
	pending := &models.Borrow{
		ID:           123,
		KodeBarang:   "BRG-01",
		JumlahPinjam: 3,
		StatusBarang: models.BorrowStatusPending,
	}

	mockRepo.On("GetBorrow", 123).Return(pending, nil).Once()
	mockTx.On("WithTransaction").Return(nil).Once()
	mockRepo.On("RestoreStock", tx, "BRG-01", 3).Return(nil).Once()
	mockRepo.On("DeleteBorrowRecord", tx, 123).Return(nil).Once()

	err := service.Reject(123)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestRejectBorrowNotPending(t *testing.T) {
	mockTx := new(MockTransactionRunner)
	mockRepo := new(MockBorrowRepository)
	service := NewBorrowService(mockTx, mockRepo)

	active := &models.Borrow{
		ID:           123,
		KodeBarang:   "BRG-01",
		JumlahPinjam: 3,
		StatusBarang: models.BorrowStatusActive,
	}

	mockRepo.On("GetBorrow", 123).Return(active, nil).Once()

	err := service.Reject(123)

	assert.ErrorIs(t, err, ErrInvalidState)
	mockTx.AssertNotCalled(t, "WithTransaction")
}

func TestRejectBorrowLosesToConcurrentApprove(t *testing.T) {
	mockTx := new(MockTransactionRunner)
	mockRepo := new(MockBorrowRepository)
	service := NewBorrowService(mockTx, mockRepo)

	var tx *goqu.TxDatabase
	pending := &models.Borrow{
		ID:           123,
		KodeBarang:   "BRG-01",
		JumlahPinjam: 3,
		StatusBarang: models.BorrowStatusPending,
	}

	// an approve commits between the pending read and the delete; the
	// guarded delete touches zero rows and the whole transaction,
	// stock restore included, must fail
	mockRepo.On("GetBorrow", 123).Return(pending, nil).Once()
	mockTx.On("WithTransaction").Return(nil).Once()
	mockRepo.On("RestoreStock", tx, "BRG-01", 3).Return(nil).Once()
	mockRepo.On("DeleteBorrowRecord", tx, 123).Return(ErrInvalidState).Once()

	err := service.Reject(123)

	assert.ErrorIs(t, err, ErrInvalidState)
	mockRepo.AssertExpectations(t)
}

func TestReturnBorrow(t *testing.T) {
	mockTx := new(MockTransactionRunner)
	mockRepo := new(MockBorrowRepository)
	service := NewBorrowService(mockTx, mockRepo)

	var tx *goqu.TxDatabase
	active := &models.Borrow{
		ID:           123,
		KodeBarang:   "BRG-01",
		JumlahPinjam: 3,
		StatusBarang: models.BorrowStatusActive,
	}

	mockRepo.On("GetBorrow", 123).Return(active, nil).Once()
	mockTx.On("WithTransaction").Return(nil).Once()
	mockRepo.On("MarkReturned", tx, 123, "baik", "").Return(nil).Once()
	mockRepo.On("RestoreStock", tx, "BRG-01", 3).Return(nil).Once()

	err := service.Return(123, "baik", "")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestReturnBorrowRollsBackOnFailure(t *testing.T) {
	mockTx := new(MockTransactionRunner)
	mockRepo := new(MockBorrowRepository)
	service := NewBorrowService(mockTx, mockRepo)

	var tx *goqu.TxDatabase
	active := &models.Borrow{
		ID:           123,
		KodeBarang:   "BRG-01",
		JumlahPinjam: 3,
		StatusBarang: models.BorrowStatusActive,
	}

	mockRepo.On("GetBorrow", 123).Return(active, nil).Once()
	mockTx.On("WithTransaction").Return(nil).Once()
	mockRepo.On("MarkReturned", tx, 123, "baik", "").Return(errors.New("update failed")).Once()

	err := service.Return(123, "baik", "")

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "RestoreStock", tx, "BRG-01", 3)
}

func TestReturnBorrowNotActive(t *testing.T) {
	mockTx := new(MockTransactionRunner)
	mockRepo := new(MockBorrowRepository)
	service := NewBorrowService(mockTx, mockRepo)

	pending := &models.Borrow{
		ID:           123,
		KodeBarang:   "BRG-01",
		JumlahPinjam: 3,
		StatusBarang: models.BorrowStatusPending,
	}

	mockRepo.On("GetBorrow", 123).Return(pending, nil).Once()

	err := service.Return(123, "baik", "")

	assert.ErrorIs(t, err, ErrInvalidState)
	mockTx.AssertNotCalled(t, "WithTransaction")
}

func TestIsOverdue(t *testing.T) {
	today := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		status   string
		deadline time.Time
		expected bool
	}{
		{
			name:     "active past deadline",
			status:   models.BorrowStatusActive,
			deadline: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
			expected: true,
		},
		{
			name:     "active before deadline",
			status:   models.BorrowStatusActive,
			deadline: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			expected: false,
		},
		{
			name:     "returned past deadline",
			status:   models.BorrowStatusReturned,
			deadline: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
			expected: false,
		},
		{
			name:     "pending past deadline",
			status:   models.BorrowStatusPending,
			deadline: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			borrow := models.Borrow{StatusBarang: tt.status, DlKembali: tt.deadline}
			assert.Equal(t, tt.expected, borrow.IsOverdue(today))
		})
	}
}
