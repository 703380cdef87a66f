package reports

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/annisazulfa99/inventaris/pkg/activity"
	"github.com/annisazulfa99/inventaris/pkg/models"
	"github.com/annisazulfa99/inventaris/pkg/roles"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) PersistReport(peminjamanID int, kodeBarang string) (*models.Report, error) {
	args := m.Called(peminjamanID, kodeBarang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockReportRepository) GetReport(reportID int) (*models.Report, error) {
	args := m.Called(reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockReportRepository) GetReports(scope roles.Scope) ([]models.Report, error) {
	args := m.Called(scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Report), args.Error(1)
}

func (m *MockReportRepository) GetReportsByStatus(status string, scope roles.Scope) ([]models.Report, error) {
	args := m.Called(status, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Report), args.Error(1)
}

func (m *MockReportRepository) UpdateStatus(reportID int, status string) error {
	args := m.Called(reportID, status)
	return args.Error(0)
}

func (m *MockReportRepository) CountByStatus(status string) (int, error) {
	args := m.Called(status)
	return args.Int(0), args.Error(1)
}

type MockBorrowLookup struct {
	mock.Mock
}

func (m *MockBorrowLookup) GetBorrow(borrowID int) (*models.Borrow, error) {
	args := m.Called(borrowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Borrow), args.Error(1)
}

type MockItemOwnerLookup struct {
	mock.Mock
}

func (m *MockItemOwnerLookup) GetItemOwner(code string) (*int, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*int), args.Error(1)
}

type noopRecorder struct{}

func (noopRecorder) PersistEntry(entry models.ActivityLog) error { return nil }

func setupReportRouter(handler *ReportHandler, role string, roleID int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Set("role", role)
		c.Set("roleID", roleID)
		c.Set("username", "tester")
		c.Next()
	})

	group := router.Group("")
	handler.RegisterRoutes(group)
	return router
}

func sampleReport() *models.Report {
	return &models.Report{
		ID:           9,
		NoLaporan:    "LAP-00009",
		PeminjamanID: 42,
		KodeBarang:   "BRG-01",
		Status:       models.ReportStatusProcessing,
		TglLaporan:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestGetReportInstansiForeignItemForbidden(t *testing.T) {
	mockRepo := new(MockReportRepository)
	mockBorrows := new(MockBorrowLookup)
	mockItems := new(MockItemOwnerLookup)
	handler := NewHandler(mockRepo, mockBorrows, mockItems, activity.NewLogger(noopRecorder{}))

	// the report's item is commonly owned, so no institution may see it
	mockRepo.On("GetReport", 9).Return(sampleReport(), nil).Once()
	mockItems.On("GetItemOwner", "BRG-01").Return(nil, nil).Once()

	router := setupReportRouter(handler, "instansi", 55)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/reports/9", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockItems.AssertExpectations(t)
}

func TestGetReportInstansiOwnItem(t *testing.T) {
	mockRepo := new(MockReportRepository)
	mockBorrows := new(MockBorrowLookup)
	mockItems := new(MockItemOwnerLookup)
	handler := NewHandler(mockRepo, mockBorrows, mockItems, activity.NewLogger(noopRecorder{}))

	owner := 55
	mockRepo.On("GetReport", 9).Return(sampleReport(), nil).Once()
	mockItems.On("GetItemOwner", "BRG-01").Return(&owner, nil).Once()

	router := setupReportRouter(handler, "instansi", 55)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/reports/9", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "LAP-00009")
}

func TestGetReportPeminjamOtherBorrowForbidden(t *testing.T) {
	mockRepo := new(MockReportRepository)
	mockBorrows := new(MockBorrowLookup)
	mockItems := new(MockItemOwnerLookup)
	handler := NewHandler(mockRepo, mockBorrows, mockItems, activity.NewLogger(noopRecorder{}))

	mockRepo.On("GetReport", 9).Return(sampleReport(), nil).Once()
	mockBorrows.On("GetBorrow", 42).Return(&models.Borrow{ID: 42, PeminjamID: 77}, nil).Once()

	router := setupReportRouter(handler, "peminjam", 12)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/reports/9", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetReportAdminSeesAll(t *testing.T) {
	mockRepo := new(MockReportRepository)
	mockBorrows := new(MockBorrowLookup)
	mockItems := new(MockItemOwnerLookup)
	handler := NewHandler(mockRepo, mockBorrows, mockItems, activity.NewLogger(noopRecorder{}))

	mockRepo.On("GetReport", 9).Return(sampleReport(), nil).Once()

	router := setupReportRouter(handler, "admin", 1)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/reports/9", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockItems.AssertNotCalled(t, "GetItemOwner", "BRG-01")
}
