package users

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/annisazulfa99/inventaris/pkg/activity"
	"github.com/annisazulfa99/inventaris/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) PersistUser(req models.CreateUserRequest, hashedPassword []byte) error {
	args := m.Called(req, hashedPassword)
	return args.Error(0)
}

func (m *MockUserRepository) GetUser(id int) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUsers() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) GetUsersByRole(role string) ([]models.User, error) {
	args := m.Called(role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(id int, changes *models.UserChanges) error {
	args := m.Called(id, changes)
	return args.Error(0)
}

func (m *MockUserRepository) UsernameExists(username string) (bool, error) {
	args := m.Called(username)
	return args.Bool(0), args.Error(1)
}

type noopRecorder struct{}

func (noopRecorder) PersistEntry(entry models.ActivityLog) error { return nil }

func setupTestContext(body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("userID", 1)
	c.Set("role", "admin")
	c.Set("roleID", 1)
	c.Set("username", "admin")

	if body != nil {
		payload, _ := json.Marshal(body)
		c.Request = httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(payload))
		c.Request.Header.Set("Content-Type", "application/json")
	}

	return c, w
}

func TestRegisterUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		payload        models.CreateUserRequest
		setupMock      func(m *MockUserRepository)
		expectedStatus int
	}{
		{
			name: "successful registration",
			payload: models.CreateUserRequest{
				Username:  "budi",
				Password:  "rahasia1",
				Nama:      "Budi Santoso",
				Role:      "peminjam",
				NoTelepon: "08123456789",
			},
			setupMock: func(m *MockUserRepository) {
				m.On("UsernameExists", "budi").Return(false, nil).Once()
				m.On("PersistUser", mock.Anything, mock.Anything).Return(nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "duplicate username",
			payload: models.CreateUserRequest{
				Username: "budi",
				Password: "rahasia1",
				Nama:     "Budi Santoso",
				Role:     "peminjam",
			},
			setupMock: func(m *MockUserRepository) {
				m.On("UsernameExists", "budi").Return(true, nil).Once()
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "invalid role",
			payload: models.CreateUserRequest{
				Username: "budi",
				Password: "rahasia1",
				Nama:     "Budi Santoso",
				Role:     "superuser",
			},
			setupMock:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "password too short",
			payload: models.CreateUserRequest{
				Username: "budi",
				Password: "abc",
				Nama:     "Budi Santoso",
				Role:     "peminjam",
			},
			setupMock:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "instansi without name",
			payload: models.CreateUserRequest{
				Username: "dinas",
				Password: "rahasia1",
				Nama:     "Dinas Pendidikan",
				Role:     "instansi",
			},
			setupMock:      func(m *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "repository failure",
			payload: models.CreateUserRequest{
				Username: "budi",
				Password: "rahasia1",
				Nama:     "Budi Santoso",
				Role:     "peminjam",
			},
			setupMock: func(m *MockUserRepository) {
				m.On("UsernameExists", "budi").Return(false, nil).Once()
				m.On("PersistUser", mock.Anything, mock.Anything).Return(errors.New("insert failed")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)
			handler := NewHandler(mockRepo, activity.NewLogger(noopRecorder{}))

			c, w := setupTestContext(tt.payload)
			handler.RegisterUser(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUpdateUserNoChanges(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockRepo := new(MockUserRepository)
	existing := &models.User{ID: 7, Username: "budi", Nama: "Budi Santoso", Status: "aktif", Role: "peminjam"}
	mockRepo.On("GetUser", 7).Return(existing, nil).Once()

	handler := NewHandler(mockRepo, activity.NewLogger(noopRecorder{}))

	nama := "Budi Santoso"
	c, w := setupTestContext(models.UpdateUserRequest{Nama: &nama})
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	handler.UpdateUser(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockRepo.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
}

func TestUpdateUserDeactivate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockRepo := new(MockUserRepository)
	existing := &models.User{ID: 7, Username: "budi", Nama: "Budi Santoso", Status: "aktif", Role: "peminjam"}
	deactivated := &models.User{ID: 7, Username: "budi", Nama: "Budi Santoso", Status: "nonaktif", Role: "peminjam"}

	mockRepo.On("GetUser", 7).Return(existing, nil).Once()
	mockRepo.On("UpdateUser", 7, mock.MatchedBy(func(changes *models.UserChanges) bool {
		return changes.Status != nil && *changes.Status == "nonaktif"
	})).Return(nil).Once()
	mockRepo.On("GetUser", 7).Return(deactivated, nil).Once()

	handler := NewHandler(mockRepo, activity.NewLogger(noopRecorder{}))

	status := "nonaktif"
	c, w := setupTestContext(models.UpdateUserRequest{Status: &status})
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	handler.UpdateUser(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockRepo.AssertExpectations(t)
}
