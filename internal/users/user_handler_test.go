package users

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	custom_error "github.com/GThiruAishwarya/kristaball/pkg/errors"
	"github.com/GThiruAishwarya/kristaball/pkg/models"

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

func (m *MockUserRepository) UpdateUser(id int, changes *models.UserChanges) error {
	args := m.Called(id, changes)
	return args.Error(0)
}

func setupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("userID", 1)
	c.Set("role", "admin")
	return c, w
}

func TestRegisterUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo)

	tests := []struct {
		name           string
		payload        models.CreateUserRequest
		setupMock      func()
		expectedStatus int
	}{
		{
			name: "successful registration",
			payload: models.CreateUserRequest{
				Username: "jsmith",
				Password: "password123",
				FullName: "John Smith",
				Role:     "logistics_officer",
			},
			setupMock: func() {
				mockRepo.On("PersistUser", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "duplicate username",
			payload: models.CreateUserRequest{
				Username: "jsmith",
				Password: "password123",
				Role:     "user",
			},
			setupMock: func() {
				mockRepo.On("PersistUser", mock.Anything, mock.Anything).
					Return(custom_error.WrapDBError("duplicate username", "23505"))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "unknown role",
			payload: models.CreateUserRequest{
				Username: "jsmith",
				Password: "password123",
				Role:     "general",
			},
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "repository error",
			payload: models.CreateUserRequest{
				Username: "jsmith",
				Password: "password123",
				Role:     "user",
			},
			setupMock: func() {
				mockRepo.On("PersistUser", mock.Anything, mock.Anything).Return(errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.ExpectedCalls = nil
			tt.setupMock()
			c, w := setupTestContext()

			body, _ := json.Marshal(tt.payload)
			c.Request = httptest.NewRequest("POST", "/users", bytes.NewBuffer(body))

			handler.RegisterUser(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestRegisterUserDefaultsRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo)

	mockRepo.On("PersistUser", mock.MatchedBy(func(req models.CreateUserRequest) bool {
		return req.Role == "user"
	}), mock.Anything).Return(nil)

	c, w := setupTestContext()
	body, _ := json.Marshal(models.CreateUserRequest{
		Username: "jsmith",
		Password: "password123",
	})
	c.Request = httptest.NewRequest("POST", "/users", bytes.NewBuffer(body))

	handler.RegisterUser(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockRepo.AssertExpectations(t)
}

func TestGetUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo)

	t.Run("found", func(t *testing.T) {
		mockRepo.ExpectedCalls = nil
		mockRepo.On("GetUser", 7).Return(&models.User{ID: 7, Username: "jsmith"}, nil)

		c, w := setupTestContext()
		c.Params = gin.Params{{Key: "id", Value: "7"}}
		c.Request = httptest.NewRequest("GET", "/users/7", nil)

		handler.GetUser(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.ExpectedCalls = nil
		mockRepo.On("GetUser", 99).Return(nil, &custom_error.NotFoundError{Resource: "user", ID: 99})

		c, w := setupTestContext()
		c.Params = gin.Params{{Key: "id", Value: "99"}}
		c.Request = httptest.NewRequest("GET", "/users/99", nil)

		handler.GetUser(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUpdateUserRejectsShortPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo)

	short := "short"
	c, w := setupTestContext()
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	body, _ := json.Marshal(models.UpdateUserRequest{Password: &short})
	c.Request = httptest.NewRequest("PATCH", "/users/7", bytes.NewBuffer(body))

	handler.UpdateUser(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
