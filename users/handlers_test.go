package users_test

import (
	"api/domain"
	"api/users"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserStore using testify/mock
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) CreateUser(ctx context.Context, name, role string) (int64, error) {
	args := m.Called(ctx, name, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if users := args.Get(0); users != nil {
		return users.([]domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) DeleteUsers(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newUsersRouter(store users.UserStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := users.NewUsersHandler(store)
	r.POST("/users", h.CreateHandler)
	r.GET("/users", h.ListHandler)
	r.DELETE("/users", h.DeleteAllHandler)
	return r
}

func TestCreateHandler(t *testing.T) {
	t.Parallel()

	type testCase struct {
		description  string
		body         string
		setupMocks   func(m *MockUserStore)
		expectedCode int
		expectedBody string
	}

	testCases := []testCase{
		{
			description: "normal success",
			body:        `{"name":"oussama","role":"Doctor"}`,
			setupMocks: func(m *MockUserStore) {
				m.On("CreateUser", mock.Anything, "oussama", "Doctor").Return(int64(7), nil)
			},
			expectedCode: http.StatusCreated,
			expectedBody: `{"id":7}`,
		},
		{
			description:  "missing role",
			body:         `{"name":"oussama"}`,
			setupMocks:   func(m *MockUserStore) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"invalid-body"}`,
		},
		{
			description:  "non json request",
			body:         `{`,
			setupMocks:   func(m *MockUserStore) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"invalid-body"}`,
		},
		{
			description: "database failure",
			body:        `{"name":"oussama","role":"Doctor"}`,
			setupMocks: func(m *MockUserStore) {
				m.On("CreateUser", mock.Anything, "oussama", "Doctor").
					Return(int64(0), domain.UnexpectedDatabaseError)
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"unknown-error"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			t.Parallel()

			store := new(MockUserStore)
			tc.setupMocks(store)
			r := newUsersRouter(store)

			req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			res := httptest.NewRecorder()

			r.ServeHTTP(res, req)

			assert.Equal(t, tc.expectedCode, res.Code)
			assert.JSONEq(t, tc.expectedBody, res.Body.String())
			store.AssertExpectations(t)
		})
	}
}

func TestListHandler(t *testing.T) {
	t.Parallel()

	t.Run("returns users", func(t *testing.T) {
		t.Parallel()

		store := new(MockUserStore)
		store.On("ListUsers", mock.Anything).Return([]domain.User{
			{Id: 1, Name: "oussama", Role: "Mafioso"},
			{Id: 2, Name: "sami", Role: "Villager"},
		}, nil)
		r := newUsersRouter(store)

		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		res := httptest.NewRecorder()

		r.ServeHTTP(res, req)

		require.Equal(t, http.StatusOK, res.Code)
		assert.JSONEq(t,
			`[{"id":1,"name":"oussama","role":"Mafioso"},{"id":2,"name":"sami","role":"Villager"}]`,
			res.Body.String())
		store.AssertExpectations(t)
	})

	t.Run("database failure", func(t *testing.T) {
		t.Parallel()

		store := new(MockUserStore)
		store.On("ListUsers", mock.Anything).Return(nil, errors.New("boom"))
		r := newUsersRouter(store)

		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		res := httptest.NewRecorder()

		r.ServeHTTP(res, req)

		assert.Equal(t, http.StatusInternalServerError, res.Code)
	})
}

func TestDeleteAllHandler(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		store := new(MockUserStore)
		store.On("DeleteUsers", mock.Anything).Return(nil)
		r := newUsersRouter(store)

		req := httptest.NewRequest(http.MethodDelete, "/users", nil)
		res := httptest.NewRecorder()

		r.ServeHTTP(res, req)

		assert.Equal(t, http.StatusNoContent, res.Code)
		assert.Empty(t, res.Body.String())
		store.AssertExpectations(t)
	})

	t.Run("database failure", func(t *testing.T) {
		t.Parallel()

		store := new(MockUserStore)
		store.On("DeleteUsers", mock.Anything).Return(errors.New("boom"))
		r := newUsersRouter(store)

		req := httptest.NewRequest(http.MethodDelete, "/users", nil)
		res := httptest.NewRecorder()

		r.ServeHTTP(res, req)

		assert.Equal(t, http.StatusInternalServerError, res.Code)
	})
}
