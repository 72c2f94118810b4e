package clinic

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ryanolv/doctor-agenda/internal/middleware"
	"github.com/ryanolv/doctor-agenda/internal/model"
	apperrors "github.com/ryanolv/doctor-agenda/pkg/errors"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) CreateClinic(ctx context.Context, sess *model.Session, req *model.CreateClinicRequest) (*model.Clinic, error) {
	args := m.Called(ctx, sess, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Clinic), args.Error(1)
}

func (m *mockService) GetCurrentClinic(ctx context.Context, sess *model.Session) (*model.Clinic, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Clinic), args.Error(1)
}

func (m *mockService) UpdateCurrentClinic(ctx context.Context, sess *model.Session, req *model.UpdateClinicRequest) (*model.Clinic, error) {
	args := m.Called(ctx, sess, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Clinic), args.Error(1)
}

func setupRouter(svc *mockService, sess *model.Session) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextSession, sess)
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestCreateClinic(t *testing.T) {
	sess := &model.Session{User: &model.SessionUser{ID: uuid.New()}}
	svc := new(mockService)
	r := setupRouter(svc, sess)
	svc.On("CreateClinic", mock.Anything, sess, mock.MatchedBy(func(req *model.CreateClinicRequest) bool {
		return req.Name == "Clínica Centro"
	})).Return(&model.Clinic{Name: "Clínica Centro"}, nil)

	body := `{"name":"Clínica Centro","address":"Rua A, 1","phone":"1133334444","email":"contato@centro.com"}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/clinics", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Clínica Centro"`)
	svc.AssertExpectations(t)
}

func TestGetCurrentClinic_NeedsClinic(t *testing.T) {
	sess := &model.Session{User: &model.SessionUser{ID: uuid.New()}}
	svc := new(mockService)
	r := setupRouter(svc, sess)
	svc.On("GetCurrentClinic", mock.Anything, sess).Return(nil, apperrors.ClinicNotFound())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/clinics/current", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "clinic_not_found")
}

func TestUpdateCurrentClinic(t *testing.T) {
	sess := &model.Session{User: &model.SessionUser{ID: uuid.New(), Clinic: &model.SessionClinic{ID: uuid.New()}}}
	svc := new(mockService)
	r := setupRouter(svc, sess)
	svc.On("UpdateCurrentClinic", mock.Anything, sess, mock.Anything).Return(&model.Clinic{Name: "Nova"}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/v1/clinics/current", strings.NewReader(`{"name":"Nova"}`)))

	assert.Equal(t, http.StatusOK, w.Code)
}
