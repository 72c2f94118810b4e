package doctor

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

func (m *mockService) UpsertDoctor(ctx context.Context, sess *model.Session, req *model.UpsertDoctorRequest) (*model.DoctorView, error) {
	args := m.Called(ctx, sess, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DoctorView), args.Error(1)
}

func (m *mockService) GetDoctor(ctx context.Context, sess *model.Session, id uuid.UUID) (*model.DoctorView, error) {
	args := m.Called(ctx, sess, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DoctorView), args.Error(1)
}

func (m *mockService) ListDoctors(ctx context.Context, sess *model.Session) ([]*model.DoctorView, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.DoctorView), args.Error(1)
}

func (m *mockService) DeleteDoctor(ctx context.Context, sess *model.Session, id uuid.UUID) error {
	return m.Called(ctx, sess, id).Error(0)
}

func setupRouter(svc *mockService, sess *model.Session) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorHandler())
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextSession, sess)
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func clinicSession() *model.Session {
	return &model.Session{User: &model.SessionUser{
		ID:     uuid.New(),
		Clinic: &model.SessionClinic{ID: uuid.New()},
	}}
}

const doctorBody = `{"name":"Dra. Ana","email":"ana@example.com","phone":"11999999999","specialization":"Cardiologia",` +
	`"appointment_price_in_cents":15000,"available_week_days":[1,3,5],"available_from_time":"08:00:00","available_to_time":"18:00:00"}`

func TestUpsertDoctor_CreateAndUpdateStatus(t *testing.T) {
	sess := clinicSession()
	svc := new(mockService)
	r := setupRouter(svc, sess)
	svc.On("UpsertDoctor", mock.Anything, sess, mock.Anything).Return(&model.DoctorView{}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/doctors", strings.NewReader(doctorBody)))
	assert.Equal(t, http.StatusCreated, w.Code)

	withID := `{"id":"` + uuid.New().String() + `",` + strings.TrimPrefix(doctorBody, "{")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/doctors", strings.NewReader(withID)))
	assert.Equal(t, http.StatusOK, w.Code)

	svc.AssertNumberOfCalls(t, "UpsertDoctor", 2)
}

func TestUpsertDoctor_PassesLocalTimes(t *testing.T) {
	sess := clinicSession()
	svc := new(mockService)
	r := setupRouter(svc, sess)
	svc.On("UpsertDoctor", mock.Anything, sess, mock.MatchedBy(func(req *model.UpsertDoctorRequest) bool {
		return req.AvailableFromTime == "08:00:00" && req.AvailableWeekdays.Contains(3)
	})).Return(&model.DoctorView{}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/doctors", strings.NewReader(doctorBody)))

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestListDoctors_WithoutClinic(t *testing.T) {
	sess := &model.Session{User: &model.SessionUser{ID: uuid.New()}}
	svc := new(mockService)
	r := setupRouter(svc, sess)
	svc.On("ListDoctors", mock.Anything, sess).Return(nil, apperrors.ClinicNotFound())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/doctors", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"clinic_not_found"`)
}

func TestDeleteDoctor(t *testing.T) {
	sess := clinicSession()
	svc := new(mockService)
	r := setupRouter(svc, sess)
	id := uuid.New()
	svc.On("DeleteDoctor", mock.Anything, sess, id).Return(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/doctors/"+id.String(), nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

func TestGetDoctor_Unauthorized(t *testing.T) {
	sess := &model.Session{}
	svc := new(mockService)
	r := setupRouter(svc, sess)
	id := uuid.New()
	svc.On("GetDoctor", mock.Anything, sess, id).Return(nil, apperrors.Unauthorized(nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/doctors/"+id.String(), nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
