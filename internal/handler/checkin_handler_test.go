package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfma-ops/checkin-api/internal/models"
	"github.com/dfma-ops/checkin-api/internal/service"
	appErrors "github.com/dfma-ops/checkin-api/pkg/errors"
)

type checkinServiceMock struct {
	session    *models.Session
	resolveErr error
	result     *service.CheckInResult
	checkinErr error
	policies   []models.WritePolicy
}

func (m *checkinServiceMock) ResolveCode(code string) (*models.Session, error) {
	if m.resolveErr != nil {
		return nil, m.resolveErr
	}
	return m.session, nil
}

func (m *checkinServiceMock) CheckIn(ctx context.Context, req service.CheckInRequest, policy models.WritePolicy) (*service.CheckInResult, error) {
	m.policies = append(m.policies, policy)
	if m.checkinErr != nil {
		return nil, m.checkinErr
	}
	return m.result, nil
}

type policyMock struct {
	policy models.WritePolicy
}

func (m policyMock) Policy() models.WritePolicy { return m.policy }

func postCheckin(t *testing.T, h *CheckinHandler, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, _ := http.NewRequest(http.MethodPost, "/checkin", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	h.CheckIn(c)
	return w
}

func TestCheckinHandlerSuccess(t *testing.T) {
	mock := &checkinServiceMock{result: &service.CheckInResult{
		Record:   models.AttendanceRecord{Name: "Alice Tan", Status: "On-time"},
		Greeting: "Welcome Alice Tan!",
	}}
	h := NewCheckinHandler(mock, policyMock{policy: models.PolicyLocalOnly})

	w := postCheckin(t, h, service.CheckInRequest{Code: "123456", Name: "Alice Tan", Proof: "1234"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []models.WritePolicy{models.PolicyLocalOnly}, mock.policies)
	assert.Contains(t, w.Body.String(), "Welcome Alice Tan!")
}

func TestCheckinHandlerVerificationFailed(t *testing.T) {
	mock := &checkinServiceMock{checkinErr: appErrors.ErrVerificationFailed}
	h := NewCheckinHandler(mock, policyMock{policy: models.PolicyMirror})

	w := postCheckin(t, h, service.CheckInRequest{Code: "123456", Name: "Alice Tan", Proof: "0000"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), appErrors.ErrVerificationFailed.Code)
}

func TestCheckinHandlerMalformedBody(t *testing.T) {
	h := NewCheckinHandler(&checkinServiceMock{}, policyMock{})
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/checkin", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	h.CheckIn(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckinHandlerResolve(t *testing.T) {
	mock := &checkinServiceMock{session: &models.Session{ID: 1, Name: "Briefing", Code: "123456"}}
	h := NewCheckinHandler(mock, policyMock{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/checkin/sessions/123456", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "code", Value: "123456"}}
	h.Resolve(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Briefing")
}

func TestCheckinHandlerResolveUnknownCode(t *testing.T) {
	mock := &checkinServiceMock{resolveErr: appErrors.ErrInvalidCode}
	h := NewCheckinHandler(mock, policyMock{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/checkin/sessions/999999", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "code", Value: "999999"}}
	h.Resolve(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
