package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"roommate-service/internal/mocks"
	"roommate-service/internal/telemetry"
)

func TestDebugRoutesDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterDebugRoutes(r, nil, false)

	rec := doRequest(t, r, http.MethodGet, "/debug/audit-test", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDebugAuditTestPublishes(t *testing.T) {
	pub := new(mocks.PublisherMock)
	pub.On("Publish", mock.Anything, "audit.roommate", mock.AnythingOfType("telemetry.AuditEnvelope")).Return(nil).Once()
	r := newTestRouter("u1")
	RegisterDebugRoutes(r, telemetry.NewAuditEmitter(pub, "audit.roommate", "roommate-service", "test"), true)

	rec := doRequest(t, r, http.MethodGet, "/debug/audit-test", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	pub.AssertExpectations(t)
}
