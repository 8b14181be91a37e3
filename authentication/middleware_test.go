package authentication

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/srikiran1905s/FEDF/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func patientOnlyRouter(tm *TokenManager) *gin.Engine {
	r := gin.New()
	r.GET("/me", RequireRole(tm, models.RolePatient), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": CurrentUserID(c),
			"role":   CurrentRole(c),
		})
	})
	return r
}

func get(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestRequireRoleMissingHeader(t *testing.T) {
	tm := NewTokenManager("unit-test-secret", time.Hour)
	w := get(patientOnlyRouter(tm), "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", errorCode(t, w))
}

func TestRequireRoleRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("unit-test-secret", time.Hour)
	w := get(patientOnlyRouter(tm), "garbage")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleRejectsExpired(t *testing.T) {
	tm := NewTokenManager("unit-test-secret", time.Hour)
	expired := NewTokenManager("unit-test-secret", -time.Minute)

	token, err := expired.Issue(7, models.RolePatient)
	require.NoError(t, err)

	w := get(patientOnlyRouter(tm), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Expired", errorCode(t, w))
}

func TestRequireRoleRejectsForeignSignature(t *testing.T) {
	tm := NewTokenManager("unit-test-secret", time.Hour)
	forged := NewTokenManager("attacker-secret", time.Hour)

	token, err := forged.Issue(7, models.RolePatient)
	require.NoError(t, err)

	w := get(patientOnlyRouter(tm), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "InvalidSignature", errorCode(t, w))
}

func TestRequireRoleRejectsWrongRole(t *testing.T) {
	tm := NewTokenManager("unit-test-secret", time.Hour)

	token, err := tm.Issue(7, models.RoleDoctor)
	require.NoError(t, err)

	w := get(patientOnlyRouter(tm), token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden", errorCode(t, w))
}

func TestRequireRoleInjectsIdentity(t *testing.T) {
	tm := NewTokenManager("unit-test-secret", time.Hour)

	token, err := tm.Issue(7, models.RolePatient)
	require.NoError(t, err)

	w := get(patientOnlyRouter(tm), token)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		UserID uint        `json:"userId"`
		Role   models.Role `json:"role"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, uint(7), body.UserID)
	assert.Equal(t, models.RolePatient, body.Role)
}
