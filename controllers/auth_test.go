package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupCreatesAccountAndIssuesToken(t *testing.T) {
	router := newTestRouter(t)

	resp := signupPatient(t, router, "asha@example.com")

	assert.NotEmpty(t, resp.Token)
	assert.NotZero(t, resp.UserID)
	assert.Equal(t, "patient", resp.Role)
	assert.Equal(t, "Asha Rao", resp.Name)
}

func TestSignupRejectsMissingFields(t *testing.T) {
	router := newTestRouter(t)

	w := performRequest(router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name":  "Asha Rao",
		"email": "asha@example.com",
		"role":  "patient",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ValidationError", errorCode(t, w))
}

func TestSignupRejectsMalformedEmail(t *testing.T) {
	router := newTestRouter(t)

	w := performRequest(router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name":     "Asha Rao",
		"email":    "not-an-email",
		"password": "secret123",
		"role":     "patient",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ValidationError", errorCode(t, w))
}

func TestSignupRejectsUnknownRole(t *testing.T) {
	router := newTestRouter(t)

	w := performRequest(router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name":     "Asha Rao",
		"email":    "asha@example.com",
		"password": "secret123",
		"role":     "admin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ValidationError", errorCode(t, w))
}

func TestSignupDoctorRequiresLicense(t *testing.T) {
	router := newTestRouter(t)

	w := performRequest(router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name":     "Meera Iyer",
		"email":    "meera@example.com",
		"password": "secret123",
		"role":     "doctor",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ValidationError", errorCode(t, w))
}

func TestSignupDuplicateEmail(t *testing.T) {
	router := newTestRouter(t)

	signupPatient(t, router, "asha@example.com")

	w := performRequest(router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name":     "Another Asha",
		"email":    "asha@example.com",
		"password": "different456",
		"role":     "patient",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DuplicateIdentity", errorCode(t, w))
}

func TestSignupDuplicateEmailIsCaseInsensitive(t *testing.T) {
	router := newTestRouter(t)

	signupPatient(t, router, "Asha@Example.com")

	w := performRequest(router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name":           "Another Asha",
		"email":          "asha@example.com",
		"password":       "different456",
		"role":           "doctor",
		"specialization": "Dermatology",
		"licenseNumber":  "KA-2024-118",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DuplicateIdentity", errorCode(t, w))
}

func TestSigninReturnsFreshToken(t *testing.T) {
	router := newTestRouter(t)

	created := signupPatient(t, router, "asha@example.com")

	w := performRequest(router, http.MethodPost, "/api/auth/signin", "", gin.H{
		"email":    "asha@example.com",
		"password": "secret123",
		"role":     "patient",
	})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	var resp authResponse
	decodeJSON(t, w, &resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, created.UserID, resp.UserID)
	assert.Equal(t, "patient", resp.Role)

	// the fresh token must grant access to protected routes
	profile := performRequest(router, http.MethodGet, "/api/patient/profile", resp.Token, nil)
	assert.Equal(t, http.StatusOK, profile.Code)
}

func TestSigninWrongPassword(t *testing.T) {
	router := newTestRouter(t)

	signupPatient(t, router, "asha@example.com")

	w := performRequest(router, http.MethodPost, "/api/auth/signin", "", gin.H{
		"email":    "asha@example.com",
		"password": "wrongpass99",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "InvalidCredentials", errorCode(t, w))
}

func TestSigninUnknownEmailLooksLikeWrongPassword(t *testing.T) {
	router := newTestRouter(t)

	signupPatient(t, router, "asha@example.com")

	wrongPassword := performRequest(router, http.MethodPost, "/api/auth/signin", "", gin.H{
		"email":    "asha@example.com",
		"password": "wrongpass99",
	})
	unknownEmail := performRequest(router, http.MethodPost, "/api/auth/signin", "", gin.H{
		"email":    "nobody@example.com",
		"password": "wrongpass99",
	})

	// the two failures must be indistinguishable
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestSigninRoleMismatch(t *testing.T) {
	router := newTestRouter(t)

	signupPatient(t, router, "asha@example.com")

	w := performRequest(router, http.MethodPost, "/api/auth/signin", "", gin.H{
		"email":    "asha@example.com",
		"password": "secret123",
		"role":     "doctor",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "InvalidCredentials", errorCode(t, w))
}

func TestPasswordHashNeverLeaves(t *testing.T) {
	router := newTestRouter(t)

	resp := signupPatient(t, router, "asha@example.com")

	profile := performRequest(router, http.MethodGet, "/api/patient/profile", resp.Token, nil)
	require.Equal(t, http.StatusOK, profile.Code)

	assert.NotContains(t, profile.Body.String(), "password")
	assert.NotContains(t, profile.Body.String(), "$2a$")

	var body struct {
		Data map[string]any `json:"data"`
	}
	decodeJSON(t, profile, &body)
	_, present := body.Data["password"]
	assert.False(t, present)
	assert.Equal(t, "asha@example.com", body.Data["email"])
}

func TestLogoutAcknowledges(t *testing.T) {
	router := newTestRouter(t)

	resp := signupPatient(t, router, "asha@example.com")

	w := performRequest(router, http.MethodPost, "/api/auth/logout", resp.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// tokens are stateless, the old token still works after logout
	profile := performRequest(router, http.MethodGet, "/api/patient/profile", resp.Token, nil)
	assert.Equal(t, http.StatusOK, profile.Code)
}

func TestLogoutRequiresToken(t *testing.T) {
	router := newTestRouter(t)

	w := performRequest(router, http.MethodPost, "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
