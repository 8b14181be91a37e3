package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/srikiran1905s/FEDF/authentication"
	"github.com/srikiran1905s/FEDF/configuration"
	"github.com/srikiran1905s/FEDF/controllers"
	"github.com/srikiran1905s/FEDF/routes"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "unit-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestDB opens a fresh in-memory sqlite database named after the
// test, so parallel tests never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, configuration.MigrateModels(db))
	return db
}

// newTestRouter assembles the full application against a test database.
// Redis and SMTP are left unconfigured, so caching and emails are off.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := &configuration.Config{
		TokenTTL:          time.Hour,
		AuthRatePerSecond: 1000,
		AuthRateBurst:     1000,
	}
	db := newTestDB(t)
	tokens := authentication.NewTokenManager(testSecret, cfg.TokenTTL)
	cache := configuration.NewCache("", "")
	mail := controllers.NewMailer(cfg)
	return routes.SetupRouter(cfg, db, cache, mail, tokens)
}

func performRequest(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest), "body: %s", w.Body.String())
}

type authResponse struct {
	Token  string `json:"token"`
	UserID uint   `json:"userId"`
	Role   string `json:"role"`
	Name   string `json:"name"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	decodeJSON(t, w, &body)
	return body.Error
}

func signupPatient(t *testing.T, router *gin.Engine, email string) authResponse {
	t.Helper()
	w := performRequest(router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name":     "Asha Rao",
		"email":    email,
		"password": "secret123",
		"role":     "patient",
		"age":      30,
		"gender":   "female",
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	var resp authResponse
	decodeJSON(t, w, &resp)
	return resp
}

func signupDoctor(t *testing.T, router *gin.Engine, email string) authResponse {
	t.Helper()
	w := performRequest(router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name":           "Meera Iyer",
		"email":          email,
		"password":       "secret123",
		"role":           "doctor",
		"specialization": "Cardiology",
		"licenseNumber":  "KA-2024-117",
		"hospital":       "City Care Hospital",
		"experience":     8,
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	var resp authResponse
	decodeJSON(t, w, &resp)
	return resp
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

type appointmentData struct {
	AppointmentID uint   `json:"appointmentId"`
	BookingRef    string `json:"bookingRef"`
	PatientID     uint   `json:"patientId"`
	DoctorID      uint   `json:"doctorId"`
	TimeSlot      string `json:"timeSlot"`
	Type          string `json:"type"`
	Status        string `json:"status"`
}

type appointmentEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    appointmentData `json:"data"`
}

func bookAppointment(t *testing.T, router *gin.Engine, patientToken string, doctorID uint, date, slot string) appointmentData {
	t.Helper()
	w := performRequest(router, http.MethodPost, "/api/patient/appointments", patientToken, gin.H{
		"doctorId": doctorID,
		"date":     date,
		"time":     slot,
		"type":     "Consultation",
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	var resp appointmentEnvelope
	decodeJSON(t, w, &resp)
	return resp.Data
}
