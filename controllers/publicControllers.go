package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/srikiran1905s/FEDF/configuration"
	"github.com/srikiran1905s/FEDF/models"
	"gorm.io/gorm"
)

type PublicController struct {
	DB    *gorm.DB
	Cache *configuration.Cache
}

func NewPublicController(db *gorm.DB, cache *configuration.Cache) *PublicController {
	return &PublicController{DB: db, Cache: cache}
}

// Health is the liveness probe. It also pings the database so the
// frontend can tell an app problem from a database problem.
func (pub *PublicController) Health(c *gin.Context) {
	status := "ok"
	message := "service is healthy"
	database := "connected"

	sqlDB, err := pub.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		status = "degraded"
		message = "database is not reachable"
		database = "unreachable"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"message":  message,
		"database": database,
	})
}

// DoctorInfo is the public projection of a doctor account.
type DoctorInfo struct {
	UserID         uint   `json:"userId"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Hospital       string `json:"hospital"`
	Experience     int    `json:"experience"`
}

// ListDoctors returns the doctor directory, optionally filtered by
// specialty. Results are cached, signup of a new doctor invalidates the
// affected keys.
func (pub *PublicController) ListDoctors(c *gin.Context) {
	specialty := strings.TrimSpace(c.Query("specialty"))
	key := doctorsCacheKey(specialty)
	ctx := c.Request.Context()

	var cached []DoctorInfo
	if hit, err := pub.Cache.Get(ctx, key, &cached); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("doctors cache read failed")
	} else if hit {
		c.JSON(http.StatusOK, gin.H{"status": "success", "data": cached})
		return
	}

	query := pub.DB.Where("role = ?", models.RoleDoctor)
	if specialty != "" {
		query = query.Where("LOWER(specialization) = ?", strings.ToLower(specialty))
	}

	var doctors []models.User
	if err := query.Order("name asc").Find(&doctors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"error":   "InternalError",
			"message": "failed to fetch doctors",
		})
		return
	}

	doctorInfoList := make([]DoctorInfo, 0, len(doctors))
	for _, doctor := range doctors {
		doctorInfoList = append(doctorInfoList, DoctorInfo{
			UserID:         doctor.UserID,
			Name:           doctor.Name,
			Specialization: optionalString(doctor.Specialization),
			Hospital:       optionalString(doctor.Hospital),
			Experience:     optionalInt(doctor.Experience),
		})
	}

	if err := pub.Cache.Set(ctx, key, doctorInfoList, 10*time.Minute); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("doctors cache write failed")
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": doctorInfoList})
}

func doctorsCacheKey(specialty string) string {
	if specialty == "" {
		return "doctors:all"
	}
	return "doctors:" + strings.ToLower(specialty)
}
