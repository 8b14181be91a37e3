package controllers

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
	"github.com/rs/zerolog"
	"github.com/srikiran1905s/FEDF/authentication"
	"github.com/srikiran1905s/FEDF/configuration"
	"github.com/srikiran1905s/FEDF/models"
	"gorm.io/gorm"
)

var validate = validator.New()

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

type AuthController struct {
	DB     *gorm.DB
	Tokens *authentication.TokenManager
	Cache  *configuration.Cache
	Mail   *Mailer
}

func NewAuthController(db *gorm.DB, tokens *authentication.TokenManager, cache *configuration.Cache, mail *Mailer) *AuthController {
	return &AuthController{DB: db, Tokens: tokens, Cache: cache, Mail: mail}
}

type SignupRequest struct {
	Name     string      `json:"name" validate:"required"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=8"`
	Role     models.Role `json:"role" validate:"required,oneof=patient doctor"`

	// patient fields
	Age    *int    `json:"age"`
	Gender *string `json:"gender"`
	Phone  *string `json:"phone"`

	// doctor fields
	Specialization *string `json:"specialization"`
	LicenseNumber  *string `json:"licenseNumber"`
	Hospital       *string `json:"hospital"`
	Experience     *int    `json:"experience"`
}

type SigninRequest struct {
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=patient doctor"`
}

// Signup registers a new patient or doctor account and signs the caller
// in right away.
func (ac *AuthController) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"error":   "ValidationError",
			"message": err.Error(),
		})
		return
	}

	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"error":   "ValidationError",
			"message": "please fill all the mandatory fields",
			"details": err.Error(),
		})
		return
	}

	if req.Role == models.RoleDoctor {
		if req.Specialization == nil || *req.Specialization == "" ||
			req.LicenseNumber == nil || *req.LicenseNumber == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"error":   "ValidationError",
				"message": "doctors must provide a specialization and a license number",
			})
			return
		}
	}

	email := normalizeEmail(req.Email)

	// Pre-check for a friendlier error message. The unique index on the
	// email column is what actually guards against a concurrent signup
	// with the same address.
	var existing models.User
	if err := ac.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"status":  "error",
			"error":   "DuplicateIdentity",
			"message": "email already registered",
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"error":   "InternalError",
			"message": "database error",
		})
		return
	}

	hashedPassword, err := authentication.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"error":   "InternalError",
			"message": "failed to hash password",
		})
		return
	}

	user := models.User{
		Name:     req.Name,
		Email:    email,
		Password: hashedPassword,
		Role:     req.Role,
	}
	switch req.Role {
	case models.RolePatient:
		user.Age = req.Age
		user.Gender = req.Gender
		user.Phone = req.Phone
	case models.RoleDoctor:
		user.Specialization = req.Specialization
		user.LicenseNumber = req.LicenseNumber
		user.Hospital = req.Hospital
		user.Experience = req.Experience
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		if isDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{
				"status":  "error",
				"error":   "DuplicateIdentity",
				"message": "email already registered",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"error":   "InternalError",
			"message": "failed to create user",
		})
		return
	}

	token, err := ac.Tokens.Issue(user.UserID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"error":   "InternalError",
			"message": "failed to generate token",
		})
		return
	}

	if user.Role == models.RoleDoctor {
		ac.invalidateDoctorsCache(c, user.Specialization)
	}

	if ac.Mail.Enabled() {
		go func(u models.User) {
			if err := ac.Mail.SendWelcomeEmail(u.Email, u.Name); err != nil {
				logger.Error().Err(err).Str("email", u.Email).Msg("failed to send welcome email")
			}
		}(user)
	}

	c.JSON(http.StatusCreated, gin.H{
		"token":  token,
		"userId": user.UserID,
		"role":   user.Role,
		"name":   user.Name,
	})
}

// Signin checks the credentials and issues a fresh token. An unknown
// email and a wrong password produce the same response on purpose.
func (ac *AuthController) Signin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"error":   "ValidationError",
			"message": err.Error(),
		})
		return
	}

	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"error":   "ValidationError",
			"message": "please fill all the mandatory fields",
			"details": err.Error(),
		})
		return
	}

	var user models.User
	if err := ac.DB.Where("email = ?", normalizeEmail(req.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"error":   "InvalidCredentials",
				"message": "invalid email or password",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"error":   "InternalError",
			"message": "database error",
		})
		return
	}

	if !authentication.CheckPassword(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"error":   "InvalidCredentials",
			"message": "invalid email or password",
		})
		return
	}

	if req.Role != "" && req.Role != user.Role {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"error":   "InvalidCredentials",
			"message": "invalid email or password",
		})
		return
	}

	token, err := ac.Tokens.Issue(user.UserID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"error":   "InternalError",
			"message": "failed to generate token",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"userId": user.UserID,
		"role":   user.Role,
		"name":   user.Name,
	})
}

// Logout acknowledges the request. Tokens are stateless and stay valid
// until they expire, the client simply discards its copy.
func (ac *AuthController) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "you are successfully logged out",
	})
}

func (ac *AuthController) invalidateDoctorsCache(c *gin.Context, specialization *string) {
	ctx := c.Request.Context()
	if err := ac.Cache.Delete(ctx, doctorsCacheKey("")); err != nil {
		logger.Warn().Err(err).Msg("failed to invalidate doctors cache")
	}
	if specialization != nil && *specialization != "" {
		if err := ac.Cache.Delete(ctx, doctorsCacheKey(*specialization)); err != nil {
			logger.Warn().Err(err).Msg("failed to invalidate doctors cache")
		}
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
