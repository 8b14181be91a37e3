package models

import "github.com/golang-jwt/jwt/v5"

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

// User holds both patient and doctor accounts. The Role column decides
// which of the optional profile fields are populated.
type User struct {
	UserID   uint   `json:"userId" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null"`
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"`
	Role     Role   `json:"role" gorm:"not null;index"`

	// patient profile
	Age    *int    `json:"age,omitempty"`
	Gender *string `json:"gender,omitempty"`
	Phone  *string `json:"phone,omitempty"`

	// doctor profile
	Specialization *string `json:"specialization,omitempty"`
	LicenseNumber  *string `json:"licenseNumber,omitempty"`
	Hospital       *string `json:"hospital,omitempty"`
	Experience     *int    `json:"experience,omitempty"`
}

type AuthClaims struct {
	UserID uint `json:"userId"`
	Role   Role `json:"role"`
	jwt.RegisteredClaims
}
