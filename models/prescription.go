package models

import (
	"gorm.io/gorm"
)

type Prescription struct {
	gorm.Model
	PatientID     uint   `json:"patientId" gorm:"index;not null"`
	DoctorID      uint   `json:"doctorId" gorm:"index;not null"`
	AppointmentID uint   `json:"appointmentId" gorm:"index;not null"`
	Diagnosis     string `json:"diagnosis"`
	Medication    string `json:"medication"`
	Instructions  string `json:"instructions"`
}
