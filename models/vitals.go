package models

import "time"

type Vitals struct {
	VitalsID      uint      `json:"vitalsId" gorm:"primaryKey"`
	PatientID     uint      `json:"patientId" gorm:"index;not null"`
	HeartRate     int       `json:"heartRate"`
	BloodPressure string    `json:"bloodPressure"`
	Temperature   float64   `json:"temperature"`
	Weight        float64   `json:"weight"`
	RecordedAt    time.Time `json:"recordedAt"`
}
