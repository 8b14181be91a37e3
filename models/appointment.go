package models

import "time"

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

type Appointment struct {
	AppointmentID uint              `json:"appointmentId" gorm:"primaryKey"`
	BookingRef    string            `json:"bookingRef" gorm:"uniqueIndex;not null"`
	PatientID     uint              `json:"patientId" gorm:"index;not null"`
	DoctorID      uint              `json:"doctorId" gorm:"index;not null"`
	Date          time.Time         `json:"date"`
	TimeSlot      string            `json:"timeSlot"`
	Type          string            `json:"type"`
	Notes         string            `json:"notes"`
	Status        AppointmentStatus `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
}
