package models

import "time"

type HealthRecordType string

const (
	RecordTypeConsultationNote  HealthRecordType = "ConsultationNote"
	RecordTypeLabResult         HealthRecordType = "LabResult"
	RecordTypeImagingReport     HealthRecordType = "ImagingReport"
	RecordTypeVaccinationRecord HealthRecordType = "VaccinationRecord"
	RecordTypeDischargeSummary  HealthRecordType = "DischargeSummary"
)

type HealthRecord struct {
	RecordID   uint             `json:"recordId" gorm:"primaryKey"`
	PatientID  uint             `json:"patientId" gorm:"index;not null"`
	DoctorID   uint             `json:"doctorId" gorm:"index;not null"`
	RecordType HealthRecordType `json:"recordType" gorm:"not null"`
	Title      string           `json:"title"`
	Summary    string           `json:"summary"`
	RecordDate time.Time        `json:"recordDate"`
}
