package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/srikiran1905s/FEDF/authentication"
	"github.com/srikiran1905s/FEDF/configuration"
	"github.com/srikiran1905s/FEDF/models"
	"gorm.io/gorm"
)

type PatientController struct {
	DB    *gorm.DB
	Cache *configuration.Cache
	Mail  *Mailer
}

func NewPatientController(db *gorm.DB, cache *configuration.Cache, mail *Mailer) *PatientController {
	return &PatientController{DB: db, Cache: cache, Mail: mail}
}

// Profile returns the authenticated patient's own record.
func (pc *PatientController) Profile(c *gin.Context) {
	var user models.User
	if err := pc.DB.First(&user, authentication.CurrentUserID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"error":   "NotFound",
				"message": "profile not found",
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

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": user})
}

type VitalsRequest struct {
	HeartRate     int     `json:"heartRate" validate:"required,gt=0"`
	BloodPressure string  `json:"bloodPressure" validate:"required"`
	Temperature   float64 `json:"temperature" validate:"required,gt=0"`
	Weight        float64 `json:"weight" validate:"required,gt=0"`
	RecordedAt    string  `json:"recordedAt"`
}

// AddVitals stores a new vitals reading for the patient.
func (pc *PatientController) AddVitals(c *gin.Context) {
	var req VitalsRequest
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

	recordedAt := time.Now()
	if req.RecordedAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.RecordedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"error":   "ValidationError",
				"message": "recordedAt must be an RFC3339 timestamp",
			})
			return
		}
		recordedAt = parsed
	}

	vitals := models.Vitals{
		PatientID:     authentication.CurrentUserID(c),
		HeartRate:     req.HeartRate,
		BloodPressure: req.BloodPressure,
		Temperature:   req.Temperature,
		Weight:        req.Weight,
		RecordedAt:    recordedAt,
	}

	if err := pc.DB.Create(&vitals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"error":   "InternalError",
			"message": "failed to save vitals",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": vitals})
}

// ListVitals returns the patient's vitals history, newest first.
func (pc *PatientController) ListVitals(c *gin.Context) {
	var vitals []models.Vitals
	if err := pc.DB.Where("patient_id = ?", authentication.CurrentUserID(c)).
		Order("recorded_at desc").Find(&vitals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"error":   "InternalError",
			"message": "failed to fetch vitals",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": vitals})
}

// LatestVitals returns the most recent reading, or NotFound when the
// patient has never recorded any.
func (pc *PatientController) LatestVitals(c *gin.Context) {
	var vitals models.Vitals
	err := pc.DB.Where("patient_id = ?", authentication.CurrentUserID(c)).
		Order("recorded_at desc").First(&vitals).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"error":   "NotFound",
				"message": "no vitals recorded yet",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"error":   "InternalError",
			"message": "failed to fetch vitals",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": vitals})
}

// ListAppointments returns the patient's appointment history.
func (pc *PatientController) ListAppointments(c *gin.Context) {
	var appointments []models.Appointment
	if err := pc.DB.Where("patient_id = ?", authentication.CurrentUserID(c)).
		Order("date desc").Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"error":   "InternalError",
			"message": "failed to fetch appointments",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": appointments})
}

type BookAppointmentRequest struct {
	DoctorID uint   `json:"doctorId" validate:"required"`
	Date     string `json:"date" validate:"required"`
	Time     string `json:"time" validate:"required"`
	Type     string `json:"type" validate:"required"`
	Notes    string `json:"notes"`
}

// BookAppointment creates a pending appointment for the authenticated
// patient with the chosen doctor.
func (pc *PatientController) BookAppointment(c *gin.Context) {
	var req BookAppointmentRequest
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

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"error":   "ValidationError",
			"message": "invalid date format, expected YYYY-MM-DD",
		})
		return
	}

	if date.Before(time.Now().Truncate(24 * time.Hour)) {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"error":   "ValidationError",
			"message": "appointment date cannot be in the past",
		})
		return
	}

	var doctor models.User
	if err := pc.DB.Where("user_id = ? AND role = ?", req.DoctorID, models.RoleDoctor).
		First(&doctor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"error":   "NotFound",
				"message": "doctor not found",
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

	patientID := authentication.CurrentUserID(c)

	// The slot is taken while another booking for it is still live.
	var conflict models.Appointment
	err = pc.DB.Where(
		"doctor_id = ? AND date = ? AND time_slot = ? AND status IN ?",
		req.DoctorID, date, req.Time,
		[]models.AppointmentStatus{models.StatusPending, models.StatusConfirmed},
	).First(&conflict).Error
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"error":   "ValidationError",
			"message": "this time slot is already booked with the doctor",
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"error":   "InternalError",
			"message": "failed to check the time slot",
		})
		return
	}

	var sameDay models.Appointment
	err = pc.DB.Where(
		"patient_id = ? AND doctor_id = ? AND date = ? AND status IN ?",
		patientID, req.DoctorID, date,
		[]models.AppointmentStatus{models.StatusPending, models.StatusConfirmed},
	).First(&sameDay).Error
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"error":   "ValidationError",
			"message": "you already have an appointment with this doctor on that day",
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"error":   "InternalError",
			"message": "failed to check existing appointments",
		})
		return
	}

	appointment := models.Appointment{
		BookingRef: uuid.New().String(),
		PatientID:  patientID,
		DoctorID:   req.DoctorID,
		Date:       date,
		TimeSlot:   req.Time,
		Type:       req.Type,
		Notes:      req.Notes,
		Status:     models.StatusPending,
	}

	if err := pc.DB.Create(&appointment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"error":   "InternalError",
			"message": "failed to book appointment",
		})
		return
	}

	if pc.Mail.Enabled() {
		go func(appt models.Appointment, doctorName string) {
			var patient models.User
			if err := pc.DB.First(&patient, appt.PatientID).Error; err != nil {
				logger.Error().Err(err).Uint("patientId", appt.PatientID).Msg("failed to load patient for confirmation email")
				return
			}
			if err := pc.Mail.SendAppointmentConfirmation(patient.Email, patient.Name, doctorName, appt); err != nil {
				logger.Error().Err(err).Str("bookingRef", appt.BookingRef).Msg("failed to send appointment confirmation email")
			}
		}(appointment, doctor.Name)
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "appointment booked successfully",
		"data":    appointment,
	})
}

// CancelAppointment cancels one of the patient's own appointments.
func (pc *PatientController) CancelAppointment(c *gin.Context) {
	var appointment models.Appointment
	if err := pc.DB.Where("appointment_id = ? AND patient_id = ?",
		c.Param("id"), authentication.CurrentUserID(c)).First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"error":   "NotFound",
				"message": "appointment not found",
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

	switch appointment.Status {
	case models.StatusCancelled:
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"error":   "ValidationError",
			"message": "appointment has already been cancelled",
		})
		return
	case models.StatusCompleted:
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"error":   "ValidationError",
			"message": "a completed appointment cannot be cancelled",
		})
		return
	}

	if err := pc.DB.Model(&appointment).Update("status", models.StatusCancelled).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"error":   "InternalError",
			"message": "failed to cancel appointment",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "appointment cancelled",
		"data":    appointment,
	})
}

// ListHealthRecords returns the records doctors have added for the patient.
func (pc *PatientController) ListHealthRecords(c *gin.Context) {
	var records []models.HealthRecord
	if err := pc.DB.Where("patient_id = ?", authentication.CurrentUserID(c)).
		Order("record_date desc").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"error":   "InternalError",
			"message": "failed to fetch health records",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": records})
}

// ListPrescriptions returns the patient's prescriptions, newest first.
func (pc *PatientController) ListPrescriptions(c *gin.Context) {
	var prescriptions []models.Prescription
	if err := pc.DB.Where("patient_id = ?", authentication.CurrentUserID(c)).
		Order("created_at desc").Find(&prescriptions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"error":   "InternalError",
			"message": "failed to fetch prescriptions",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": prescriptions})
}

// PrescriptionPDF renders one of the patient's prescriptions as a PDF
// download.
func (pc *PatientController) PrescriptionPDF(c *gin.Context) {
	patientID := authentication.CurrentUserID(c)

	var prescription models.Prescription
	if err := pc.DB.Where("id = ? AND patient_id = ?", c.Param("id"), patientID).
		First(&prescription).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"error":   "NotFound",
				"message": "prescription not found",
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

	var patient, doctor models.User
	if err := pc.DB.First(&patient, patientID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"error":   "InternalError",
			"message": "failed to load patient details",
		})
		return
	}
	if err := pc.DB.First(&doctor, prescription.DoctorID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"error":   "InternalError",
			"message": "failed to load doctor details",
		})
		return
	}

	var appointment models.Appointment
	if err := pc.DB.First(&appointment, prescription.AppointmentID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"error":   "InternalError",
			"message": "failed to load appointment details",
		})
		return
	}

	pdf, err := GeneratePrescriptionPDF(appointment, doctor, patient, prescription)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"error":   "InternalError",
			"message": "failed to generate the prescription PDF",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=prescription-%d.pdf", prescription.ID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
