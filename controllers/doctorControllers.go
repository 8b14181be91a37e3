package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/srikiran1905s/FEDF/authentication"
	"github.com/srikiran1905s/FEDF/configuration"
	"github.com/srikiran1905s/FEDF/models"
	"gorm.io/gorm"
)

type DoctorController struct {
	DB    *gorm.DB
	Cache *configuration.Cache
	Mail  *Mailer
}

func NewDoctorController(db *gorm.DB, cache *configuration.Cache, mail *Mailer) *DoctorController {
	return &DoctorController{DB: db, Cache: cache, Mail: mail}
}

// Profile returns the authenticated doctor's own record.
func (dc *DoctorController) Profile(c *gin.Context) {
	var user models.User
	if err := dc.DB.First(&user, authentication.CurrentUserID(c)).Error; err != nil {
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

// Appointments lists the doctor's appointments, optionally filtered by
// date (YYYY-MM-DD) and status.
func (dc *DoctorController) Appointments(c *gin.Context) {
	query := dc.DB.Where("doctor_id = ?", authentication.CurrentUserID(c))

	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"error":   "ValidationError",
				"message": "invalid date format, expected YYYY-MM-DD",
			})
			return
		}
		query = query.Where("date = ?", date)
	}

	if status := c.Query("status"); status != "" {
		switch models.AppointmentStatus(status) {
		case models.StatusPending, models.StatusConfirmed, models.StatusCompleted, models.StatusCancelled:
			query = query.Where("status = ?", status)
		default:
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"error":   "ValidationError",
				"message": "unknown appointment status",
			})
			return
		}
	}

	var appointments []models.Appointment
	if err := query.Order("date desc").Find(&appointments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"error":   "InternalError",
			"message": "failed to fetch appointments",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": appointments})
}

type AppointmentStatusRequest struct {
	Status models.AppointmentStatus `json:"status" validate:"required,oneof=confirmed completed cancelled"`
}

// UpdateAppointmentStatus moves one of the doctor's appointments through
// its lifecycle. Pending bookings can be confirmed or cancelled,
// confirmed ones completed or cancelled, terminal states stay put.
func (dc *DoctorController) UpdateAppointmentStatus(c *gin.Context) {
	var req AppointmentStatusRequest
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
			"message": "status must be confirmed, completed or cancelled",
		})
		return
	}

	var appointment models.Appointment
	if err := dc.DB.Where("appointment_id = ? AND doctor_id = ?",
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

	allowed := false
	switch appointment.Status {
	case models.StatusPending:
		allowed = req.Status == models.StatusConfirmed || req.Status == models.StatusCancelled
	case models.StatusConfirmed:
		allowed = req.Status == models.StatusCompleted || req.Status == models.StatusCancelled
	}
	if !allowed {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"error":   "ValidationError",
			"message": fmt.Sprintf("cannot move a %s appointment to %s", appointment.Status, req.Status),
		})
		return
	}

	if err := dc.DB.Model(&appointment).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"error":   "InternalError",
			"message": "failed to update appointment status",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": appointment})
}

type PrescriptionRequest struct {
	PatientID     uint   `json:"patientId" validate:"required"`
	AppointmentID uint   `json:"appointmentId" validate:"required"`
	Diagnosis     string `json:"diagnosis" validate:"required"`
	Medication    string `json:"medication" validate:"required"`
	Instructions  string `json:"instructions"`
}

// AddPrescription records a prescription for a confirmed appointment and
// marks the appointment completed. The patient gets the prescription PDF
// by email in the background.
func (dc *DoctorController) AddPrescription(c *gin.Context) {
	var req PrescriptionRequest
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

	doctorID := authentication.CurrentUserID(c)

	var patient models.User
	if err := dc.DB.Where("user_id = ? AND role = ?", req.PatientID, models.RolePatient).
		First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"error":   "NotFound",
				"message": "patient not found",
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

	var appointment models.Appointment
	if err := dc.DB.Where("appointment_id = ? AND doctor_id = ? AND patient_id = ?",
		req.AppointmentID, doctorID, req.PatientID).First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"error":   "NotFound",
				"message": "no appointment found for this doctor and patient",
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
	case models.StatusPending:
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"error":   "ValidationError",
			"message": "appointment is not confirmed yet",
		})
		return
	case models.StatusCompleted:
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"error":   "ValidationError",
			"message": "a prescription has already been added for this appointment",
		})
		return
	case models.StatusCancelled:
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"error":   "ValidationError",
			"message": "appointment has been cancelled",
		})
		return
	}

	prescription := models.Prescription{
		PatientID:     req.PatientID,
		DoctorID:      doctorID,
		AppointmentID: req.AppointmentID,
		Diagnosis:     req.Diagnosis,
		Medication:    req.Medication,
		Instructions:  req.Instructions,
	}

	if err := dc.DB.Create(&prescription).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"error":   "InternalError",
			"message": "failed to add prescription",
		})
		return
	}

	if err := dc.DB.Model(&appointment).Update("status", models.StatusCompleted).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"error":   "InternalError",
			"message": "failed to update appointment status",
		})
		return
	}

	if dc.Mail.Enabled() {
		var doctor models.User
		if err := dc.DB.First(&doctor, doctorID).Error; err == nil {
			go func(appt models.Appointment, doc, pat models.User, presc models.Prescription) {
				pdf, err := GeneratePrescriptionPDF(appt, doc, pat, presc)
				if err != nil {
					logger.Error().Err(err).Uint("prescriptionId", presc.ID).Msg("failed to generate prescription PDF")
					return
				}
				if err := dc.Mail.SendPrescriptionEmail(pat.Email, pdf); err != nil {
					logger.Error().Err(err).Str("email", pat.Email).Msg("failed to send prescription email")
				}
			}(appointment, doctor, patient, prescription)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "prescription added successfully",
		"data":    prescription,
	})
}

type HealthRecordRequest struct {
	PatientID  uint                    `json:"patientId" validate:"required"`
	RecordType models.HealthRecordType `json:"recordType" validate:"required,oneof=ConsultationNote LabResult ImagingReport VaccinationRecord DischargeSummary"`
	Title      string                  `json:"title" validate:"required"`
	Summary    string                  `json:"summary" validate:"required"`
	RecordDate string                  `json:"recordDate"`
}

// AddHealthRecord attaches a health record to a patient the doctor has
// an appointment with.
func (dc *DoctorController) AddHealthRecord(c *gin.Context) {
	var req HealthRecordRequest
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

	recordDate := time.Now()
	if req.RecordDate != "" {
		parsed, err := time.Parse("2006-01-02", req.RecordDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"error":   "ValidationError",
				"message": "invalid record date, expected YYYY-MM-DD",
			})
			return
		}
		recordDate = parsed
	}

	doctorID := authentication.CurrentUserID(c)
	if !dc.hasTreated(doctorID, req.PatientID) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"error":   "NotFound",
			"message": "no appointment found with this patient",
		})
		return
	}

	record := models.HealthRecord{
		PatientID:  req.PatientID,
		DoctorID:   doctorID,
		RecordType: req.RecordType,
		Title:      req.Title,
		Summary:    req.Summary,
		RecordDate: recordDate,
	}

	if err := dc.DB.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"error":   "InternalError",
			"message": "failed to save health record",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": record})
}

// PatientVitals lets a doctor read the vitals of a patient they have an
// appointment with.
func (dc *DoctorController) PatientVitals(c *gin.Context) {
	var patient models.User
	if err := dc.DB.Where("user_id = ? AND role = ?", c.Param("id"), models.RolePatient).
		First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"error":   "NotFound",
				"message": "patient not found",
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

	if !dc.hasTreated(authentication.CurrentUserID(c), patient.UserID) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"error":   "NotFound",
			"message": "no appointment found with this patient",
		})
		return
	}

	var vitals []models.Vitals
	if err := dc.DB.Where("patient_id = ?", patient.UserID).
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

// hasTreated reports whether the doctor has a live or completed
// appointment with the patient.
func (dc *DoctorController) hasTreated(doctorID, patientID uint) bool {
	var appointment models.Appointment
	err := dc.DB.Where(
		"doctor_id = ? AND patient_id = ? AND status IN ?",
		doctorID, patientID,
		[]models.AppointmentStatus{models.StatusPending, models.StatusConfirmed, models.StatusCompleted},
	).First(&appointment).Error
	return err == nil
}

// GeneratePrescriptionPDF renders a prescription as a PDF document.
func GeneratePrescriptionPDF(appointment models.Appointment, doctor, patient models.User, prescription models.Prescription) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, "Vaidya - Doctor Prescription", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 12)
	addDetail(pdf, "Doctor Name:", doctor.Name, true)
	addDetail(pdf, "Specialization:", optionalString(doctor.Specialization), false)

	pdf.SetFont("Arial", "B", 12)
	pdf.SetY(pdf.GetY() + 10)
	addDetail(pdf, "Patient Name:", patient.Name, true)
	if patient.Age != nil {
		addDetail(pdf, "Age:", fmt.Sprintf("%d", *patient.Age), false)
	}
	addDetail(pdf, "Gender:", optionalString(patient.Gender), false)

	pdf.SetFont("Arial", "B", 12)
	pdf.SetY(pdf.GetY() + 10)
	addDetail(pdf, "Appointment Date:", appointment.Date.Format("2006-01-02"), true)
	addDetail(pdf, "Time Slot:", appointment.TimeSlot, false)

	pdf.SetFont("Arial", "B", 12)
	pdf.SetY(pdf.GetY() + 10)
	addDetail(pdf, "Prescription ID:", fmt.Sprintf("%d", prescription.ID), true)
	addDetail(pdf, "Diagnosis:", prescription.Diagnosis, false)
	addDetail(pdf, "Medication:", prescription.Medication, false)
	addDetail(pdf, "Instructions:", prescription.Instructions, false)

	pdf.SetFont("Arial", "", 10)
	pdf.SetY(pdf.GetY() + 10)
	pdf.MultiCell(0, 5, "Follow the instructions given by the doctor properly. Your health is all that matters!", "", "C", false)

	var pdfBuffer bytes.Buffer
	if err := pdf.Output(&pdfBuffer); err != nil {
		return nil, err
	}

	return pdfBuffer.Bytes(), nil
}

// addDetail adds a labelled line to the PDF
func addDetail(pdf *gofpdf.Fpdf, label, value string, isHeader bool) {
	if isHeader {
		pdf.SetFont("Arial", "B", 12)
	} else {
		pdf.SetFont("Arial", "", 12)
	}
	pdf.CellFormat(0, 10, label, "", 1, "", false, 0, "")
	pdf.CellFormat(0, 10, value, "", 1, "", false, 0, "")
}

func optionalString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optionalInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
