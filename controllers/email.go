package controllers

import (
	"fmt"
	"io"

	"github.com/go-gomail/gomail"
	"github.com/srikiran1905s/FEDF/configuration"
	"github.com/srikiran1905s/FEDF/models"
)

// Mailer sends the transactional emails. When the SMTP settings are not
// configured every send is a no-op, so local setups work without a mail
// account.
type Mailer struct {
	host     string
	port     int
	email    string
	password string
}

func NewMailer(cfg *configuration.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		email:    cfg.SMTPEmail,
		password: cfg.SMTPPassword,
	}
}

func (m *Mailer) Enabled() bool {
	return m != nil && m.host != "" && m.email != ""
}

// send composes and sends an email with an optional attachment.
func (m *Mailer) send(to, subject, body, attachmentName string, attachmentData []byte) error {
	if !m.Enabled() {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.email)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if len(attachmentData) > 0 {
		msg.Attach(attachmentName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(attachmentData)
			return err
		}))
	}

	d := gomail.NewDialer(m.host, m.port, m.email, m.password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	return nil
}

// SendWelcomeEmail greets a freshly registered user.
func (m *Mailer) SendWelcomeEmail(to, name string) error {
	body := fmt.Sprintf("Hi %s,\n\nYour Vaidya account has been created. You can now sign in and manage your appointments.\n\nStay healthy!", name)
	return m.send(to, "Welcome to Vaidya", body, "", nil)
}

// SendAppointmentConfirmation mails the booking details to the patient.
func (m *Mailer) SendAppointmentConfirmation(to, name, doctorName string, appointment models.Appointment) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour appointment with Dr. %s has been booked.\n\nBooking reference: %s\nDate: %s\nTime: %s\n\nYou will be notified once the doctor confirms it.",
		name, doctorName, appointment.BookingRef,
		appointment.Date.Format("2006-01-02"), appointment.TimeSlot,
	)
	return m.send(to, "Appointment booked", body, "", nil)
}

// SendPrescriptionEmail mails the prescription PDF to the patient.
func (m *Mailer) SendPrescriptionEmail(to string, pdf []byte) error {
	return m.send(to, "Your prescription", "Your doctor has added a prescription for your recent appointment. Please find it attached.", "prescription.pdf", pdf)
}
