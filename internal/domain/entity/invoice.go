package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// InvoiceItem is one billed service line.
type InvoiceItem struct {
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
}

// Invoice is generated exactly once, when its appointment is completed.
type Invoice struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AppointmentID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"appointment_id"`
	PatientID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"doctor_id"`
	InvoiceNumber string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"invoice_number"`
	InvoiceDate   time.Time       `gorm:"not null" json:"invoice_date"`
	Services      []InvoiceItem   `gorm:"type:jsonb;serializer:json;not null" json:"services"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	Status        InvoiceStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Appointment Appointment    `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
	Patient     PatientProfile `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor      DoctorProfile  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Invoice) TableName() string {
	return "invoices"
}

func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

// IsParticipant reports whether userID is the invoice's patient or doctor.
func (i *Invoice) IsParticipant(userID uuid.UUID) bool {
	return i.PatientID == userID || i.DoctorID == userID
}

// InvoiceSequence holds the last issued invoice number per calendar year.
type InvoiceSequence struct {
	Year      int   `gorm:"primaryKey;autoIncrement:false" json:"year"`
	LastValue int64 `gorm:"not null" json:"last_value"`
}

func (InvoiceSequence) TableName() string {
	return "invoice_sequences"
}

// FormatInvoiceNumber renders INV-<year>-<5-digit sequence>.
func FormatInvoiceNumber(year int, seq int64) string {
	return fmt.Sprintf("INV-%d-%05d", year, seq)
}

// NewConsultationInvoice builds the single-line invoice for a completed
// appointment. The total is the appointment's fee snapshot.
func NewConsultationInvoice(appt *Appointment, number string, issuedAt time.Time) *Invoice {
	return &Invoice{
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		DoctorID:      appt.DoctorID,
		InvoiceNumber: number,
		InvoiceDate:   issuedAt,
		Services: []InvoiceItem{
			{Description: "Consultation - " + appt.Reason, Cost: appt.Fee},
		},
		TotalAmount: appt.Fee,
		Status:      InvoiceStatusPending,
	}
}
