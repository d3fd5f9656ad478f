package entity

import (
	"time"

	"github.com/google/uuid"
)

type PrescriptionStatus string

const (
	PrescriptionStatusActive    PrescriptionStatus = "active"
	PrescriptionStatusCompleted PrescriptionStatus = "completed"
	PrescriptionStatusCancelled PrescriptionStatus = "cancelled"
)

type Medication struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions,omitempty"`
}

// Prescription is issued by a doctor against one of their completed appointments.
type Prescription struct {
	ID            uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"doctor_id"`
	AppointmentID uuid.UUID          `gorm:"type:uuid;not null;index" json:"appointment_id"`
	Medications   []Medication       `gorm:"type:jsonb;serializer:json;not null" json:"medications"`
	Diagnosis     string             `gorm:"type:text" json:"diagnosis,omitempty"`
	Notes         string             `gorm:"type:text" json:"notes,omitempty"`
	Status        PrescriptionStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	CreatedAt     time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time          `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient     PatientProfile `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor      DoctorProfile  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Appointment Appointment    `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

func (p *Prescription) IsActive() bool {
	return p.Status == PrescriptionStatusActive
}

func (p *Prescription) IsParticipant(userID uuid.UUID) bool {
	return p.PatientID == userID || p.DoctorID == userID
}

func ParsePrescriptionStatus(s string) (PrescriptionStatus, bool) {
	switch st := PrescriptionStatus(s); st {
	case PrescriptionStatusActive, PrescriptionStatusCompleted, PrescriptionStatusCancelled:
		return st, true
	}
	return "", false
}
