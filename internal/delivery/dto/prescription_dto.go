package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type MedicationRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Dosage       string `json:"dosage" validate:"required,max=100"`
	Frequency    string `json:"frequency" validate:"required,max=100"`
	Duration     string `json:"duration" validate:"required,max=100"`
	Instructions string `json:"instructions" validate:"omitempty,max=500"`
}

type CreatePrescriptionRequest struct {
	AppointmentID uuid.UUID           `json:"appointment_id" validate:"required"`
	Medications   []MedicationRequest `json:"medications" validate:"required,min=1,dive"`
	Diagnosis     string              `json:"diagnosis" validate:"omitempty,max=2000"`
	Notes         string              `json:"notes" validate:"omitempty,max=2000"`
}

type UpdatePrescriptionRequest struct {
	Medications []MedicationRequest `json:"medications" validate:"omitempty,min=1,dive"`
	Diagnosis   *string             `json:"diagnosis" validate:"omitempty,max=2000"`
	Notes       *string             `json:"notes" validate:"omitempty,max=2000"`
	Status      *string             `json:"status" validate:"omitempty,oneof=active completed cancelled"`
}

// Response DTOs

type MedicationResponse struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions,omitempty"`
}

type PrescriptionResponse struct {
	ID              uuid.UUID            `json:"id"`
	AppointmentID   uuid.UUID            `json:"appointment_id"`
	PatientID       uuid.UUID            `json:"patient_id"`
	DoctorID        uuid.UUID            `json:"doctor_id"`
	Medications     []MedicationResponse `json:"medications"`
	Diagnosis       string               `json:"diagnosis,omitempty"`
	Notes           string               `json:"notes,omitempty"`
	Status          string               `json:"status"`
	AppointmentDate string               `json:"appointment_date,omitempty"`
	Doctor          *DoctorSummary       `json:"doctor,omitempty"`
	Patient         *PatientSummary      `json:"patient,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

type PrescriptionListResponse struct {
	Prescriptions []PrescriptionResponse `json:"prescriptions"`
	Total         int                    `json:"total"`
}
