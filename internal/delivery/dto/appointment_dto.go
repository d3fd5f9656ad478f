package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type BookAppointmentRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" validate:"required"`
	Date     string    `json:"date" validate:"required,date"`
	TimeSlot string    `json:"time_slot" validate:"required"`
	Reason   string    `json:"reason" validate:"required,max=500"`
	Notes    string    `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=completed cancelled no-show"`
}

// Response DTOs

type AppointmentResponse struct {
	ID        uuid.UUID       `json:"id"`
	PatientID uuid.UUID       `json:"patient_id"`
	DoctorID  uuid.UUID       `json:"doctor_id"`
	Date      string          `json:"date"`
	TimeSlot  string          `json:"time_slot"`
	Status    string          `json:"status"`
	Reason    string          `json:"reason"`
	Notes     string          `json:"notes,omitempty"`
	Fee       decimal.Decimal `json:"fee"`
	Doctor    *DoctorSummary  `json:"doctor,omitempty"`
	Patient   *PatientSummary `json:"patient,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// StatusUpdateResponse carries the invoice created when an appointment completes
type StatusUpdateResponse struct {
	Appointment AppointmentResponse `json:"appointment"`
	Invoice     *InvoiceResponse    `json:"invoice,omitempty"`
}

type AvailableSlotsResponse struct {
	DoctorID       uuid.UUID `json:"doctor_id"`
	Date           string    `json:"date"`
	Day            string    `json:"day"`
	AvailableSlots []string  `json:"available_slots"`
}
