package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceItemResponse struct {
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
}

type InvoiceResponse struct {
	ID              uuid.UUID             `json:"id"`
	InvoiceNumber   string                `json:"invoice_number"`
	AppointmentID   uuid.UUID             `json:"appointment_id"`
	PatientID       uuid.UUID             `json:"patient_id"`
	DoctorID        uuid.UUID             `json:"doctor_id"`
	Date            time.Time             `json:"date"`
	Services        []InvoiceItemResponse `json:"services"`
	TotalAmount     decimal.Decimal       `json:"total_amount"`
	Status          string                `json:"status"`
	AppointmentDate string                `json:"appointment_date,omitempty"`
	TimeSlot        string                `json:"time_slot,omitempty"`
	Doctor          *DoctorSummary        `json:"doctor,omitempty"`
	Patient         *PatientSummary       `json:"patient,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

type InvoiceListResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
	Total    int               `json:"total"`
}
