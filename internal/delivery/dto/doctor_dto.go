package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

// UpdateDoctorProfileRequest holds the fields a doctor may change on their own profile
type UpdateDoctorProfileRequest struct {
	FirstName       *string          `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName        *string          `json:"last_name" validate:"omitempty,min=1,max=100"`
	Phone           *string          `json:"phone" validate:"omitempty,max=20"`
	ConsultationFee *decimal.Decimal `json:"consultation_fee" validate:"omitempty,gte=0"`
}

type SetDoctorActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// Response DTOs

// DoctorProfileResponse is the doctor-specific part of a user
type DoctorProfileResponse struct {
	LicenseNumber   string          `json:"license_number"`
	Specialization  string          `json:"specialization"`
	Phone           string          `json:"phone,omitempty"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
}

type DoctorResponse struct {
	ID              uuid.UUID              `json:"id"`
	Email           string                 `json:"email"`
	FirstName       string                 `json:"first_name"`
	LastName        string                 `json:"last_name"`
	LicenseNumber   string                 `json:"license_number"`
	Specialization  string                 `json:"specialization"`
	Phone           string                 `json:"phone,omitempty"`
	ConsultationFee decimal.Decimal        `json:"consultation_fee"`
	IsActive        bool                   `json:"is_active"`
	AvailableSlots  []AvailabilityResponse `json:"available_slots"`
	CreatedAt       time.Time              `json:"created_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}

// DoctorSummary is the doctor shown next to appointments, invoices and prescriptions
type DoctorSummary struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Specialization string    `json:"specialization"`
}

// IncomeSummaryResponse aggregates a doctor's invoices
type IncomeSummaryResponse struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	PaidIncome    decimal.Decimal `json:"paid_income"`
	PendingIncome decimal.Decimal `json:"pending_income"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
	TodayIncome   decimal.Decimal `json:"today_income"`
	TotalInvoices int             `json:"total_invoices"`
	PaidInvoices  int             `json:"paid_invoices"`
	PendingCount  int             `json:"pending_invoices"`
}
