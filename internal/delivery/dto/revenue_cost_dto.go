package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateRevenueCostRequest struct {
	Type        string          `json:"type" validate:"required,oneof=revenue cost"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	Description string          `json:"description" validate:"required,max=500"`
	Date        string          `json:"date" validate:"omitempty,date"`
}

// RevenueCostQuery is parsed from the list/summary query string
type RevenueCostQuery struct {
	From string `validate:"omitempty,date"`
	To   string `validate:"omitempty,date"`
	Type string `validate:"omitempty,oneof=revenue cost"`
}

// Response DTOs

type RevenueCostResponse struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	CreatedBy   uuid.UUID       `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

type RevenueCostListResponse struct {
	Entries []RevenueCostResponse `json:"entries"`
	Total   int                   `json:"total"`
}

type RevenueCostSummaryResponse struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	Net          decimal.Decimal `json:"net"`
	Entries      int             `json:"entries"`
}
