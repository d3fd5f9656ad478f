package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RevenueCostType string

const (
	RevenueCostTypeRevenue RevenueCostType = "revenue"
	RevenueCostTypeCost    RevenueCostType = "cost"
)

// RevenueCost is a manual ledger entry kept next to invoice income.
type RevenueCost struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Type        RevenueCostType `gorm:"type:varchar(10);not null;index" json:"type"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Description string          `gorm:"type:text;not null" json:"description"`
	EntryDate   time.Time       `gorm:"type:date;not null;index" json:"entry_date"`
	CreatedBy   uuid.UUID       `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (RevenueCost) TableName() string {
	return "revenue_costs"
}
