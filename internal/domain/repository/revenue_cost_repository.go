package repository

import (
	"context"

	"clinic-booking/internal/domain/entity"

	"gorm.io/gorm"
)

type RevenueCostRepository interface {
	Create(ctx context.Context, db *gorm.DB, entry *entity.RevenueCost) error
	FindAll(ctx context.Context, db *gorm.DB, filter *entity.RevenueCostFilter) ([]entity.RevenueCost, error)
}
