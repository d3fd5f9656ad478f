package repository

import (
	"context"

	"clinic-booking/internal/domain/entity"
	domainRepo "clinic-booking/internal/domain/repository"

	"gorm.io/gorm"
)

type revenueCostRepository struct{}

func NewRevenueCostRepository() domainRepo.RevenueCostRepository {
	return &revenueCostRepository{}
}

func (r *revenueCostRepository) Create(ctx context.Context, db *gorm.DB, entry *entity.RevenueCost) error {
	return db.WithContext(ctx).Create(entry).Error
}

func (r *revenueCostRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.RevenueCostFilter) ([]entity.RevenueCost, error) {
	query := db.WithContext(ctx).Model(&entity.RevenueCost{})

	if filter != nil {
		if filter.From != nil {
			query = query.Where("entry_date >= ?::date", filter.From.Format(entity.DateLayout))
		}
		if filter.To != nil {
			query = query.Where("entry_date <= ?::date", filter.To.Format(entity.DateLayout))
		}
		if filter.Type != "" {
			query = query.Where("type = ?", filter.Type)
		}
	}

	var entries []entity.RevenueCost
	if err := query.Order("entry_date DESC, created_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
