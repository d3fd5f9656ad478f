package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-booking/internal/converter"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidDateRange = errors.New("from date must not be after to date")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
)

type RevenueCostUsecase interface {
	CreateEntry(ctx context.Context, userID uuid.UUID, req *dto.CreateRevenueCostRequest) (*dto.RevenueCostResponse, error)
	ListEntries(ctx context.Context, query *dto.RevenueCostQuery) (*dto.RevenueCostListResponse, error)
	GetSummary(ctx context.Context, query *dto.RevenueCostQuery) (*dto.RevenueCostSummaryResponse, error)
}

type revenueCostUsecase struct {
	db              *gorm.DB
	transactor      repository.Transactor
	log             *logrus.Logger
	revenueCostRepo repository.RevenueCostRepository
	auditService    service.AuditService
	location        *time.Location
	now             func() time.Time
}

func NewRevenueCostUsecase(
	db *gorm.DB,
	transactor repository.Transactor,
	log *logrus.Logger,
	revenueCostRepo repository.RevenueCostRepository,
	auditService service.AuditService,
	location *time.Location,
) RevenueCostUsecase {
	if location == nil {
		location = time.UTC
	}
	return &revenueCostUsecase{
		db:              db,
		transactor:      transactor,
		log:             log,
		revenueCostRepo: revenueCostRepo,
		auditService:    auditService,
		location:        location,
		now:             time.Now,
	}
}

// CreateEntry records a manual revenue or cost line. Without a date the
// entry is booked on the clinic's current day.
func (u *revenueCostUsecase) CreateEntry(ctx context.Context, userID uuid.UUID, req *dto.CreateRevenueCostRequest) (*dto.RevenueCostResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	entryDate := u.now().In(u.location)
	if req.Date != "" {
		d, err := time.ParseInLocation(entity.DateLayout, req.Date, u.location)
		if err != nil {
			return nil, ErrInvalidDate
		}
		entryDate = d
	}

	entry := &entity.RevenueCost{
		Type:        entity.RevenueCostType(req.Type),
		Amount:      req.Amount,
		Description: req.Description,
		EntryDate:   time.Date(entryDate.Year(), entryDate.Month(), entryDate.Day(), 0, 0, 0, 0, u.location),
		CreatedBy:   userID,
	}

	err := u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.revenueCostRepo.Create(ctx, tx, entry); err != nil {
			u.log.Warnf("Failed to create revenue/cost entry: %+v", err)
			return err
		}

		return u.auditService.LogCreate(ctx, tx, &userID, entity.AuditActionRevenueCostCreate, "revenue_cost", entry.ID.String(), entity.JSON{
			"type":   entry.Type,
			"amount": entry.Amount.String(),
			"date":   entry.EntryDate.Format(entity.DateLayout),
		})
	})
	if err != nil {
		return nil, err
	}

	return converter.RevenueCostToResponse(entry), nil
}

func (u *revenueCostUsecase) ListEntries(ctx context.Context, query *dto.RevenueCostQuery) (*dto.RevenueCostListResponse, error) {
	entries, err := u.find(ctx, query)
	if err != nil {
		return nil, err
	}

	return &dto.RevenueCostListResponse{
		Entries: converter.RevenueCostsToResponses(entries),
		Total:   len(entries),
	}, nil
}

func (u *revenueCostUsecase) GetSummary(ctx context.Context, query *dto.RevenueCostQuery) (*dto.RevenueCostSummaryResponse, error) {
	entries, err := u.find(ctx, query)
	if err != nil {
		return nil, err
	}

	return summarizeRevenueCosts(entries), nil
}

func (u *revenueCostUsecase) find(ctx context.Context, query *dto.RevenueCostQuery) ([]entity.RevenueCost, error) {
	filter, err := u.toFilter(query)
	if err != nil {
		return nil, err
	}

	entries, err := u.revenueCostRepo.FindAll(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to find revenue/cost entries: %+v", err)
		return nil, err
	}
	return entries, nil
}

func (u *revenueCostUsecase) toFilter(query *dto.RevenueCostQuery) (*entity.RevenueCostFilter, error) {
	filter := &entity.RevenueCostFilter{}
	if query == nil {
		return filter, nil
	}

	if query.From != "" {
		from, err := time.ParseInLocation(entity.DateLayout, query.From, u.location)
		if err != nil {
			return nil, ErrInvalidDate
		}
		filter.From = &from
	}
	if query.To != "" {
		to, err := time.ParseInLocation(entity.DateLayout, query.To, u.location)
		if err != nil {
			return nil, ErrInvalidDate
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, ErrInvalidDateRange
	}
	filter.Type = entity.RevenueCostType(query.Type)

	return filter, nil
}

func summarizeRevenueCosts(entries []entity.RevenueCost) *dto.RevenueCostSummaryResponse {
	summary := &dto.RevenueCostSummaryResponse{
		TotalRevenue: decimal.Zero,
		TotalCost:    decimal.Zero,
		Entries:      len(entries),
	}

	for _, e := range entries {
		switch e.Type {
		case entity.RevenueCostTypeRevenue:
			summary.TotalRevenue = summary.TotalRevenue.Add(e.Amount)
		case entity.RevenueCostTypeCost:
			summary.TotalCost = summary.TotalCost.Add(e.Amount)
		}
	}
	summary.Net = summary.TotalRevenue.Sub(summary.TotalCost)

	return summary
}
