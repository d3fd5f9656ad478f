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
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrInvoiceAlreadyExists = errors.New("invoice already exists for this appointment")
	ErrInvoiceAlreadyPaid   = errors.New("invoice is already paid")
	ErrNotInvoiceOwner      = errors.New("invoice does not belong to you")
)

type InvoiceUsecase interface {
	GetMyInvoices(ctx context.Context, userID uuid.UUID, roleID int) (*dto.InvoiceListResponse, error)
	GetInvoice(ctx context.Context, userID, invoiceID uuid.UUID) (*dto.InvoiceResponse, error)
	MarkPaid(ctx context.Context, doctorID, invoiceID uuid.UUID) (*dto.InvoiceResponse, error)
	GetIncomeSummary(ctx context.Context, doctorID uuid.UUID) (*dto.IncomeSummaryResponse, error)
}

type invoiceUsecase struct {
	db           *gorm.DB
	transactor   repository.Transactor
	log          *logrus.Logger
	invoiceRepo  repository.InvoiceRepository
	auditService service.AuditService
	location     *time.Location
	now          func() time.Time
}

func NewInvoiceUsecase(
	db *gorm.DB,
	transactor repository.Transactor,
	log *logrus.Logger,
	invoiceRepo repository.InvoiceRepository,
	auditService service.AuditService,
	location *time.Location,
) InvoiceUsecase {
	if location == nil {
		location = time.UTC
	}
	return &invoiceUsecase{
		db:           db,
		transactor:   transactor,
		log:          log,
		invoiceRepo:  invoiceRepo,
		auditService: auditService,
		location:     location,
		now:          time.Now,
	}
}

func (u *invoiceUsecase) GetMyInvoices(ctx context.Context, userID uuid.UUID, roleID int) (*dto.InvoiceListResponse, error) {
	var (
		invoices []entity.Invoice
		err      error
	)

	switch roleID {
	case entity.RoleIDDoctor:
		invoices, err = u.invoiceRepo.FindByDoctorID(ctx, u.db, userID)
	case entity.RoleIDPatient:
		invoices, err = u.invoiceRepo.FindByPatientID(ctx, u.db, userID)
	}
	if err != nil {
		u.log.Warnf("Failed to find invoices for %s: %+v", userID, err)
		return nil, err
	}

	return &dto.InvoiceListResponse{
		Invoices: converter.InvoicesToResponses(invoices),
		Total:    len(invoices),
	}, nil
}

func (u *invoiceUsecase) findOwned(ctx context.Context, userID, invoiceID uuid.UUID) (*entity.Invoice, error) {
	invoice, err := u.invoiceRepo.FindByID(ctx, u.db, invoiceID)
	if err != nil {
		u.log.Warnf("Failed to find invoice %s: %+v", invoiceID, err)
		return nil, err
	}
	if invoice == nil {
		return nil, ErrInvoiceNotFound
	}
	if !invoice.IsParticipant(userID) {
		return nil, ErrNotInvoiceOwner
	}
	return invoice, nil
}

func (u *invoiceUsecase) GetInvoice(ctx context.Context, userID, invoiceID uuid.UUID) (*dto.InvoiceResponse, error) {
	invoice, err := u.findOwned(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}
	return converter.InvoiceToResponse(invoice), nil
}

// MarkPaid records payment of a pending invoice. Only the issuing doctor
// may do so.
func (u *invoiceUsecase) MarkPaid(ctx context.Context, doctorID, invoiceID uuid.UUID) (*dto.InvoiceResponse, error) {
	invoice, err := u.findOwned(ctx, doctorID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.DoctorID != doctorID {
		return nil, ErrNotInvoiceOwner
	}
	if invoice.IsPaid() {
		return nil, ErrInvoiceAlreadyPaid
	}

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		rows, err := u.invoiceRepo.MarkPaid(ctx, tx, invoice.ID)
		if err != nil {
			u.log.Warnf("Failed to mark invoice %s paid: %+v", invoice.ID, err)
			return err
		}
		if rows == 0 {
			return ErrInvoiceAlreadyPaid
		}

		return u.auditService.LogUpdate(ctx, tx, &doctorID, entity.AuditActionInvoicePaid, "invoice", invoice.ID.String(),
			entity.JSON{"status": entity.InvoiceStatusPending}, entity.JSON{"status": entity.InvoiceStatusPaid})
	})
	if err != nil {
		return nil, err
	}

	invoice.Status = entity.InvoiceStatusPaid
	return converter.InvoiceToResponse(invoice), nil
}

func (u *invoiceUsecase) GetIncomeSummary(ctx context.Context, doctorID uuid.UUID) (*dto.IncomeSummaryResponse, error) {
	invoices, err := u.invoiceRepo.FindByDoctorID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find invoices of doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return summarizeIncome(invoices, u.now().In(u.location)), nil
}

// summarizeIncome totals invoices by status and by issue date relative to
// now; month and day boundaries follow now's location.
func summarizeIncome(invoices []entity.Invoice, now time.Time) *dto.IncomeSummaryResponse {
	loc := now.Location()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	summary := &dto.IncomeSummaryResponse{
		TotalIncome:   decimal.Zero,
		PaidIncome:    decimal.Zero,
		PendingIncome: decimal.Zero,
		MonthlyIncome: decimal.Zero,
		TodayIncome:   decimal.Zero,
		TotalInvoices: len(invoices),
	}

	for _, inv := range invoices {
		summary.TotalIncome = summary.TotalIncome.Add(inv.TotalAmount)

		switch inv.Status {
		case entity.InvoiceStatusPaid:
			summary.PaidIncome = summary.PaidIncome.Add(inv.TotalAmount)
			summary.PaidInvoices++
		case entity.InvoiceStatusPending:
			summary.PendingIncome = summary.PendingIncome.Add(inv.TotalAmount)
			summary.PendingCount++
		}

		issued := inv.InvoiceDate.In(loc)
		if !issued.Before(monthStart) {
			summary.MonthlyIncome = summary.MonthlyIncome.Add(inv.TotalAmount)
		}
		if !issued.Before(dayStart) && issued.Before(dayEnd) {
			summary.TodayIncome = summary.TodayIncome.Add(inv.TotalAmount)
		}
	}

	return summary
}
