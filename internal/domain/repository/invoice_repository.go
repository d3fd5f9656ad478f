package repository

import (
	"context"

	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceRepository interface {
	// NextNumber increments and returns the year's counter. The increment
	// is part of db's transaction, so a rollback leaves no gap.
	NextNumber(ctx context.Context, db *gorm.DB, year int) (int64, error)
	Create(ctx context.Context, db *gorm.DB, invoice *entity.Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Invoice, error)
	FindByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]entity.Invoice, error)
	FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.Invoice, error)
	MarkPaid(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
}
