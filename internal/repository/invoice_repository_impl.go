package repository

import (
	"context"
	"errors"

	"clinic-booking/internal/domain/entity"
	domainRepo "clinic-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type invoiceRepository struct{}

func NewInvoiceRepository() domainRepo.InvoiceRepository {
	return &invoiceRepository{}
}

// NextNumber upserts the year's counter row. The row lock taken by the
// upsert serializes concurrent completions until the caller commits.
func (r *invoiceRepository) NextNumber(ctx context.Context, db *gorm.DB, year int) (int64, error) {
	var next int64
	err := db.WithContext(ctx).Raw(`
		INSERT INTO invoice_sequences (year, last_value) VALUES (?, 1)
		ON CONFLICT (year) DO UPDATE SET last_value = invoice_sequences.last_value + 1
		RETURNING last_value`, year).
		Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (r *invoiceRepository) Create(ctx context.Context, db *gorm.DB, invoice *entity.Invoice) error {
	return db.WithContext(ctx).Omit("Appointment", "Patient", "Doctor").Create(invoice).Error
}

func (r *invoiceRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := db.WithContext(ctx).
		Preload("Appointment").
		Preload("Patient.User").
		Preload("Doctor.User").
		Where("id = ?", id).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	err := db.WithContext(ctx).
		Preload("Appointment").
		Preload("Doctor.User").
		Where("patient_id = ?", patientID).
		Order("invoice_date DESC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	err := db.WithContext(ctx).
		Preload("Appointment").
		Preload("Patient.User").
		Where("doctor_id = ?", doctorID).
		Order("invoice_date DESC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) MarkPaid(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("id = ? AND status = ?", id, entity.InvoiceStatusPending).
		Update("status", entity.InvoiceStatusPaid)
	return result.RowsAffected, result.Error
}
