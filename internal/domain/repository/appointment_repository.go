package repository

import (
	"context"
	"time"

	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	// Create fails with a unique violation when the slot is already held.
	Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error)
	// FindBookedSlots returns slot labels of non-cancelled appointments.
	FindBookedSlots(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]string, error)
	CountActiveByDoctorAndDate(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, date time.Time) (int64, error)
	// UpdateStatusFrom changes status only when the row is still in from.
	// It returns the number of affected rows.
	UpdateStatusFrom(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error)
	MarkNoShowBefore(ctx context.Context, db *gorm.DB, date time.Time) (int64, error)
}
