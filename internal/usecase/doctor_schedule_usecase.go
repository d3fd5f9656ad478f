package usecase

import (
	"context"
	"errors"

	"clinic-booking/internal/converter"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDuplicateScheduleDay = errors.New("each day may appear only once in the schedule")
)

type DoctorScheduleUsecase interface {
	GetSchedule(ctx context.Context, doctorID uuid.UUID) (*dto.ScheduleResponse, error)
	UpdateSchedule(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error)
}

type doctorScheduleUsecase struct {
	db               *gorm.DB
	transactor       repository.Transactor
	log              *logrus.Logger
	availabilityRepo repository.DoctorAvailabilityRepository
	auditService     service.AuditService
	capacityService  *service.CapacityService
}

func NewDoctorScheduleUsecase(
	db *gorm.DB,
	transactor repository.Transactor,
	log *logrus.Logger,
	availabilityRepo repository.DoctorAvailabilityRepository,
	auditService service.AuditService,
	capacityService *service.CapacityService,
) DoctorScheduleUsecase {
	return &doctorScheduleUsecase{
		db:               db,
		transactor:       transactor,
		log:              log,
		availabilityRepo: availabilityRepo,
		auditService:     auditService,
		capacityService:  capacityService,
	}
}

func (u *doctorScheduleUsecase) GetSchedule(ctx context.Context, doctorID uuid.UUID) (*dto.ScheduleResponse, error) {
	rows, err := u.availabilityRepo.FindByDoctorID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find schedule of doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return &dto.ScheduleResponse{AvailableSlots: converter.AvailabilitiesToResponses(rows)}, nil
}

// UpdateSchedule replaces the doctor's weekly template. Existing
// appointments are kept; capacity counters are reset so new caps apply.
func (u *doctorScheduleUsecase) UpdateSchedule(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error) {
	rows := converter.AvailabilityRequestsToEntities(req.AvailableSlots)

	seen := make(map[string]bool, len(rows))
	for i := range rows {
		if err := rows[i].Validate(); err != nil {
			return nil, err
		}
		if seen[rows[i].Day] {
			return nil, ErrDuplicateScheduleDay
		}
		seen[rows[i].Day] = true
		rows[i].DoctorID = doctorID
	}

	err := u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.availabilityRepo.ReplaceForDoctor(ctx, tx, doctorID, rows); err != nil {
			u.log.Warnf("Failed to replace schedule of doctor %s: %+v", doctorID, err)
			return err
		}

		days := make([]string, len(rows))
		for i, row := range rows {
			days[i] = row.Day
		}
		return u.auditService.LogEvent(ctx, tx, &doctorID, entity.AuditActionScheduleUpdate, entity.JSON{
			"entity":    "doctor_schedule",
			"entity_id": doctorID.String(),
			"days":      days,
		})
	})
	if err != nil {
		return nil, err
	}

	if err := u.capacityService.ResetDoctor(ctx, doctorID); err != nil {
		u.log.Errorf("Failed to reset capacity of doctor %s after schedule change: %+v", doctorID, err)
	}

	return &dto.ScheduleResponse{AvailableSlots: converter.AvailabilitiesToResponses(rows)}, nil
}
