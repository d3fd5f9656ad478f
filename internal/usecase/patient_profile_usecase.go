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
	ErrPatientNotFound = errors.New("patient profile not found")
)

type PatientProfileUsecase interface {
	GetProfile(ctx context.Context, patientID uuid.UUID) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, patientID uuid.UUID, req *dto.UpdatePatientProfileRequest) (*dto.UserResponse, error)
}

type patientProfileUsecase struct {
	db                 *gorm.DB
	transactor         repository.Transactor
	log                *logrus.Logger
	userRepo           repository.UserRepository
	patientProfileRepo repository.PatientProfileRepository
	auditService       service.AuditService
}

func NewPatientProfileUsecase(
	db *gorm.DB,
	transactor repository.Transactor,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService service.AuditService,
) PatientProfileUsecase {
	return &patientProfileUsecase{
		db:                 db,
		transactor:         transactor,
		log:                log,
		userRepo:           userRepo,
		patientProfileRepo: patientProfileRepo,
		auditService:       auditService,
	}
}

func (u *patientProfileUsecase) findPatient(ctx context.Context, patientID uuid.UUID) (*entity.User, error) {
	user, err := u.userRepo.FindByID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if user == nil || user.PatientProfile == nil {
		return nil, ErrPatientNotFound
	}
	return user, nil
}

func (u *patientProfileUsecase) GetProfile(ctx context.Context, patientID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.findPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return converter.UserToResponse(user), nil
}

func (u *patientProfileUsecase) UpdateProfile(ctx context.Context, patientID uuid.UUID, req *dto.UpdatePatientProfileRequest) (*dto.UserResponse, error) {
	user, err := u.findPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	old := entity.JSON{
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"phone":      user.PatientProfile.Phone,
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.PatientProfile.Phone = *req.Phone
	}

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.userRepo.Update(ctx, tx, user); err != nil {
			u.log.Warnf("Failed to update patient user %s: %+v", patientID, err)
			return err
		}
		if err := u.patientProfileRepo.Update(ctx, tx, user.PatientProfile); err != nil {
			u.log.Warnf("Failed to update patient profile %s: %+v", patientID, err)
			return err
		}

		return u.auditService.LogUpdate(ctx, tx, &patientID, entity.AuditActionProfileUpdate, "patient_profile", patientID.String(), old, entity.JSON{
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"phone":      user.PatientProfile.Phone,
		})
	})
	if err != nil {
		return nil, err
	}

	return converter.UserToResponse(user), nil
}
