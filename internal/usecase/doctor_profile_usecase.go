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
	ErrDoctorNotFound = errors.New("doctor not found")
)

type DoctorProfileUsecase interface {
	GetProfile(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	UpdateProfile(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorProfileRequest) (*dto.DoctorResponse, error)
	ListAvailable(ctx context.Context) (*dto.DoctorListResponse, error)
	ListAll(ctx context.Context) (*dto.DoctorListResponse, error)
	SetActive(ctx context.Context, adminID, doctorID uuid.UUID, req *dto.SetDoctorActiveRequest) (*dto.DoctorResponse, error)
}

type doctorProfileUsecase struct {
	db                *gorm.DB
	transactor        repository.Transactor
	log               *logrus.Logger
	userRepo          repository.UserRepository
	doctorProfileRepo repository.DoctorProfileRepository
	auditService      service.AuditService
	tokenStore        *service.TokenStore
}

func NewDoctorProfileUsecase(
	db *gorm.DB,
	transactor repository.Transactor,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
	tokenStore *service.TokenStore,
) DoctorProfileUsecase {
	return &doctorProfileUsecase{
		db:                db,
		transactor:        transactor,
		log:               log,
		userRepo:          userRepo,
		doctorProfileRepo: doctorProfileRepo,
		auditService:      auditService,
		tokenStore:        tokenStore,
	}
}

func (u *doctorProfileUsecase) GetProfile(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorProfileRepo.FindByUserID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorToResponse(doctor), nil
}

// UpdateProfile applies only the fields present in the request.
func (u *doctorProfileUsecase) UpdateProfile(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorProfileRequest) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorProfileRepo.FindByUserID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	old := entity.JSON{
		"first_name":       doctor.User.FirstName,
		"last_name":        doctor.User.LastName,
		"phone":            doctor.Phone,
		"consultation_fee": doctor.ConsultationFee.String(),
	}

	if req.FirstName != nil {
		doctor.User.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		doctor.User.LastName = *req.LastName
	}
	if req.Phone != nil {
		doctor.Phone = *req.Phone
	}
	if req.ConsultationFee != nil {
		doctor.ConsultationFee = *req.ConsultationFee
	}

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.userRepo.Update(ctx, tx, &doctor.User); err != nil {
			u.log.Warnf("Failed to update doctor user %s: %+v", doctorID, err)
			return err
		}
		if err := u.doctorProfileRepo.Update(ctx, tx, doctor); err != nil {
			u.log.Warnf("Failed to update doctor profile %s: %+v", doctorID, err)
			return err
		}

		return u.auditService.LogUpdate(ctx, tx, &doctorID, entity.AuditActionProfileUpdate, "doctor_profile", doctorID.String(), old, entity.JSON{
			"first_name":       doctor.User.FirstName,
			"last_name":        doctor.User.LastName,
			"phone":            doctor.Phone,
			"consultation_fee": doctor.ConsultationFee.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

// ListAvailable returns active doctors with their weekly template, for booking.
func (u *doctorProfileUsecase) ListAvailable(ctx context.Context) (*dto.DoctorListResponse, error) {
	return u.list(ctx, true)
}

// ListAll includes deactivated doctors.
func (u *doctorProfileUsecase) ListAll(ctx context.Context) (*dto.DoctorListResponse, error) {
	return u.list(ctx, false)
}

func (u *doctorProfileUsecase) list(ctx context.Context, activeOnly bool) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorProfileRepo.FindAll(ctx, u.db, activeOnly)
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

// SetActive toggles a doctor account. Deactivation revokes the doctor's
// tokens so the change applies immediately.
func (u *doctorProfileUsecase) SetActive(ctx context.Context, adminID, doctorID uuid.UUID, req *dto.SetDoctorActiveRequest) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorProfileRepo.FindByUserID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	active := *req.IsActive
	wasActive := doctor.User.Active()

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		rows, err := u.userRepo.SetActive(ctx, tx, doctorID, active)
		if err != nil {
			u.log.Warnf("Failed to set doctor %s active=%t: %+v", doctorID, active, err)
			return err
		}
		if rows == 0 {
			return ErrDoctorNotFound
		}

		return u.auditService.LogUpdate(ctx, tx, &adminID, entity.AuditActionUserActivation, "user", doctorID.String(),
			entity.JSON{"is_active": wasActive}, entity.JSON{"is_active": active})
	})
	if err != nil {
		return nil, err
	}

	if !active {
		if err := u.tokenStore.RevokeAll(ctx, doctorID); err != nil {
			u.log.Errorf("Failed to revoke tokens of deactivated doctor %s: %+v", doctorID, err)
		}
	}

	doctor.User.IsActive = entity.Bool(active)
	return converter.DoctorToResponse(doctor), nil
}
