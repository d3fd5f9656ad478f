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
	ErrPrescriptionNotFound     = errors.New("prescription not found")
	ErrNotPrescriptionOwner     = errors.New("prescription does not belong to you")
	ErrAppointmentNotCompleted  = errors.New("appointment is not completed")
	ErrPrescriptionNotEditable  = errors.New("cannot update a completed or cancelled prescription")
	ErrInvalidPrescriptionState = errors.New("invalid prescription status")
)

type PrescriptionUsecase interface {
	CreatePrescription(ctx context.Context, doctorID uuid.UUID, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error)
	GetMyPrescriptions(ctx context.Context, userID uuid.UUID, roleID int) (*dto.PrescriptionListResponse, error)
	GetPrescription(ctx context.Context, userID, prescriptionID uuid.UUID) (*dto.PrescriptionResponse, error)
	UpdatePrescription(ctx context.Context, doctorID, prescriptionID uuid.UUID, req *dto.UpdatePrescriptionRequest) (*dto.PrescriptionResponse, error)
}

type prescriptionUsecase struct {
	db               *gorm.DB
	transactor       repository.Transactor
	log              *logrus.Logger
	prescriptionRepo repository.PrescriptionRepository
	appointmentRepo  repository.AppointmentRepository
	auditService     service.AuditService
}

func NewPrescriptionUsecase(
	db *gorm.DB,
	transactor repository.Transactor,
	log *logrus.Logger,
	prescriptionRepo repository.PrescriptionRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
) PrescriptionUsecase {
	return &prescriptionUsecase{
		db:               db,
		transactor:       transactor,
		log:              log,
		prescriptionRepo: prescriptionRepo,
		appointmentRepo:  appointmentRepo,
		auditService:     auditService,
	}
}

// CreatePrescription issues a prescription for one of the doctor's completed
// appointments. The patient is taken from the appointment.
func (u *prescriptionUsecase) CreatePrescription(ctx context.Context, doctorID uuid.UUID, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, req.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", req.AppointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.DoctorID != doctorID {
		return nil, ErrNotAppointmentOwner
	}
	if !appointment.IsCompleted() {
		return nil, ErrAppointmentNotCompleted
	}

	prescription := &entity.Prescription{
		PatientID:     appointment.PatientID,
		DoctorID:      doctorID,
		AppointmentID: appointment.ID,
		Medications:   converter.MedicationRequestsToEntities(req.Medications),
		Diagnosis:     req.Diagnosis,
		Notes:         req.Notes,
		Status:        entity.PrescriptionStatusActive,
	}

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.prescriptionRepo.Create(ctx, tx, prescription); err != nil {
			u.log.Warnf("Failed to create prescription: %+v", err)
			return err
		}

		return u.auditService.LogCreate(ctx, tx, &doctorID, entity.AuditActionPrescriptionCreate, "prescription", prescription.ID.String(), entity.JSON{
			"appointment_id": appointment.ID.String(),
			"patient_id":     appointment.PatientID.String(),
			"medications":    len(prescription.Medications),
		})
	})
	if err != nil {
		return nil, err
	}

	prescription.Appointment = *appointment
	prescription.Patient = appointment.Patient
	prescription.Doctor = appointment.Doctor
	return converter.PrescriptionToResponse(prescription), nil
}

func (u *prescriptionUsecase) GetMyPrescriptions(ctx context.Context, userID uuid.UUID, roleID int) (*dto.PrescriptionListResponse, error) {
	var (
		prescriptions []entity.Prescription
		err           error
	)

	switch roleID {
	case entity.RoleIDDoctor:
		prescriptions, err = u.prescriptionRepo.FindByDoctorID(ctx, u.db, userID)
	case entity.RoleIDPatient:
		prescriptions, err = u.prescriptionRepo.FindByPatientID(ctx, u.db, userID)
	}
	if err != nil {
		u.log.Warnf("Failed to find prescriptions for %s: %+v", userID, err)
		return nil, err
	}

	return &dto.PrescriptionListResponse{
		Prescriptions: converter.PrescriptionsToResponses(prescriptions),
		Total:         len(prescriptions),
	}, nil
}

func (u *prescriptionUsecase) findOwned(ctx context.Context, userID, prescriptionID uuid.UUID) (*entity.Prescription, error) {
	prescription, err := u.prescriptionRepo.FindByID(ctx, u.db, prescriptionID)
	if err != nil {
		u.log.Warnf("Failed to find prescription %s: %+v", prescriptionID, err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}
	if !prescription.IsParticipant(userID) {
		return nil, ErrNotPrescriptionOwner
	}
	return prescription, nil
}

func (u *prescriptionUsecase) GetPrescription(ctx context.Context, userID, prescriptionID uuid.UUID) (*dto.PrescriptionResponse, error) {
	prescription, err := u.findOwned(ctx, userID, prescriptionID)
	if err != nil {
		return nil, err
	}
	return converter.PrescriptionToResponse(prescription), nil
}

// UpdatePrescription edits a prescription of the doctor. Once it is no
// longer active, only a request carrying a status is accepted.
func (u *prescriptionUsecase) UpdatePrescription(ctx context.Context, doctorID, prescriptionID uuid.UUID, req *dto.UpdatePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	prescription, err := u.findOwned(ctx, doctorID, prescriptionID)
	if err != nil {
		return nil, err
	}
	if prescription.DoctorID != doctorID {
		return nil, ErrNotPrescriptionOwner
	}
	if !prescription.IsActive() && req.Status == nil {
		return nil, ErrPrescriptionNotEditable
	}

	old := entity.JSON{
		"status":      prescription.Status,
		"medications": len(prescription.Medications),
	}

	if req.Status != nil {
		status, ok := entity.ParsePrescriptionStatus(*req.Status)
		if !ok {
			return nil, ErrInvalidPrescriptionState
		}
		prescription.Status = status
	}
	if len(req.Medications) > 0 {
		prescription.Medications = converter.MedicationRequestsToEntities(req.Medications)
	}
	if req.Diagnosis != nil {
		prescription.Diagnosis = *req.Diagnosis
	}
	if req.Notes != nil {
		prescription.Notes = *req.Notes
	}

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.prescriptionRepo.Update(ctx, tx, prescription); err != nil {
			u.log.Warnf("Failed to update prescription %s: %+v", prescription.ID, err)
			return err
		}

		return u.auditService.LogUpdate(ctx, tx, &doctorID, entity.AuditActionPrescriptionUpdate, "prescription", prescription.ID.String(), old, entity.JSON{
			"status":      prescription.Status,
			"medications": len(prescription.Medications),
		})
	})
	if err != nil {
		return nil, err
	}

	return converter.PrescriptionToResponse(prescription), nil
}
