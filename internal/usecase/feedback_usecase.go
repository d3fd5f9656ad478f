package usecase

import (
	"context"
	"errors"
	"math"

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
	ErrFeedbackExists         = errors.New("feedback already provided for this appointment")
	ErrFeedbackNotAllowed     = errors.New("can only provide feedback for completed appointments")
	ErrNotFeedbackAppointment = errors.New("you can only review your own appointments")
)

type FeedbackUsecase interface {
	CreateFeedback(ctx context.Context, patientID uuid.UUID, req *dto.CreateFeedbackRequest) (*dto.FeedbackResponse, error)
	GetDoctorFeedback(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorFeedbackResponse, error)
	GetAppointmentFeedback(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentFeedbackResponse, error)
}

type feedbackUsecase struct {
	db              *gorm.DB
	transactor      repository.Transactor
	log             *logrus.Logger
	feedbackRepo    repository.FeedbackRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
}

func NewFeedbackUsecase(
	db *gorm.DB,
	transactor repository.Transactor,
	log *logrus.Logger,
	feedbackRepo repository.FeedbackRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
) FeedbackUsecase {
	return &feedbackUsecase{
		db:              db,
		transactor:      transactor,
		log:             log,
		feedbackRepo:    feedbackRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
	}
}

// CreateFeedback rates a completed appointment of the patient. The unique
// index on appointment_id rejects a second review raced past the check.
func (u *feedbackUsecase) CreateFeedback(ctx context.Context, patientID uuid.UUID, req *dto.CreateFeedbackRequest) (*dto.FeedbackResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, req.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", req.AppointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.PatientID != patientID {
		return nil, ErrNotFeedbackAppointment
	}
	if !appointment.IsCompleted() {
		return nil, ErrFeedbackNotAllowed
	}

	existing, err := u.feedbackRepo.FindByAppointmentID(ctx, u.db, appointment.ID)
	if err != nil {
		u.log.Warnf("Failed to check feedback of appointment %s: %+v", appointment.ID, err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrFeedbackExists
	}

	feedback := &entity.Feedback{
		AppointmentID: appointment.ID,
		PatientID:     patientID,
		DoctorID:      appointment.DoctorID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	}

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.feedbackRepo.Create(ctx, tx, feedback); err != nil {
			if isDuplicateKeyError(err, "appointment_id") {
				return ErrFeedbackExists
			}
			u.log.Warnf("Failed to create feedback: %+v", err)
			return err
		}

		return u.auditService.LogCreate(ctx, tx, &patientID, entity.AuditActionFeedbackCreate, "feedback", feedback.ID.String(), entity.JSON{
			"appointment_id": appointment.ID.String(),
			"doctor_id":      appointment.DoctorID.String(),
			"rating":         feedback.Rating,
		})
	})
	if err != nil {
		return nil, err
	}

	feedback.Patient = appointment.Patient
	return converter.FeedbackToResponse(feedback), nil
}

// GetDoctorFeedback lists a doctor's reviews with the average rating
// rounded to one decimal.
func (u *feedbackUsecase) GetDoctorFeedback(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorFeedbackResponse, error) {
	feedbacks, err := u.feedbackRepo.FindByDoctorID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find feedback of doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return &dto.DoctorFeedbackResponse{
		Feedbacks:     converter.FeedbacksToResponses(feedbacks),
		AverageRating: averageRating(feedbacks),
		Total:         len(feedbacks),
	}, nil
}

func averageRating(feedbacks []entity.Feedback) float64 {
	if len(feedbacks) == 0 {
		return 0
	}
	sum := 0
	for _, f := range feedbacks {
		sum += f.Rating
	}
	return math.Round(float64(sum)/float64(len(feedbacks))*10) / 10
}

func (u *feedbackUsecase) GetAppointmentFeedback(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentFeedbackResponse, error) {
	feedback, err := u.feedbackRepo.FindByAppointmentID(ctx, u.db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find feedback of appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	return &dto.AppointmentFeedbackResponse{
		HasFeedback: feedback != nil,
		Feedback:    converter.FeedbackToResponse(feedback),
	}, nil
}
