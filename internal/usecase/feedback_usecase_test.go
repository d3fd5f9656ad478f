package usecase

import (
	"context"
	"testing"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newFeedbackUsecase(f *fixture) FeedbackUsecase {
	return NewFeedbackUsecase(nil, fakeTransactor{}, f.log, f.feedbackRepo, f.appointmentRepo, f.audit)
}

func TestFeedbackUsecase_Create(t *testing.T) {
	f := newFixture(t)
	uc := newFeedbackUsecase(f)
	doctorID := f.addDoctor("house", "150000", 20)
	patientID := f.addPatient("alice")
	ctx := context.Background()

	completed := f.seedAppointment(doctorID, patientID, entity.AppointmentStatusCompleted)

	res, err := uc.CreateFeedback(ctx, patientID, &dto.CreateFeedbackRequest{AppointmentID: completed, Rating: 5, Comment: "great"})
	require.NoError(t, err)
	assert.Equal(t, doctorID, res.DoctorID)
	assert.Equal(t, "alice Pat", res.PatientName)

	_, err = uc.CreateFeedback(ctx, patientID, &dto.CreateFeedbackRequest{AppointmentID: completed, Rating: 1})
	assert.ErrorIs(t, err, ErrFeedbackExists)

	assert.Contains(t, f.store.actions(), entity.AuditActionFeedbackCreate)
}

func TestFeedbackUsecase_CreateRejected(t *testing.T) {
	f := newFixture(t)
	uc := newFeedbackUsecase(f)
	doctorID := f.addDoctor("house", "150000", 20)
	patientID := f.addPatient("alice")
	ctx := context.Background()

	tests := []struct {
		name    string
		patient uuid.UUID
		appt    uuid.UUID
		want    error
	}{
		{"scheduled", patientID, f.seedAppointment(doctorID, patientID, entity.AppointmentStatusScheduled), ErrFeedbackNotAllowed},
		{"cancelled", patientID, f.seedAppointment(doctorID, patientID, entity.AppointmentStatusCancelled), ErrFeedbackNotAllowed},
		{"no-show", patientID, f.seedAppointment(doctorID, patientID, entity.AppointmentStatusNoShow), ErrFeedbackNotAllowed},
		{"someone else's", f.addPatient("bob"), f.seedAppointment(doctorID, patientID, entity.AppointmentStatusCompleted), ErrNotFeedbackAppointment},
		{"missing", patientID, uuid.New(), ErrAppointmentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.CreateFeedback(ctx, tt.patient, &dto.CreateFeedbackRequest{AppointmentID: tt.appt, Rating: 4})
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, f.store.feedbacks)
}

func TestFeedbackUsecase_Create_UniqueViolation(t *testing.T) {
	f := newFixture(t)
	uc := newFeedbackUsecase(f)
	doctorID := f.addDoctor("house", "150000", 20)
	patientID := f.addPatient("alice")
	appt := f.seedAppointment(doctorID, patientID, entity.AppointmentStatusCompleted)

	// a concurrent insert won the race after the existence check
	f.store.feedbacks[uuid.New()] = &entity.Feedback{AppointmentID: appt, PatientID: patientID, DoctorID: doctorID, Rating: 3}
	repo := &racingFeedbackRepo{memFeedbackRepo: f.feedbackRepo}
	uc = NewFeedbackUsecase(nil, fakeTransactor{}, f.log, repo, f.appointmentRepo, f.audit)

	_, err := uc.CreateFeedback(context.Background(), patientID, &dto.CreateFeedbackRequest{AppointmentID: appt, Rating: 5})
	assert.ErrorIs(t, err, ErrFeedbackExists)
}

// racingFeedbackRepo hides existing rows from the pre-check.
type racingFeedbackRepo struct {
	*memFeedbackRepo
}

func (r *racingFeedbackRepo) FindByAppointmentID(ctx context.Context, _ *gorm.DB, _ uuid.UUID) (*entity.Feedback, error) {
	return nil, nil
}

func TestFeedbackUsecase_DoctorFeedback(t *testing.T) {
	f := newFixture(t)
	uc := newFeedbackUsecase(f)
	doctorID := f.addDoctor("house", "150000", 20)
	ctx := context.Background()

	empty, err := uc.GetDoctorFeedback(ctx, doctorID)
	require.NoError(t, err)
	assert.Zero(t, empty.AverageRating)
	assert.Zero(t, empty.Total)

	for _, rating := range []int{5, 4, 4} {
		p := f.addPatient("p" + uuid.NewString()[:4])
		_, err := uc.CreateFeedback(ctx, p, &dto.CreateFeedbackRequest{
			AppointmentID: f.seedAppointment(doctorID, p, entity.AppointmentStatusCompleted),
			Rating:        rating,
		})
		require.NoError(t, err)
	}

	res, err := uc.GetDoctorFeedback(ctx, doctorID)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 4.3, res.AverageRating)
}

func TestFeedbackUsecase_AppointmentFeedback(t *testing.T) {
	f := newFixture(t)
	uc := newFeedbackUsecase(f)
	doctorID := f.addDoctor("house", "150000", 20)
	patientID := f.addPatient("alice")
	appt := f.seedAppointment(doctorID, patientID, entity.AppointmentStatusCompleted)
	ctx := context.Background()

	res, err := uc.GetAppointmentFeedback(ctx, appt)
	require.NoError(t, err)
	assert.False(t, res.HasFeedback)
	assert.Nil(t, res.Feedback)

	_, err = uc.CreateFeedback(ctx, patientID, &dto.CreateFeedbackRequest{AppointmentID: appt, Rating: 2})
	require.NoError(t, err)

	res, err = uc.GetAppointmentFeedback(ctx, appt)
	require.NoError(t, err)
	assert.True(t, res.HasFeedback)
	assert.Equal(t, 2, res.Feedback.Rating)
}
