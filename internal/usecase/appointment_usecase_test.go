package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mondayKey(doctorID uuid.UUID) string {
	return service.CapacityKey(doctorID, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
}

func bookRequest(doctorID uuid.UUID, slot string) *dto.BookAppointmentRequest {
	return &dto.BookAppointmentRequest{
		DoctorID: doctorID,
		Date:     nextMonday,
		TimeSlot: slot,
		Reason:   "checkup",
	}
}

func TestAppointmentUsecase_GetAvailableSlots(t *testing.T) {
	f := newFixture(t)
	uc := f.appointmentUsecase()
	doctorID := f.addDoctor("house", "150000", 20)

	res, err := uc.GetAvailableSlots(context.Background(), doctorID, nextMonday)
	require.NoError(t, err)
	assert.Equal(t, "Monday", res.Day)
	require.Len(t, res.AvailableSlots, 16)
	assert.Equal(t, "09:00-09:30", res.AvailableSlots[0])
	assert.Equal(t, "16:30-17:00", res.AvailableSlots[15])

	// Tuesday has no template row
	res, err = uc.GetAvailableSlots(context.Background(), doctorID, "2026-03-03")
	require.NoError(t, err)
	assert.NotNil(t, res.AvailableSlots)
	assert.Empty(t, res.AvailableSlots)
}

func TestAppointmentUsecase_GetAvailableSlotsErrors(t *testing.T) {
	f := newFixture(t)
	uc := f.appointmentUsecase()
	doctorID := f.addDoctor("house", "150000", 20)

	_, err := uc.GetAvailableSlots(context.Background(), doctorID, "")
	assert.ErrorIs(t, err, ErrDateRequired)

	_, err = uc.GetAvailableSlots(context.Background(), doctorID, "02/03/2026")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = uc.GetAvailableSlots(context.Background(), uuid.New(), nextMonday)
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	f.store.users[doctorID].IsActive = entity.Bool(false)
	_, err = uc.GetAvailableSlots(context.Background(), doctorID, nextMonday)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestAppointmentUsecase_BookAppointment(t *testing.T) {
	f := newFixture(t)
	uc := f.appointmentUsecase()
	doctorID := f.addDoctor("house", "150000", 20)
	patientID := f.addPatient("alice")

	res, err := uc.BookAppointment(context.Background(), patientID, bookRequest(doctorID, "10:00-10:30"))
	require.NoError(t, err)
	assert.Equal(t, nextMonday, res.Date)
	assert.Equal(t, "10:00-10:30", res.TimeSlot)
	assert.Equal(t, string(entity.AppointmentStatusScheduled), res.Status)
	assert.Equal(t, "150000", res.Fee.String())
	require.NotNil(t, res.Doctor)
	require.NotNil(t, res.Patient)

	slots, err := uc.GetAvailableSlots(context.Background(), doctorID, nextMonday)
	require.NoError(t, err)
	assert.Len(t, slots.AvailableSlots, 15)
	assert.NotContains(t, slots.AvailableSlots, "10:00-10:30")

	val, err := f.mr.Get(mondayKey(doctorID))
	require.NoError(t, err)
	assert.Equal(t, "19", val)

	assert.Contains(t, f.store.actions(), entity.AuditActionAppointmentCreate)
}

func TestAppointmentUsecase_BookAppointmentValidation(t *testing.T) {
	f := newFixture(t)
	uc := f.appointmentUsecase()
	doctorID := f.addDoctor("house", "150000", 20)
	patientID := f.addPatient("alice")

	tests := []struct {
		name string
		req  *dto.BookAppointmentRequest
		want error
	}{
		{"past date", &dto.BookAppointmentRequest{DoctorID: doctorID, Date: "2026-02-23", TimeSlot: "10:00-10:30"}, ErrDateInPast},
		{"bad date", &dto.BookAppointmentRequest{DoctorID: doctorID, Date: "2026-13-01", TimeSlot: "10:00-10:30"}, ErrInvalidDate},
		{"slot outside template", bookRequest(doctorID, "17:00-17:30"), ErrInvalidTimeSlot},
		{"misaligned slot", bookRequest(doctorID, "10:15-10:45"), ErrInvalidTimeSlot},
		{"no template that day", &dto.BookAppointmentRequest{DoctorID: doctorID, Date: "2026-03-03", TimeSlot: "10:00-10:30"}, ErrInvalidTimeSlot},
		{"unknown doctor", bookRequest(uuid.New(), "10:00-10:30"), ErrDoctorNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.BookAppointment(context.Background(), patientID, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Empty(t, f.store.appointments)
	assert.False(t, f.mr.Exists(mondayKey(doctorID)), "validation failures must not touch capacity")
}

func TestAppointmentUsecase_BookTodayIsAllowed(t *testing.T) {
	f := newFixture(t)
	uc := f.appointmentUsecase()
	uc.now = func() time.Time { return time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC) }
	doctorID := f.addDoctor("house", "150000", 20)
	patientID := f.addPatient("alice")

	_, err := uc.BookAppointment(context.Background(), patientID, bookRequest(doctorID, "09:00-09:30"))
	assert.NoError(t, err)
}

func TestAppointmentUsecase_DoubleBookingSameSlot(t *testing.T) {
	f := newFixture(t)
	uc := f.appointmentUsecase()
	doctorID := f.addDoctor("house", "150000", 20)
	patients := []uuid.UUID{f.addPatient("alice"), f.addPatient("bob")}

	var (
		wg   sync.WaitGroup
		errs = make([]error, len(patients))
	)
	for i, p := range patients {
		wg.Add(1)
		go func(i int, p uuid.UUID) {
			defer wg.Done()
			_, errs[i] = uc.BookAppointment(context.Background(), p, bookRequest(doctorID, "11:00-11:30"))
		}(i, p)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrSlotAlreadyBooked):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)
	assert.Len(t, f.store.appointments, 1)

	val, err := f.mr.Get(mondayKey(doctorID))
	require.NoError(t, err)
	assert.Equal(t, "19", val, "the losing booking must give its capacity back")
}

func TestAppointmentUsecase_CapacityFull(t *testing.T) {
	f := newFixture(t)
	uc := f.appointmentUsecase()
	doctorID := f.addDoctor("house", "150000", 2)
	patientID := f.addPatient("alice")

	_, err := uc.BookAppointment(context.Background(), patientID, bookRequest(doctorID, "09:00-09:30"))
	require.NoError(t, err)
	_, err = uc.BookAppointment(context.Background(), patientID, bookRequest(doctorID, "09:30-10:00"))
	require.NoError(t, err)

	_, err = uc.BookAppointment(context.Background(), patientID, bookRequest(doctorID, "10:00-10:30"))
	assert.ErrorIs(t, err, service.ErrCapacityFull)

	slots, err := uc.GetAvailableSlots(context.Background(), doctorID, nextMonday)
	require.NoError(t, err)
	assert.Empty(t, slots.AvailableSlots)
}

func TestAppointmentUsecase_InsertFailureReleasesCapacity(t *testing.T) {
	f := newFixture(t)
	uc := f.appointmentUsecase()
	doctorID := f.addDoctor("house", "150000", 20)
	patientID := f.addPatient("alice")

	f.appointmentRepo.createErr = errors.New("connection reset")

	_, err := uc.BookAppointment(context.Background(), patientID, bookRequest(doctorID, "09:00-09:30"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSlotAlreadyBooked)

	val, err := f.mr.Get(mondayKey(doctorID))
	require.NoError(t, err)
	assert.Equal(t, "20", val)
}

func TestAppointmentUsecase_CancelFreesSlot(t *testing.T) {
	f := newFixture(t)
	uc := f.appointmentUsecase()
	doctorID := f.addDoctor("house", "150000", 20)
	patientID := f.addPatient("alice")
	ctx := context.Background()

	booked, err := uc.BookAppointment(ctx, patientID, bookRequest(doctorID, "14:00-14:30"))
	require.NoError(t, err)

	_, err = uc.CancelAppointment(ctx, uuid.New(), booked.ID)
	assert.ErrorIs(t, err, ErrNotAppointmentOwner)

	res, err := uc.CancelAppointment(ctx, patientID, booked.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusCancelled), res.Status)

	_, err = uc.CancelAppointment(ctx, doctorID, booked.ID)
	assert.ErrorIs(t, err, ErrAppointmentAlreadyCancelled)

	slots, err := uc.GetAvailableSlots(ctx, doctorID, nextMonday)
	require.NoError(t, err)
	assert.Contains(t, slots.AvailableSlots, "14:00-14:30")

	val, err := f.mr.Get(mondayKey(doctorID))
	require.NoError(t, err)
	assert.Equal(t, "20", val)

	// the freed slot can be booked again
	_, err = uc.BookAppointment(ctx, f.addPatient("bob"), bookRequest(doctorID, "14:00-14:30"))
	assert.NoError(t, err)
}

func TestAppointmentUsecase_CancelMissing(t *testing.T) {
	f := newFixture(t)
	uc := f.appointmentUsecase()

	_, err := uc.CancelAppointment(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestAppointmentUsecase_CompleteIssuesInvoice(t *testing.T) {
	f := newFixture(t)
	uc := f.appointmentUsecase()
	doctorID := f.addDoctor("house", "150000", 20)
	patientID := f.addPatient("alice")
	ctx := context.Background()

	first, err := uc.BookAppointment(ctx, patientID, bookRequest(doctorID, "09:00-09:30"))
	require.NoError(t, err)
	second, err := uc.BookAppointment(ctx, patientID, bookRequest(doctorID, "09:30-10:00"))
	require.NoError(t, err)

	res, err := uc.UpdateStatus(ctx, doctorID, first.ID, &dto.UpdateAppointmentStatusRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusCompleted), res.Appointment.Status)
	require.NotNil(t, res.Invoice)
	assert.Equal(t, "INV-2026-00001", res.Invoice.InvoiceNumber)
	assert.True(t, res.Invoice.TotalAmount.Equal(first.Fee))
	require.Len(t, res.Invoice.Services, 1)
	assert.Equal(t, "Consultation - checkup", res.Invoice.Services[0].Description)
	assert.Equal(t, string(entity.InvoiceStatusPending), res.Invoice.Status)
	assert.Equal(t, nextMonday, res.Invoice.AppointmentDate)

	res, err = uc.UpdateStatus(ctx, doctorID, second.ID, &dto.UpdateAppointmentStatusRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-00002", res.Invoice.InvoiceNumber)

	_, err = uc.UpdateStatus(ctx, doctorID, first.ID, &dto.UpdateAppointmentStatusRequest{Status: "completed"})
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Len(t, f.store.invoices, 2)

	assert.Contains(t, f.store.actions(), entity.AuditActionInvoiceCreate)
}

func TestAppointmentUsecase_UpdateStatusRules(t *testing.T) {
	f := newFixture(t)
	uc := f.appointmentUsecase()
	doctorID := f.addDoctor("house", "150000", 20)
	patientID := f.addPatient("alice")
	ctx := context.Background()

	booked, err := uc.BookAppointment(ctx, patientID, bookRequest(doctorID, "15:00-15:30"))
	require.NoError(t, err)

	_, err = uc.UpdateStatus(ctx, doctorID, booked.ID, &dto.UpdateAppointmentStatusRequest{Status: "scheduled"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = uc.UpdateStatus(ctx, doctorID, booked.ID, &dto.UpdateAppointmentStatusRequest{Status: "archived"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = uc.UpdateStatus(ctx, f.addDoctor("wilson", "100000", 20), booked.ID, &dto.UpdateAppointmentStatusRequest{Status: "completed"})
	assert.ErrorIs(t, err, ErrNotAppointmentOwner)

	_, err = uc.UpdateStatus(ctx, doctorID, uuid.New(), &dto.UpdateAppointmentStatusRequest{Status: "completed"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestAppointmentUsecase_NoShowKeepsSlot(t *testing.T) {
	f := newFixture(t)
	uc := f.appointmentUsecase()
	doctorID := f.addDoctor("house", "150000", 20)
	patientID := f.addPatient("alice")
	ctx := context.Background()

	booked, err := uc.BookAppointment(ctx, patientID, bookRequest(doctorID, "16:00-16:30"))
	require.NoError(t, err)

	res, err := uc.UpdateStatus(ctx, doctorID, booked.ID, &dto.UpdateAppointmentStatusRequest{Status: "no-show"})
	require.NoError(t, err)
	assert.Nil(t, res.Invoice)
	assert.Equal(t, string(entity.AppointmentStatusNoShow), res.Appointment.Status)

	slots, err := uc.GetAvailableSlots(ctx, doctorID, nextMonday)
	require.NoError(t, err)
	assert.NotContains(t, slots.AvailableSlots, "16:00-16:30")

	val, _ := f.mr.Get(mondayKey(doctorID))
	assert.Equal(t, "19", val)
	assert.Empty(t, f.store.invoices)
}

func TestAppointmentUsecase_DoctorCancelReleasesCapacity(t *testing.T) {
	f := newFixture(t)
	uc := f.appointmentUsecase()
	doctorID := f.addDoctor("house", "150000", 20)
	patientID := f.addPatient("alice")
	ctx := context.Background()

	booked, err := uc.BookAppointment(ctx, patientID, bookRequest(doctorID, "16:00-16:30"))
	require.NoError(t, err)

	_, err = uc.UpdateStatus(ctx, doctorID, booked.ID, &dto.UpdateAppointmentStatusRequest{Status: "cancelled"})
	require.NoError(t, err)

	val, _ := f.mr.Get(mondayKey(doctorID))
	assert.Equal(t, "20", val)
}

func TestAppointmentUsecase_GetMyAppointments(t *testing.T) {
	f := newFixture(t)
	uc := f.appointmentUsecase()
	doctorID := f.addDoctor("house", "150000", 20)
	alice := f.addPatient("alice")
	bob := f.addPatient("bob")
	ctx := context.Background()

	_, err := uc.BookAppointment(ctx, alice, bookRequest(doctorID, "09:00-09:30"))
	require.NoError(t, err)
	_, err = uc.BookAppointment(ctx, bob, bookRequest(doctorID, "09:30-10:00"))
	require.NoError(t, err)

	mine, err := uc.GetMyAppointments(ctx, alice, entity.RoleIDPatient)
	require.NoError(t, err)
	assert.Equal(t, 1, mine.Total)

	mine, err = uc.GetMyAppointments(ctx, doctorID, entity.RoleIDDoctor)
	require.NoError(t, err)
	assert.Equal(t, 2, mine.Total)
	assert.Equal(t, "09:00-09:30", mine.Appointments[0].TimeSlot)

	mine, err = uc.GetMyAppointments(ctx, alice, entity.RoleIDAdmin)
	require.NoError(t, err)
	assert.Equal(t, 0, mine.Total)
}
