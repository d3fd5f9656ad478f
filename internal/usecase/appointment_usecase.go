package usecase

import (
	"context"
	"errors"
	"time"

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
	ErrAppointmentNotFound         = errors.New("appointment not found")
	ErrSlotAlreadyBooked           = errors.New("this time slot is already booked")
	ErrInvalidTimeSlot             = errors.New("invalid time slot")
	ErrDateRequired                = errors.New("date is required")
	ErrInvalidDate                 = errors.New("invalid date format, use YYYY-MM-DD")
	ErrDateInPast                  = errors.New("cannot book an appointment in the past")
	ErrNotAppointmentOwner         = errors.New("appointment does not belong to you")
	ErrAppointmentAlreadyCancelled = errors.New("appointment is already cancelled")
	ErrInvalidStatusTransition     = errors.New("only scheduled appointments can change status")
	ErrInvalidStatus               = errors.New("invalid appointment status")
)

// compensationTimeout bounds Redis calls that must run even when the
// request context is already cancelled.
const compensationTimeout = 5 * time.Second

type AppointmentUsecase interface {
	GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailableSlotsResponse, error)
	BookAppointment(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	GetMyAppointments(ctx context.Context, userID uuid.UUID, roleID int) (*dto.AppointmentListResponse, error)
	CancelAppointment(ctx context.Context, userID, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	UpdateStatus(ctx context.Context, doctorID, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.StatusUpdateResponse, error)
}

type appointmentUsecase struct {
	db                *gorm.DB
	transactor        repository.Transactor
	log               *logrus.Logger
	appointmentRepo   repository.AppointmentRepository
	doctorProfileRepo repository.DoctorProfileRepository
	invoiceRepo       repository.InvoiceRepository
	auditService      service.AuditService
	capacityService   *service.CapacityService
	location          *time.Location
	now               func() time.Time
}

func NewAppointmentUsecase(
	db *gorm.DB,
	transactor repository.Transactor,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	invoiceRepo repository.InvoiceRepository,
	auditService service.AuditService,
	capacityService *service.CapacityService,
	location *time.Location,
) AppointmentUsecase {
	if location == nil {
		location = time.UTC
	}
	return &appointmentUsecase{
		db:                db,
		transactor:        transactor,
		log:               log,
		appointmentRepo:   appointmentRepo,
		doctorProfileRepo: doctorProfileRepo,
		invoiceRepo:       invoiceRepo,
		auditService:      auditService,
		capacityService:   capacityService,
		location:          location,
		now:               time.Now,
	}
}

// parseDate reads a calendar date in the clinic's location.
func (u *appointmentUsecase) parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, ErrDateRequired
	}
	date, err := time.ParseInLocation(entity.DateLayout, value, u.location)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

func (u *appointmentUsecase) today() time.Time {
	now := u.now().In(u.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, u.location)
}

// findActiveDoctor treats a deactivated doctor as missing.
func (u *appointmentUsecase) findActiveDoctor(ctx context.Context, doctorID uuid.UUID) (*entity.DoctorProfile, error) {
	doctor, err := u.doctorProfileRepo.FindByUserID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil || !doctor.User.Active() {
		return nil, ErrDoctorNotFound
	}
	return doctor, nil
}

// GetAvailableSlots returns the template slots of the date's weekday that
// no non-cancelled appointment holds. A day whose patient cap is reached
// has no free slots.
func (u *appointmentUsecase) GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailableSlotsResponse, error) {
	day, err := u.parseDate(date)
	if err != nil {
		return nil, err
	}

	doctor, err := u.findActiveDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	weekday := entity.WeekdayOf(day)
	result := &dto.AvailableSlotsResponse{
		DoctorID:       doctorID,
		Date:           day.Format(entity.DateLayout),
		Day:            weekday,
		AvailableSlots: []string{},
	}

	availability := doctor.AvailabilityFor(weekday)
	if availability == nil {
		return result, nil
	}

	slots, err := availability.Slots()
	if err != nil {
		u.log.Warnf("Invalid template for doctor %s on %s: %+v", doctorID, weekday, err)
		return result, nil
	}

	booked, err := u.appointmentRepo.FindBookedSlots(ctx, u.db, doctorID, day)
	if err != nil {
		u.log.Warnf("Failed to find booked slots for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	if len(booked) >= availability.MaxPatients {
		return result, nil
	}

	result.AvailableSlots = entity.FilterBookedSlots(slots, booked)
	return result, nil
}

// BookAppointment books a slot for the patient.
//
// Flow:
// 1. Validate date, doctor and that the slot belongs to the weekday template
// 2. Redis Reserve (atomic daily capacity check)
// 3. Insert appointment; the partial unique index rejects a taken slot
// 4. If the insert fails -> compensate: Release in Redis
func (u *appointmentUsecase) BookAppointment(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	day, err := u.parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if day.Before(u.today()) {
		return nil, ErrDateInPast
	}

	doctor, err := u.findActiveDoctor(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}

	availability := doctor.AvailabilityFor(entity.WeekdayOf(day))
	if availability == nil || !availability.HasSlot(req.TimeSlot) {
		return nil, ErrInvalidTimeSlot
	}

	booked, err := u.appointmentRepo.CountActiveByDoctorAndDate(ctx, u.db, doctor.UserID, day)
	if err != nil {
		u.log.Warnf("Failed to count appointments for doctor %s: %+v", doctor.UserID, err)
		return nil, err
	}

	if err := u.capacityService.Reserve(ctx, doctor.UserID, day, availability.MaxPatients, booked); err != nil {
		return nil, err
	}

	appointment := &entity.Appointment{
		PatientID:       patientID,
		DoctorID:        doctor.UserID,
		AppointmentDate: day,
		TimeSlot:        req.TimeSlot,
		Status:          entity.AppointmentStatusScheduled,
		Reason:          req.Reason,
		Notes:           req.Notes,
		Fee:             doctor.ConsultationFee,
	}

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.appointmentRepo.Create(ctx, tx, appointment); err != nil {
			if isDuplicateKeyError(err, "doctor_slot") {
				return ErrSlotAlreadyBooked
			}
			u.log.Errorf("Failed to insert appointment: %+v", err)
			return err
		}

		return u.auditService.LogCreate(ctx, tx, &patientID, entity.AuditActionAppointmentCreate, "appointment", appointment.ID.String(), entity.JSON{
			"doctor_id": doctor.UserID.String(),
			"date":      appointment.DateString(),
			"time_slot": appointment.TimeSlot,
		})
	})
	if err != nil {
		u.releaseCapacity(doctor.UserID, day)
		return nil, err
	}

	u.log.Infof("Appointment booked: id=%s, doctor=%s, date=%s, slot=%s", appointment.ID, doctor.UserID, appointment.DateString(), appointment.TimeSlot)

	full, err := u.appointmentRepo.FindByID(ctx, u.db, appointment.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload appointment %s: %+v", appointment.ID, err)
		appointment.Doctor = *doctor
		return converter.AppointmentToResponse(appointment), nil
	}

	return converter.AppointmentToResponse(full), nil
}

// releaseCapacity runs detached from the request so a cancelled client
// cannot leak a reserved unit.
func (u *appointmentUsecase) releaseCapacity(doctorID uuid.UUID, day time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), compensationTimeout)
	defer cancel()

	if err := u.capacityService.Release(ctx, doctorID, day); err != nil {
		u.log.Errorf("CRITICAL: Failed to release capacity for doctor %s on %s: %+v", doctorID, day.Format(entity.DateLayout), err)
	}
}

// GetMyAppointments lists the caller's appointments, newest date first.
func (u *appointmentUsecase) GetMyAppointments(ctx context.Context, userID uuid.UUID, roleID int) (*dto.AppointmentListResponse, error) {
	var (
		appointments []entity.Appointment
		err          error
	)

	switch roleID {
	case entity.RoleIDDoctor:
		appointments, err = u.appointmentRepo.FindByDoctorID(ctx, u.db, userID)
	case entity.RoleIDPatient:
		appointments, err = u.appointmentRepo.FindByPatientID(ctx, u.db, userID)
	}
	if err != nil {
		u.log.Warnf("Failed to find appointments for %s: %+v", userID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) findAppointment(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

// CancelAppointment lets either participant cancel a scheduled appointment.
// The slot and one unit of daily capacity become free again.
func (u *appointmentUsecase) CancelAppointment(ctx context.Context, userID, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.findAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if !appointment.IsParticipant(userID) {
		return nil, ErrNotAppointmentOwner
	}
	if appointment.IsCancelled() {
		return nil, ErrAppointmentAlreadyCancelled
	}
	if !appointment.IsScheduled() {
		return nil, ErrInvalidStatusTransition
	}

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		rows, err := u.appointmentRepo.UpdateStatusFrom(ctx, tx, appointment.ID, entity.AppointmentStatusScheduled, entity.AppointmentStatusCancelled)
		if err != nil {
			u.log.Warnf("Failed to cancel appointment %s: %+v", appointment.ID, err)
			return err
		}
		if rows == 0 {
			return ErrInvalidStatusTransition
		}

		return u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionAppointmentCancel, "appointment", appointment.ID.String(),
			entity.JSON{"status": appointment.Status}, entity.JSON{"status": entity.AppointmentStatusCancelled})
	})
	if err != nil {
		return nil, err
	}

	appointment.Status = entity.AppointmentStatusCancelled
	u.releaseCapacity(appointment.DoctorID, appointment.AppointmentDate)

	return converter.AppointmentToResponse(appointment), nil
}

// UpdateStatus moves a scheduled appointment to completed, cancelled or
// no-show. Completing it issues the appointment's invoice in the same
// transaction.
func (u *appointmentUsecase) UpdateStatus(ctx context.Context, doctorID, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.StatusUpdateResponse, error) {
	status, ok := entity.ParseAppointmentStatus(req.Status)
	if !ok || status == entity.AppointmentStatusScheduled {
		return nil, ErrInvalidStatus
	}

	appointment, err := u.findAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if appointment.DoctorID != doctorID {
		return nil, ErrNotAppointmentOwner
	}
	if !appointment.CanTransitionTo(status) {
		return nil, ErrInvalidStatusTransition
	}

	var invoice *entity.Invoice

	err = u.transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
		rows, err := u.appointmentRepo.UpdateStatusFrom(ctx, tx, appointment.ID, entity.AppointmentStatusScheduled, status)
		if err != nil {
			u.log.Warnf("Failed to update status of appointment %s: %+v", appointment.ID, err)
			return err
		}
		if rows == 0 {
			return ErrInvalidStatusTransition
		}

		err = u.auditService.LogUpdate(ctx, tx, &doctorID, entity.AuditActionAppointmentStatus, "appointment", appointment.ID.String(),
			entity.JSON{"status": appointment.Status}, entity.JSON{"status": status})
		if err != nil {
			return err
		}

		if status != entity.AppointmentStatusCompleted {
			return nil
		}

		invoice, err = u.issueInvoice(ctx, tx, doctorID, appointment)
		return err
	})
	if err != nil {
		return nil, err
	}

	appointment.Status = status
	if status == entity.AppointmentStatusCancelled {
		u.releaseCapacity(appointment.DoctorID, appointment.AppointmentDate)
	}

	result := &dto.StatusUpdateResponse{
		Appointment: *converter.AppointmentToResponse(appointment),
	}
	if invoice != nil {
		invoice.Appointment = *appointment
		invoice.Patient = appointment.Patient
		invoice.Doctor = appointment.Doctor
		result.Invoice = converter.InvoiceToResponse(invoice)
	}

	return result, nil
}

// issueInvoice numbers and stores the appointment's invoice. The counter
// row is locked until tx ends, so numbers are sequential without gaps.
func (u *appointmentUsecase) issueInvoice(ctx context.Context, tx *gorm.DB, doctorID uuid.UUID, appointment *entity.Appointment) (*entity.Invoice, error) {
	issuedAt := u.now().In(u.location)
	year := issuedAt.Year()

	seq, err := u.invoiceRepo.NextNumber(ctx, tx, year)
	if err != nil {
		u.log.Warnf("Failed to allocate invoice number for %d: %+v", year, err)
		return nil, err
	}

	invoice := entity.NewConsultationInvoice(appointment, entity.FormatInvoiceNumber(year, seq), issuedAt)
	if err := u.invoiceRepo.Create(ctx, tx, invoice); err != nil {
		if isDuplicateKeyError(err, "appointment_id") {
			return nil, ErrInvoiceAlreadyExists
		}
		u.log.Warnf("Failed to create invoice for appointment %s: %+v", appointment.ID, err)
		return nil, err
	}

	err = u.auditService.LogCreate(ctx, tx, &doctorID, entity.AuditActionInvoiceCreate, "invoice", invoice.ID.String(), entity.JSON{
		"invoice_number": invoice.InvoiceNumber,
		"appointment_id": appointment.ID.String(),
		"total_amount":   invoice.TotalAmount.String(),
	})
	if err != nil {
		return nil, err
	}

	return invoice, nil
}
