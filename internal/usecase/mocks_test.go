package usecase

import (
	"context"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"clinic-booking/config"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/service"
	"clinic-booking/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

// memStore backs every in-memory repository so relations can be resolved
// the way the gorm preloads do.
type memStore struct {
	mu             sync.Mutex
	users          map[uuid.UUID]*entity.User
	doctors        map[uuid.UUID]*entity.DoctorProfile
	patients       map[uuid.UUID]*entity.PatientProfile
	availabilities map[uuid.UUID][]entity.DoctorAvailability
	appointments   map[uuid.UUID]*entity.Appointment
	invoices       map[uuid.UUID]*entity.Invoice
	sequences      map[int]int64
	prescriptions  map[uuid.UUID]*entity.Prescription
	feedbacks      map[uuid.UUID]*entity.Feedback
	entries        []entity.RevenueCost
	audits         []entity.AuditLog
	clock          time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:          map[uuid.UUID]*entity.User{},
		doctors:        map[uuid.UUID]*entity.DoctorProfile{},
		patients:       map[uuid.UUID]*entity.PatientProfile{},
		availabilities: map[uuid.UUID][]entity.DoctorAvailability{},
		appointments:   map[uuid.UUID]*entity.Appointment{},
		invoices:       map[uuid.UUID]*entity.Invoice{},
		sequences:      map[int]int64{},
		prescriptions:  map[uuid.UUID]*entity.Prescription{},
		feedbacks:      map[uuid.UUID]*entity.Feedback{},
		clock:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns strictly increasing timestamps for stable ordering
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.audits))
	for i, a := range s.audits {
		out[i] = a.Action
	}
	return out
}

func (s *memStore) doctorCopy(id uuid.UUID) entity.DoctorProfile {
	d, ok := s.doctors[id]
	if !ok {
		return entity.DoctorProfile{}
	}
	c := *d
	if u, ok := s.users[id]; ok {
		c.User = *u
	}
	c.Availabilities = append([]entity.DoctorAvailability(nil), s.availabilities[id]...)
	return c
}

func (s *memStore) patientCopy(id uuid.UUID) entity.PatientProfile {
	p, ok := s.patients[id]
	if !ok {
		return entity.PatientProfile{}
	}
	c := *p
	if u, ok := s.users[id]; ok {
		c.User = *u
	}
	return c
}

// users

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return uniqueViolation("uq_users_email")
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = r.s.tick()
	c := *user
	c.DoctorProfile, c.PatientProfile = nil, nil
	r.s.users[user.ID] = &c
	return nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	if d, ok := r.s.doctors[id]; ok {
		dc := *d
		c.DoctorProfile = &dc
	}
	if p, ok := r.s.patients[id]; ok {
		pc := *p
		c.PatientProfile = &pc
	}
	return &c, nil
}

func (r *memUserRepo) Update(ctx context.Context, db *gorm.DB, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[user.ID]
	if ok {
		u.FirstName, u.LastName = user.FirstName, user.LastName
	}
	return nil
}

func (r *memUserRepo) SetActive(ctx context.Context, db *gorm.DB, id uuid.UUID, active bool) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return 0, nil
	}
	u.IsActive = entity.Bool(active)
	return 1, nil
}

type memRoleRepo struct{}

func (memRoleRepo) FindByName(ctx context.Context, db *gorm.DB, name string) (*entity.Role, error) {
	switch name {
	case entity.RoleAdmin:
		return &entity.Role{ID: entity.RoleIDAdmin, RoleName: name}, nil
	case entity.RoleDoctor:
		return &entity.Role{ID: entity.RoleIDDoctor, RoleName: name}, nil
	case entity.RolePatient:
		return &entity.Role{ID: entity.RoleIDPatient, RoleName: name}, nil
	}
	return nil, nil
}

// profiles

type memDoctorProfileRepo struct{ s *memStore }

func (r *memDoctorProfileRepo) Create(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.doctors {
		if d.LicenseNumber == profile.LicenseNumber {
			return uniqueViolation("uq_doctor_profiles_license_number")
		}
	}
	c := *profile
	c.User, c.Availabilities = entity.User{}, nil
	r.s.doctors[profile.UserID] = &c
	return nil
}

func (r *memDoctorProfileRepo) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.doctors[userID]; !ok {
		return nil, nil
	}
	c := r.s.doctorCopy(userID)
	return &c, nil
}

func (r *memDoctorProfileRepo) FindAll(ctx context.Context, db *gorm.DB, activeOnly bool) ([]entity.DoctorProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.DoctorProfile
	for id := range r.s.doctors {
		c := r.s.doctorCopy(id)
		if activeOnly && !c.User.Active() {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].User.FirstName < out[j].User.FirstName })
	return out, nil
}

func (r *memDoctorProfileRepo) Update(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d, ok := r.s.doctors[profile.UserID]; ok {
		d.Phone = profile.Phone
		d.ConsultationFee = profile.ConsultationFee
		d.Specialization = profile.Specialization
	}
	return nil
}

type memPatientProfileRepo struct{ s *memStore }

func (r *memPatientProfileRepo) Create(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *profile
	c.User = entity.User{}
	r.s.patients[profile.UserID] = &c
	return nil
}

func (r *memPatientProfileRepo) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.patients[userID]; !ok {
		return nil, nil
	}
	c := r.s.patientCopy(userID)
	return &c, nil
}

func (r *memPatientProfileRepo) Update(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.patients[profile.UserID]; ok {
		p.Phone = profile.Phone
	}
	return nil
}

type memAvailabilityRepo struct{ s *memStore }

func (r *memAvailabilityRepo) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.DoctorAvailability, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]entity.DoctorAvailability(nil), r.s.availabilities[doctorID]...), nil
}

func (r *memAvailabilityRepo) FindByDoctorAndDay(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, day string) (*entity.DoctorAvailability, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.availabilities[doctorID] {
		if a.Day == day {
			c := a
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memAvailabilityRepo) ReplaceForDoctor(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, rows []entity.DoctorAvailability) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.availabilities[doctorID] = append([]entity.DoctorAvailability(nil), rows...)
	return nil
}

// appointments

type memAppointmentRepo struct {
	s         *memStore
	createErr error
}

func sameDay(a, b time.Time) bool {
	return a.Format(entity.DateLayout) == b.Format(entity.DateLayout)
}

func (r *memAppointmentRepo) Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, a := range r.s.appointments {
		if a.DoctorID == appointment.DoctorID && sameDay(a.AppointmentDate, appointment.AppointmentDate) &&
			a.TimeSlot == appointment.TimeSlot && !a.IsCancelled() {
			return uniqueViolation("uq_appointments_doctor_slot")
		}
	}
	appointment.ID = uuid.New()
	appointment.CreatedAt = r.s.tick()
	c := *appointment
	c.Doctor, c.Patient = entity.DoctorProfile{}, entity.PatientProfile{}
	r.s.appointments[c.ID] = &c
	return nil
}

func (r *memAppointmentRepo) load(a *entity.Appointment) entity.Appointment {
	c := *a
	c.Doctor = r.s.doctorCopy(a.DoctorID)
	c.Patient = r.s.patientCopy(a.PatientID)
	return c
}

func (r *memAppointmentRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok {
		return nil, nil
	}
	c := r.load(a)
	return &c, nil
}

func (r *memAppointmentRepo) filter(keep func(*entity.Appointment) bool) []entity.Appointment {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Appointment
	for _, a := range r.s.appointments {
		if keep(a) {
			out = append(out, r.load(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AppointmentDate.Equal(out[j].AppointmentDate) {
			return out[i].AppointmentDate.After(out[j].AppointmentDate)
		}
		return out[i].TimeSlot < out[j].TimeSlot
	})
	return out
}

func (r *memAppointmentRepo) FindByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	return r.filter(func(a *entity.Appointment) bool { return a.PatientID == patientID }), nil
}

func (r *memAppointmentRepo) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error) {
	return r.filter(func(a *entity.Appointment) bool { return a.DoctorID == doctorID }), nil
}

func (r *memAppointmentRepo) FindBookedSlots(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]string, error) {
	var slots []string
	for _, a := range r.filter(func(a *entity.Appointment) bool {
		return a.DoctorID == doctorID && sameDay(a.AppointmentDate, date) && !a.IsCancelled()
	}) {
		slots = append(slots, a.TimeSlot)
	}
	return slots, nil
}

func (r *memAppointmentRepo) CountActiveByDoctorAndDate(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, date time.Time) (int64, error) {
	slots, _ := r.FindBookedSlots(ctx, db, doctorID, date)
	return int64(len(slots)), nil
}

func (r *memAppointmentRepo) UpdateStatusFrom(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok || a.Status != from {
		return 0, nil
	}
	a.Status = to
	return 1, nil
}

func (r *memAppointmentRepo) MarkNoShowBefore(ctx context.Context, db *gorm.DB, date time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, a := range r.s.appointments {
		if a.IsScheduled() && a.AppointmentDate.Before(date) {
			a.Status = entity.AppointmentStatusNoShow
			n++
		}
	}
	return n, nil
}

// invoices

type memInvoiceRepo struct{ s *memStore }

func (r *memInvoiceRepo) NextNumber(ctx context.Context, db *gorm.DB, year int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sequences[year]++
	return r.s.sequences[year], nil
}

func (r *memInvoiceRepo) Create(ctx context.Context, db *gorm.DB, invoice *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.invoices {
		if inv.AppointmentID == invoice.AppointmentID {
			return uniqueViolation("uq_invoices_appointment_id")
		}
	}
	invoice.ID = uuid.New()
	invoice.CreatedAt = r.s.tick()
	c := *invoice
	r.s.invoices[c.ID] = &c
	return nil
}

func (r *memInvoiceRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	c := *inv
	return &c, nil
}

func (r *memInvoiceRepo) list(keep func(*entity.Invoice) bool) []entity.Invoice {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Invoice
	for _, inv := range r.s.invoices {
		if keep(inv) {
			out = append(out, *inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memInvoiceRepo) FindByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]entity.Invoice, error) {
	return r.list(func(inv *entity.Invoice) bool { return inv.PatientID == patientID }), nil
}

func (r *memInvoiceRepo) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.Invoice, error) {
	return r.list(func(inv *entity.Invoice) bool { return inv.DoctorID == doctorID }), nil
}

func (r *memInvoiceRepo) MarkPaid(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok || inv.IsPaid() {
		return 0, nil
	}
	inv.Status = entity.InvoiceStatusPaid
	return 1, nil
}

// prescriptions

type memPrescriptionRepo struct{ s *memStore }

func (r *memPrescriptionRepo) Create(ctx context.Context, db *gorm.DB, p *entity.Prescription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = uuid.New()
	p.CreatedAt = r.s.tick()
	c := *p
	r.s.prescriptions[c.ID] = &c
	return nil
}

func (r *memPrescriptionRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Prescription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.prescriptions[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *memPrescriptionRepo) list(keep func(*entity.Prescription) bool) []entity.Prescription {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Prescription
	for _, p := range r.s.prescriptions {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memPrescriptionRepo) FindByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]entity.Prescription, error) {
	return r.list(func(p *entity.Prescription) bool { return p.PatientID == patientID }), nil
}

func (r *memPrescriptionRepo) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.Prescription, error) {
	return r.list(func(p *entity.Prescription) bool { return p.DoctorID == doctorID }), nil
}

func (r *memPrescriptionRepo) Update(ctx context.Context, db *gorm.DB, p *entity.Prescription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *p
	r.s.prescriptions[p.ID] = &c
	return nil
}

// feedback

type memFeedbackRepo struct{ s *memStore }

func (r *memFeedbackRepo) Create(ctx context.Context, db *gorm.DB, f *entity.Feedback) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.feedbacks {
		if existing.AppointmentID == f.AppointmentID {
			return uniqueViolation("uq_feedbacks_appointment_id")
		}
	}
	f.ID = uuid.New()
	f.CreatedAt = r.s.tick()
	c := *f
	r.s.feedbacks[c.ID] = &c
	return nil
}

func (r *memFeedbackRepo) FindByAppointmentID(ctx context.Context, db *gorm.DB, appointmentID uuid.UUID) (*entity.Feedback, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, f := range r.s.feedbacks {
		if f.AppointmentID == appointmentID {
			c := *f
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memFeedbackRepo) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.Feedback, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Feedback
	for _, f := range r.s.feedbacks {
		if f.DoctorID == doctorID {
			c := *f
			c.Patient = r.s.patientCopy(f.PatientID)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// revenue / cost

type memRevenueCostRepo struct{ s *memStore }

func (r *memRevenueCostRepo) Create(ctx context.Context, db *gorm.DB, e *entity.RevenueCost) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = uuid.New()
	e.CreatedAt = r.s.tick()
	r.s.entries = append(r.s.entries, *e)
	return nil
}

func (r *memRevenueCostRepo) FindAll(ctx context.Context, db *gorm.DB, filter *entity.RevenueCostFilter) ([]entity.RevenueCost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.RevenueCost
	for _, e := range r.s.entries {
		if filter != nil {
			if filter.From != nil && e.EntryDate.Before(*filter.From) {
				continue
			}
			if filter.To != nil && e.EntryDate.After(*filter.To) {
				continue
			}
			if filter.Type != "" && e.Type != filter.Type {
				continue
			}
		}
		out = append(out, e)
	}
	return out, nil
}

// audit

type memAuditRepo struct{ s *memStore }

func (r *memAuditRepo) Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	log.ID = int64(len(r.s.audits) + 1)
	log.CreatedAt = r.s.tick()
	r.s.audits = append(r.s.audits, *log)
	return nil
}

func (r *memAuditRepo) FindAll(ctx context.Context, db *gorm.DB) ([]entity.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.AuditLog, len(r.s.audits))
	for i := range r.s.audits {
		out[len(out)-1-i] = r.s.audits[i]
	}
	return out, nil
}

func (r *memAuditRepo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.audits {
		if a.ID == id {
			c := a
			return &c, nil
		}
	}
	return nil, nil
}

var (
	_ repository.UserRepository               = (*memUserRepo)(nil)
	_ repository.RoleRepository               = memRoleRepo{}
	_ repository.DoctorProfileRepository      = (*memDoctorProfileRepo)(nil)
	_ repository.PatientProfileRepository     = (*memPatientProfileRepo)(nil)
	_ repository.DoctorAvailabilityRepository = (*memAvailabilityRepo)(nil)
	_ repository.AppointmentRepository        = (*memAppointmentRepo)(nil)
	_ repository.InvoiceRepository            = (*memInvoiceRepo)(nil)
	_ repository.PrescriptionRepository       = (*memPrescriptionRepo)(nil)
	_ repository.FeedbackRepository           = (*memFeedbackRepo)(nil)
	_ repository.RevenueCostRepository        = (*memRevenueCostRepo)(nil)
	_ repository.AuditLogRepository           = (*memAuditRepo)(nil)
	_ repository.Transactor                   = fakeTransactor{}
)

// fixture wires every usecase against one memStore and one miniredis.

// fixedNow is Sunday 2026-03-01 10:00 UTC; 2026-03-02 is a Monday.
var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

const nextMonday = "2026-03-02"

type fixture struct {
	t     *testing.T
	store *memStore
	mr    *miniredis.Miniredis
	log   *logrus.Logger

	userRepo         *memUserRepo
	doctorRepo       *memDoctorProfileRepo
	patientRepo      *memPatientProfileRepo
	availabilityRepo *memAvailabilityRepo
	appointmentRepo  *memAppointmentRepo
	invoiceRepo      *memInvoiceRepo
	prescriptionRepo *memPrescriptionRepo
	feedbackRepo     *memFeedbackRepo
	revenueCostRepo  *memRevenueCostRepo
	auditRepo        *memAuditRepo

	audit      service.AuditService
	capacity   *service.CapacityService
	tokenStore *service.TokenStore
	jwtService *jwt.JWTService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	s := newMemStore()
	f := &fixture{
		t:                t,
		store:            s,
		mr:               mr,
		log:              log,
		userRepo:         &memUserRepo{s},
		doctorRepo:       &memDoctorProfileRepo{s},
		patientRepo:      &memPatientProfileRepo{s},
		availabilityRepo: &memAvailabilityRepo{s},
		appointmentRepo:  &memAppointmentRepo{s: s},
		invoiceRepo:      &memInvoiceRepo{s},
		prescriptionRepo: &memPrescriptionRepo{s},
		feedbackRepo:     &memFeedbackRepo{s},
		revenueCostRepo:  &memRevenueCostRepo{s},
		auditRepo:        &memAuditRepo{s},
		capacity:         service.NewCapacityService(client, log),
		tokenStore:       service.NewTokenStore(client),
		jwtService: jwt.NewJWTService(config.JWTConfig{
			Secret:        "test-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: time.Hour,
		}),
	}
	f.audit = service.NewAuditService(log, f.auditRepo)
	return f
}

// addDoctor seeds an active doctor working Monday 09:00-17:00.
func (f *fixture) addDoctor(firstName string, fee string, maxPatients int) uuid.UUID {
	id := uuid.New()
	f.store.users[id] = &entity.User{
		ID:        id,
		RoleID:    entity.RoleIDDoctor,
		Email:     firstName + "@clinic.test",
		FirstName: firstName,
		LastName:  "Doc",
		IsActive:  entity.Bool(true),
	}
	f.store.doctors[id] = &entity.DoctorProfile{
		UserID:          id,
		LicenseNumber:   "LIC-" + id.String()[:8],
		Specialization:  "General",
		ConsultationFee: decimal.RequireFromString(fee),
	}
	f.store.availabilities[id] = []entity.DoctorAvailability{
		{DoctorID: id, Day: "Monday", StartTime: "09:00", EndTime: "17:00", MaxPatients: maxPatients},
	}
	return id
}

func (f *fixture) addPatient(firstName string) uuid.UUID {
	id := uuid.New()
	f.store.users[id] = &entity.User{
		ID:        id,
		RoleID:    entity.RoleIDPatient,
		Email:     firstName + "@patient.test",
		FirstName: firstName,
		LastName:  "Pat",
		IsActive:  entity.Bool(true),
	}
	f.store.patients[id] = &entity.PatientProfile{UserID: id, Phone: "555-0100"}
	return id
}

func (f *fixture) appointmentUsecase() *appointmentUsecase {
	uc := NewAppointmentUsecase(nil, fakeTransactor{}, f.log, f.appointmentRepo, f.doctorRepo, f.invoiceRepo, f.audit, f.capacity, time.UTC).(*appointmentUsecase)
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func (f *fixture) invoiceUsecase() *invoiceUsecase {
	uc := NewInvoiceUsecase(nil, fakeTransactor{}, f.log, f.invoiceRepo, f.audit, time.UTC).(*invoiceUsecase)
	uc.now = func() time.Time { return fixedNow }
	return uc
}

// seedAppointment stores an appointment directly, bypassing booking.
func (f *fixture) seedAppointment(doctorID, patientID uuid.UUID, status entity.AppointmentStatus) uuid.UUID {
	id := uuid.New()
	f.store.appointments[id] = &entity.Appointment{
		ID:              id,
		PatientID:       patientID,
		DoctorID:        doctorID,
		AppointmentDate: time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC),
		TimeSlot:        "09:00-09:30",
		Status:          status,
		Reason:          "follow-up",
		Fee:             f.store.doctors[doctorID].ConsultationFee,
		CreatedAt:       f.store.tick(),
	}
	return id
}
