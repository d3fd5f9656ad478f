package http

import (
	"net/http"

	"clinic-booking/internal/delivery/http/handler"
	"clinic-booking/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth           *handler.AuthHandler
	Appointment    *handler.AppointmentHandler
	Doctor         *handler.DoctorHandler
	DoctorSchedule *handler.DoctorScheduleHandler
	Patient        *handler.PatientHandler
	Invoice        *handler.InvoiceHandler
	Prescription   *handler.PrescriptionHandler
	Feedback       *handler.FeedbackHandler
	RevenueCost    *handler.RevenueCostHandler
	AuditLog       *handler.AuditLogHandler
}

type Router struct {
	router            *mux.Router
	handlers          Handlers
	authMiddleware    *middleware.AuthMiddleware
	corsMiddleware    *middleware.CORSMiddleware
	loggingMiddleware *middleware.LoggingMiddleware
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		handlers:          handlers,
		authMiddleware:    authMiddleware,
		corsMiddleware:    corsMiddleware,
		loggingMiddleware: loggingMiddleware,
	}
}

// Setup mounts every route and wraps the router so CORS and access logging
// also cover unmatched paths and preflight requests.
func (r *Router) Setup() http.Handler {
	h := r.handlers

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register/patient", h.Auth.RegisterPatient).Methods(http.MethodPost)
	auth.HandleFunc("/register/doctor", h.Auth.RegisterDoctor).Methods(http.MethodPost)
	auth.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", h.Auth.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", h.Auth.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", h.Auth.GetCurrentUser).Methods(http.MethodGet)

	// Appointment discovery (public)
	appointmentsPublic := api.PathPrefix("/appointments").Subrouter()
	appointmentsPublic.HandleFunc("/available-doctors", h.Appointment.GetAvailableDoctors).Methods(http.MethodGet)
	appointmentsPublic.HandleFunc("/doctors/{doctorId}/slots", h.Appointment.GetAvailableSlots).Methods(http.MethodGet)

	// Appointments (protected)
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.Handle("", middleware.RequirePatient(http.HandlerFunc(h.Appointment.BookAppointment))).Methods(http.MethodPost)
	appointments.Handle("/mine", middleware.RequireDoctorOrPatient(http.HandlerFunc(h.Appointment.GetMyAppointments))).Methods(http.MethodGet)
	appointments.Handle("/{id}/cancel", middleware.RequireDoctorOrPatient(http.HandlerFunc(h.Appointment.CancelAppointment))).Methods(http.MethodPut)
	appointments.Handle("/{id}/status", middleware.RequireDoctor(http.HandlerFunc(h.Appointment.UpdateStatus))).Methods(http.MethodPut)

	// Doctor self-service
	doctors := api.PathPrefix("/doctors").Subrouter()
	doctors.Use(r.authMiddleware.Authenticate)
	doctors.Use(middleware.RequireDoctor)
	doctors.HandleFunc("/profile", h.Doctor.GetProfile).Methods(http.MethodGet)
	doctors.HandleFunc("/profile", h.Doctor.UpdateProfile).Methods(http.MethodPut)
	doctors.HandleFunc("/schedule", h.DoctorSchedule.GetSchedule).Methods(http.MethodGet)
	doctors.HandleFunc("/schedule", h.DoctorSchedule.UpdateSchedule).Methods(http.MethodPut)
	doctors.HandleFunc("/income-summary", h.Doctor.GetIncomeSummary).Methods(http.MethodGet)

	// Patient self-service
	patients := api.PathPrefix("/patients").Subrouter()
	patients.Use(r.authMiddleware.Authenticate)
	patients.Use(middleware.RequirePatient)
	patients.HandleFunc("/profile", h.Patient.GetProfile).Methods(http.MethodGet)
	patients.HandleFunc("/profile", h.Patient.UpdateProfile).Methods(http.MethodPut)

	// Invoices
	invoices := api.PathPrefix("/invoices").Subrouter()
	invoices.Use(r.authMiddleware.Authenticate)
	invoices.Use(middleware.RequireDoctorOrPatient)
	invoices.HandleFunc("", h.Invoice.GetMyInvoices).Methods(http.MethodGet)
	invoices.HandleFunc("/{id}", h.Invoice.GetInvoice).Methods(http.MethodGet)
	invoices.Handle("/{id}/pay", middleware.RequireDoctor(http.HandlerFunc(h.Invoice.MarkPaid))).Methods(http.MethodPut)

	// Prescriptions
	prescriptions := api.PathPrefix("/prescriptions").Subrouter()
	prescriptions.Use(r.authMiddleware.Authenticate)
	prescriptions.Use(middleware.RequireDoctorOrPatient)
	prescriptions.Handle("", middleware.RequireDoctor(http.HandlerFunc(h.Prescription.CreatePrescription))).Methods(http.MethodPost)
	prescriptions.HandleFunc("/mine", h.Prescription.GetMyPrescriptions).Methods(http.MethodGet)
	prescriptions.HandleFunc("/{id}", h.Prescription.GetPrescription).Methods(http.MethodGet)
	prescriptions.Handle("/{id}", middleware.RequireDoctor(http.HandlerFunc(h.Prescription.UpdatePrescription))).Methods(http.MethodPut)

	// Feedback: doctor ratings are public, the rest needs a session
	feedbackPublic := api.PathPrefix("/feedback").Subrouter()
	feedbackPublic.HandleFunc("/doctors/{doctorId}", h.Feedback.GetDoctorFeedback).Methods(http.MethodGet)

	feedback := api.PathPrefix("/feedback").Subrouter()
	feedback.Use(r.authMiddleware.Authenticate)
	feedback.Handle("", middleware.RequirePatient(http.HandlerFunc(h.Feedback.CreateFeedback))).Methods(http.MethodPost)
	feedback.HandleFunc("/appointments/{appointmentId}", h.Feedback.GetAppointmentFeedback).Methods(http.MethodGet)

	// Revenue and cost ledger
	revenueCosts := api.PathPrefix("/revenue-costs").Subrouter()
	revenueCosts.Use(r.authMiddleware.Authenticate)
	revenueCosts.Use(middleware.RequireAdminOrDoctor)
	revenueCosts.HandleFunc("", h.RevenueCost.CreateEntry).Methods(http.MethodPost)
	revenueCosts.HandleFunc("", h.RevenueCost.ListEntries).Methods(http.MethodGet)
	revenueCosts.HandleFunc("/summary", h.RevenueCost.GetSummary).Methods(http.MethodGet)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/audit-logs", h.AuditLog.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", h.AuditLog.GetAuditLog).Methods(http.MethodGet)
	admin.HandleFunc("/doctors", h.Doctor.ListAll).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}/active", h.Doctor.SetActive).Methods(http.MethodPut)

	return r.corsMiddleware.Handle(r.loggingMiddleware.Handle(r.router))
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
