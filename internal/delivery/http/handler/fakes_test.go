package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/delivery/http/middleware"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

// Fakes embed the usecase interface so only the methods a test sets are
// callable; anything else panics on the nil embedded value.

type fakeAppointmentUsecase struct {
	usecase.AppointmentUsecase
	slotsFn  func(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailableSlotsResponse, error)
	bookFn   func(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	mineFn   func(ctx context.Context, userID uuid.UUID, roleID int) (*dto.AppointmentListResponse, error)
	cancelFn func(ctx context.Context, userID, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	statusFn func(ctx context.Context, doctorID, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.StatusUpdateResponse, error)
}

func (f *fakeAppointmentUsecase) GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailableSlotsResponse, error) {
	return f.slotsFn(ctx, doctorID, date)
}

func (f *fakeAppointmentUsecase) BookAppointment(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	return f.bookFn(ctx, patientID, req)
}

func (f *fakeAppointmentUsecase) GetMyAppointments(ctx context.Context, userID uuid.UUID, roleID int) (*dto.AppointmentListResponse, error) {
	return f.mineFn(ctx, userID, roleID)
}

func (f *fakeAppointmentUsecase) CancelAppointment(ctx context.Context, userID, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	return f.cancelFn(ctx, userID, appointmentID)
}

func (f *fakeAppointmentUsecase) UpdateStatus(ctx context.Context, doctorID, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.StatusUpdateResponse, error) {
	return f.statusFn(ctx, doctorID, appointmentID, req)
}

type fakeAuthUsecase struct {
	usecase.AuthUsecase
	loginFn    func(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	logoutFn   func(ctx context.Context, userID uuid.UUID, accessTokenID string, req *dto.LogoutRequest) error
	refreshFn  func(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	registerFn func(ctx context.Context, req *dto.RegisterDoctorRequest) (*dto.UserResponse, error)
}

func (f *fakeAuthUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	return f.loginFn(ctx, req)
}

func (f *fakeAuthUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID string, req *dto.LogoutRequest) error {
	return f.logoutFn(ctx, userID, accessTokenID, req)
}

func (f *fakeAuthUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	return f.refreshFn(ctx, req)
}

func (f *fakeAuthUsecase) RegisterDoctor(ctx context.Context, req *dto.RegisterDoctorRequest) (*dto.UserResponse, error) {
	return f.registerFn(ctx, req)
}

type fakeInvoiceUsecase struct {
	usecase.InvoiceUsecase
	getFn  func(ctx context.Context, userID, invoiceID uuid.UUID) (*dto.InvoiceResponse, error)
	payFn  func(ctx context.Context, doctorID, invoiceID uuid.UUID) (*dto.InvoiceResponse, error)
	mineFn func(ctx context.Context, userID uuid.UUID, roleID int) (*dto.InvoiceListResponse, error)
}

func (f *fakeInvoiceUsecase) GetInvoice(ctx context.Context, userID, invoiceID uuid.UUID) (*dto.InvoiceResponse, error) {
	return f.getFn(ctx, userID, invoiceID)
}

func (f *fakeInvoiceUsecase) MarkPaid(ctx context.Context, doctorID, invoiceID uuid.UUID) (*dto.InvoiceResponse, error) {
	return f.payFn(ctx, doctorID, invoiceID)
}

func (f *fakeInvoiceUsecase) GetMyInvoices(ctx context.Context, userID uuid.UUID, roleID int) (*dto.InvoiceListResponse, error) {
	return f.mineFn(ctx, userID, roleID)
}

type fakeFeedbackUsecase struct {
	usecase.FeedbackUsecase
	createFn func(ctx context.Context, patientID uuid.UUID, req *dto.CreateFeedbackRequest) (*dto.FeedbackResponse, error)
}

func (f *fakeFeedbackUsecase) CreateFeedback(ctx context.Context, patientID uuid.UUID, req *dto.CreateFeedbackRequest) (*dto.FeedbackResponse, error) {
	return f.createFn(ctx, patientID, req)
}

type fakeRevenueCostUsecase struct {
	usecase.RevenueCostUsecase
	listFn func(ctx context.Context, query *dto.RevenueCostQuery) (*dto.RevenueCostListResponse, error)
}

func (f *fakeRevenueCostUsecase) ListEntries(ctx context.Context, query *dto.RevenueCostQuery) (*dto.RevenueCostListResponse, error) {
	return f.listFn(ctx, query)
}

type fakeAuditLogUsecase struct {
	usecase.AuditLogUsecase
	getFn func(ctx context.Context, id int64) (*dto.AuditLogResponse, error)
}

func (f *fakeAuditLogUsecase) GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	return f.getFn(ctx, id)
}

// serve routes a single request through a mux router so path variables resolve.
func serve(method, pattern string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc(pattern, h).Methods(method)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func newRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func asUser(req *http.Request, userID uuid.UUID, roleID int) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.RoleIDKey, roleID)
	ctx = context.WithValue(ctx, middleware.TokenIDKey, "jti-1")
	return req.WithContext(ctx)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var env response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}
