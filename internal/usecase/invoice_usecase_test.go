package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoiceAt(amount string, status entity.InvoiceStatus, issued time.Time) entity.Invoice {
	return entity.Invoice{
		ID:          uuid.New(),
		TotalAmount: decimal.RequireFromString(amount),
		Status:      status,
		InvoiceDate: issued,
	}
}

func TestSummarizeIncome(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	invoices := []entity.Invoice{
		invoiceAt("100.50", entity.InvoiceStatusPaid, time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)),
		invoiceAt("200", entity.InvoiceStatusPending, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
		invoiceAt("300", entity.InvoiceStatusPaid, time.Date(2026, 2, 28, 23, 59, 0, 0, time.UTC)),
		invoiceAt("50", entity.InvoiceStatusPending, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)),
	}

	s := summarizeIncome(invoices, now)

	assert.Equal(t, "650.5", s.TotalIncome.String())
	assert.Equal(t, "400.5", s.PaidIncome.String())
	assert.Equal(t, "250", s.PendingIncome.String())
	assert.Equal(t, "350.5", s.MonthlyIncome.String())
	assert.Equal(t, "100.5", s.TodayIncome.String())
	assert.Equal(t, 4, s.TotalInvoices)
	assert.Equal(t, 2, s.PaidInvoices)
	assert.Equal(t, 2, s.PendingCount)
}

func TestSummarizeIncome_Empty(t *testing.T) {
	s := summarizeIncome(nil, time.Now())
	assert.True(t, s.TotalIncome.IsZero())
	assert.True(t, s.TodayIncome.IsZero())
	assert.Zero(t, s.TotalInvoices)
}

func TestSummarizeIncome_UsesLocationForDayBoundary(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	now := time.Date(2026, 3, 15, 8, 0, 0, 0, jakarta)

	// 2026-03-14 18:00 UTC is already 2026-03-15 01:00 in WIB
	invoices := []entity.Invoice{
		invoiceAt("10", entity.InvoiceStatusPaid, time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)),
	}

	s := summarizeIncome(invoices, now)
	assert.Equal(t, "10", s.TodayIncome.String())
}

// completeOne books and completes an appointment, returning its invoice.
func completeOne(t *testing.T, f *fixture, doctorID, patientID uuid.UUID, slot string) *dto.InvoiceResponse {
	t.Helper()
	uc := f.appointmentUsecase()
	ctx := context.Background()

	booked, err := uc.BookAppointment(ctx, patientID, bookRequest(doctorID, slot))
	require.NoError(t, err)
	res, err := uc.UpdateStatus(ctx, doctorID, booked.ID, &dto.UpdateAppointmentStatusRequest{Status: "completed"})
	require.NoError(t, err)
	require.NotNil(t, res.Invoice)
	return res.Invoice
}

func TestInvoiceUsecase_MarkPaid(t *testing.T) {
	f := newFixture(t)
	uc := f.invoiceUsecase()
	doctorID := f.addDoctor("house", "150000", 20)
	patientID := f.addPatient("alice")
	ctx := context.Background()

	inv := completeOne(t, f, doctorID, patientID, "09:00-09:30")

	_, err := uc.MarkPaid(ctx, patientID, inv.ID)
	assert.ErrorIs(t, err, ErrNotInvoiceOwner)

	_, err = uc.MarkPaid(ctx, f.addDoctor("wilson", "1", 20), inv.ID)
	assert.ErrorIs(t, err, ErrNotInvoiceOwner)

	paid, err := uc.MarkPaid(ctx, doctorID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.InvoiceStatusPaid), paid.Status)

	_, err = uc.MarkPaid(ctx, doctorID, inv.ID)
	assert.ErrorIs(t, err, ErrInvoiceAlreadyPaid)

	_, err = uc.MarkPaid(ctx, doctorID, uuid.New())
	assert.ErrorIs(t, err, ErrInvoiceNotFound)

	assert.Contains(t, f.store.actions(), entity.AuditActionInvoicePaid)
}

func TestInvoiceUsecase_Listing(t *testing.T) {
	f := newFixture(t)
	uc := f.invoiceUsecase()
	doctorID := f.addDoctor("house", "150000", 20)
	alice := f.addPatient("alice")
	bob := f.addPatient("bob")
	ctx := context.Background()

	aliceInv := completeOne(t, f, doctorID, alice, "09:00-09:30")
	completeOne(t, f, doctorID, bob, "09:30-10:00")

	mine, err := uc.GetMyInvoices(ctx, alice, entity.RoleIDPatient)
	require.NoError(t, err)
	require.Equal(t, 1, mine.Total)
	assert.Equal(t, aliceInv.ID, mine.Invoices[0].ID)

	mine, err = uc.GetMyInvoices(ctx, doctorID, entity.RoleIDDoctor)
	require.NoError(t, err)
	assert.Equal(t, 2, mine.Total)

	got, err := uc.GetInvoice(ctx, alice, aliceInv.ID)
	require.NoError(t, err)
	assert.Equal(t, aliceInv.InvoiceNumber, got.InvoiceNumber)

	_, err = uc.GetInvoice(ctx, bob, aliceInv.ID)
	assert.ErrorIs(t, err, ErrNotInvoiceOwner)
}

func TestInvoiceUsecase_GetIncomeSummary(t *testing.T) {
	f := newFixture(t)
	uc := f.invoiceUsecase()
	doctorID := f.addDoctor("house", "150000", 20)
	patientID := f.addPatient("alice")
	ctx := context.Background()

	first := completeOne(t, f, doctorID, patientID, "09:00-09:30")
	completeOne(t, f, doctorID, patientID, "09:30-10:00")

	_, err := uc.MarkPaid(ctx, doctorID, first.ID)
	require.NoError(t, err)

	s, err := uc.GetIncomeSummary(ctx, doctorID)
	require.NoError(t, err)
	assert.Equal(t, "300000", s.TotalIncome.String())
	assert.Equal(t, "150000", s.PaidIncome.String())
	assert.Equal(t, "150000", s.PendingIncome.String())
	assert.Equal(t, "300000", s.TodayIncome.String())
	assert.Equal(t, 2, s.TotalInvoices)
}
