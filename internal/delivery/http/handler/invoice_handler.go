package handler

import (
	"errors"
	"net/http"

	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/response"
)

type InvoiceHandler struct {
	invoiceUsecase usecase.InvoiceUsecase
}

func NewInvoiceHandler(invoiceUsecase usecase.InvoiceUsecase) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceUsecase: invoiceUsecase,
	}
}

func (h *InvoiceHandler) GetMyInvoices(w http.ResponseWriter, r *http.Request) {
	userID, roleID, ok := currentUser(w, r)
	if !ok {
		return
	}

	invoices, err := h.invoiceUsecase.GetMyInvoices(r.Context(), userID, roleID)
	if err != nil {
		response.InternalServerError(w, "Failed to get invoices")
		return
	}

	response.Success(w, http.StatusOK, "Invoices retrieved successfully", invoices)
}

func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	invoiceID, ok := pathUUID(w, r, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceUsecase.GetInvoice(r.Context(), userID, invoiceID)
	if err != nil {
		h.writeError(w, err, "Failed to get invoice")
		return
	}

	response.Success(w, http.StatusOK, "Invoice retrieved successfully", invoice)
}

func (h *InvoiceHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	doctorID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	invoiceID, ok := pathUUID(w, r, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceUsecase.MarkPaid(r.Context(), doctorID, invoiceID)
	if err != nil {
		h.writeError(w, err, "Failed to mark invoice as paid")
		return
	}

	response.Success(w, http.StatusOK, "Invoice marked as paid", invoice)
}

func (h *InvoiceHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrInvoiceNotFound):
		response.NotFound(w, "Invoice not found")
	case errors.Is(err, usecase.ErrNotInvoiceOwner):
		response.Forbidden(w, "Invoice does not belong to you")
	case errors.Is(err, usecase.ErrInvoiceAlreadyPaid):
		response.Conflict(w, "Invoice is already paid")
	default:
		response.InternalServerError(w, fallback)
	}
}
