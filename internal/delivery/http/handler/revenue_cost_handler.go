package handler

import (
	"errors"
	"net/http"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/response"
	"clinic-booking/pkg/validator"
)

type RevenueCostHandler struct {
	revenueCostUsecase usecase.RevenueCostUsecase
	validator          *validator.CustomValidator
}

func NewRevenueCostHandler(revenueCostUsecase usecase.RevenueCostUsecase, validator *validator.CustomValidator) *RevenueCostHandler {
	return &RevenueCostHandler{
		revenueCostUsecase: revenueCostUsecase,
		validator:          validator,
	}
}

func (h *RevenueCostHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateRevenueCostRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	entry, err := h.revenueCostUsecase.CreateEntry(r.Context(), userID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to record entry")
		return
	}

	response.Success(w, http.StatusCreated, "Entry recorded successfully", entry)
}

func (h *RevenueCostHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	query, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	entries, err := h.revenueCostUsecase.ListEntries(r.Context(), query)
	if err != nil {
		h.writeError(w, err, "Failed to get entries")
		return
	}

	response.Success(w, http.StatusOK, "Entries retrieved successfully", entries)
}

func (h *RevenueCostHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	query, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	summary, err := h.revenueCostUsecase.GetSummary(r.Context(), query)
	if err != nil {
		h.writeError(w, err, "Failed to get summary")
		return
	}

	response.Success(w, http.StatusOK, "Summary retrieved successfully", summary)
}

func (h *RevenueCostHandler) parseQuery(w http.ResponseWriter, r *http.Request) (*dto.RevenueCostQuery, bool) {
	values := r.URL.Query()
	query := &dto.RevenueCostQuery{
		From: values.Get("from"),
		To:   values.Get("to"),
		Type: values.Get("type"),
	}

	if err := h.validator.Validate(query); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return nil, false
	}
	return query, true
}

func (h *RevenueCostHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidDate):
		response.BadRequest(w, "Invalid date format, use YYYY-MM-DD")
	case errors.Is(err, usecase.ErrInvalidDateRange):
		response.BadRequest(w, "From date must not be after to date")
	case errors.Is(err, usecase.ErrInvalidAmount):
		response.BadRequest(w, "Amount must be greater than zero")
	default:
		response.InternalServerError(w, fallback)
	}
}
