package handler

import (
	"errors"
	"net/http"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/response"
	"clinic-booking/pkg/validator"
)

type DoctorHandler struct {
	doctorUsecase  usecase.DoctorProfileUsecase
	invoiceUsecase usecase.InvoiceUsecase
	validator      *validator.CustomValidator
}

func NewDoctorHandler(doctorUsecase usecase.DoctorProfileUsecase, invoiceUsecase usecase.InvoiceUsecase, validator *validator.CustomValidator) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase:  doctorUsecase,
		invoiceUsecase: invoiceUsecase,
		validator:      validator,
	}
}

func (h *DoctorHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	doctorID, _, ok := currentUser(w, r)
	if !ok {
		return
	}

	doctor, err := h.doctorUsecase.GetProfile(r.Context(), doctorID)
	if err != nil {
		if errors.Is(err, usecase.ErrDoctorNotFound) {
			response.NotFound(w, "Doctor not found")
			return
		}
		response.InternalServerError(w, "Failed to get doctor profile")
		return
	}

	response.Success(w, http.StatusOK, "Doctor profile retrieved successfully", doctor)
}

func (h *DoctorHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	doctorID, _, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.UpdateDoctorProfileRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	doctor, err := h.doctorUsecase.UpdateProfile(r.Context(), doctorID, &req)
	if err != nil {
		if errors.Is(err, usecase.ErrDoctorNotFound) {
			response.NotFound(w, "Doctor not found")
			return
		}
		response.InternalServerError(w, "Failed to update doctor profile")
		return
	}

	response.Success(w, http.StatusOK, "Doctor profile updated successfully", doctor)
}

// GetIncomeSummary reports paid and pending totals over the doctor's invoices.
func (h *DoctorHandler) GetIncomeSummary(w http.ResponseWriter, r *http.Request) {
	doctorID, _, ok := currentUser(w, r)
	if !ok {
		return
	}

	summary, err := h.invoiceUsecase.GetIncomeSummary(r.Context(), doctorID)
	if err != nil {
		response.InternalServerError(w, "Failed to get income summary")
		return
	}

	response.Success(w, http.StatusOK, "Income summary retrieved successfully", summary)
}

func (h *DoctorHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.doctorUsecase.ListAll(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *DoctorHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	adminID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	doctorID, ok := pathUUID(w, r, "id", "doctor")
	if !ok {
		return
	}

	var req dto.SetDoctorActiveRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	doctor, err := h.doctorUsecase.SetActive(r.Context(), adminID, doctorID, &req)
	if err != nil {
		if errors.Is(err, usecase.ErrDoctorNotFound) {
			response.NotFound(w, "Doctor not found")
			return
		}
		response.InternalServerError(w, "Failed to update doctor status")
		return
	}

	response.Success(w, http.StatusOK, "Doctor status updated successfully", doctor)
}
