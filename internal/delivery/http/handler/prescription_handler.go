package handler

import (
	"errors"
	"net/http"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/response"
	"clinic-booking/pkg/validator"
)

type PrescriptionHandler struct {
	prescriptionUsecase usecase.PrescriptionUsecase
	validator           *validator.CustomValidator
}

func NewPrescriptionHandler(prescriptionUsecase usecase.PrescriptionUsecase, validator *validator.CustomValidator) *PrescriptionHandler {
	return &PrescriptionHandler{
		prescriptionUsecase: prescriptionUsecase,
		validator:           validator,
	}
}

func (h *PrescriptionHandler) CreatePrescription(w http.ResponseWriter, r *http.Request) {
	doctorID, _, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.CreatePrescriptionRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	prescription, err := h.prescriptionUsecase.CreatePrescription(r.Context(), doctorID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to create prescription")
		return
	}

	response.Success(w, http.StatusCreated, "Prescription created successfully", prescription)
}

func (h *PrescriptionHandler) GetMyPrescriptions(w http.ResponseWriter, r *http.Request) {
	userID, roleID, ok := currentUser(w, r)
	if !ok {
		return
	}

	prescriptions, err := h.prescriptionUsecase.GetMyPrescriptions(r.Context(), userID, roleID)
	if err != nil {
		response.InternalServerError(w, "Failed to get prescriptions")
		return
	}

	response.Success(w, http.StatusOK, "Prescriptions retrieved successfully", prescriptions)
}

func (h *PrescriptionHandler) GetPrescription(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	prescriptionID, ok := pathUUID(w, r, "id", "prescription")
	if !ok {
		return
	}

	prescription, err := h.prescriptionUsecase.GetPrescription(r.Context(), userID, prescriptionID)
	if err != nil {
		h.writeError(w, err, "Failed to get prescription")
		return
	}

	response.Success(w, http.StatusOK, "Prescription retrieved successfully", prescription)
}

func (h *PrescriptionHandler) UpdatePrescription(w http.ResponseWriter, r *http.Request) {
	doctorID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	prescriptionID, ok := pathUUID(w, r, "id", "prescription")
	if !ok {
		return
	}

	var req dto.UpdatePrescriptionRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	prescription, err := h.prescriptionUsecase.UpdatePrescription(r.Context(), doctorID, prescriptionID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update prescription")
		return
	}

	response.Success(w, http.StatusOK, "Prescription updated successfully", prescription)
}

func (h *PrescriptionHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrPrescriptionNotFound):
		response.NotFound(w, "Prescription not found")
	case errors.Is(err, usecase.ErrAppointmentNotFound):
		response.NotFound(w, "Appointment not found")
	case errors.Is(err, usecase.ErrNotPrescriptionOwner):
		response.Forbidden(w, "Prescription does not belong to you")
	case errors.Is(err, usecase.ErrNotAppointmentOwner):
		response.Forbidden(w, "Appointment does not belong to you")
	case errors.Is(err, usecase.ErrInvalidPrescriptionState):
		response.BadRequest(w, "Invalid prescription status")
	case errors.Is(err, usecase.ErrAppointmentNotCompleted):
		response.BadRequest(w, "Appointment is not completed")
	case errors.Is(err, usecase.ErrPrescriptionNotEditable):
		response.BadRequest(w, "Cannot update a completed or cancelled prescription")
	default:
		response.InternalServerError(w, fallback)
	}
}
