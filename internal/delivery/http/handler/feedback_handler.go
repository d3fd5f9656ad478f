package handler

import (
	"errors"
	"net/http"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/response"
	"clinic-booking/pkg/validator"
)

type FeedbackHandler struct {
	feedbackUsecase usecase.FeedbackUsecase
	validator       *validator.CustomValidator
}

func NewFeedbackHandler(feedbackUsecase usecase.FeedbackUsecase, validator *validator.CustomValidator) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackUsecase: feedbackUsecase,
		validator:       validator,
	}
}

func (h *FeedbackHandler) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	patientID, _, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateFeedbackRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	feedback, err := h.feedbackUsecase.CreateFeedback(r.Context(), patientID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAppointmentNotFound):
			response.NotFound(w, "Appointment not found")
		case errors.Is(err, usecase.ErrNotFeedbackAppointment):
			response.Forbidden(w, "You can only review your own appointments")
		case errors.Is(err, usecase.ErrFeedbackNotAllowed):
			response.BadRequest(w, "Can only provide feedback for completed appointments")
		case errors.Is(err, usecase.ErrFeedbackExists):
			response.Conflict(w, "Feedback already provided for this appointment")
		default:
			response.InternalServerError(w, "Failed to submit feedback")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Feedback submitted successfully", feedback)
}

// GetDoctorFeedback is public so patients can compare doctors before booking.
func (h *FeedbackHandler) GetDoctorFeedback(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(w, r, "doctorId", "doctor")
	if !ok {
		return
	}

	feedback, err := h.feedbackUsecase.GetDoctorFeedback(r.Context(), doctorID)
	if err != nil {
		response.InternalServerError(w, "Failed to get feedback")
		return
	}

	response.Success(w, http.StatusOK, "Feedback retrieved successfully", feedback)
}

func (h *FeedbackHandler) GetAppointmentFeedback(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathUUID(w, r, "appointmentId", "appointment")
	if !ok {
		return
	}

	feedback, err := h.feedbackUsecase.GetAppointmentFeedback(r.Context(), appointmentID)
	if err != nil {
		response.InternalServerError(w, "Failed to get feedback")
		return
	}

	response.Success(w, http.StatusOK, "Feedback retrieved successfully", feedback)
}
