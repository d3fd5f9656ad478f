package handler

import (
	"errors"
	"net/http"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/response"
	"clinic-booking/pkg/validator"
)

type DoctorScheduleHandler struct {
	scheduleUsecase usecase.DoctorScheduleUsecase
	validator       *validator.CustomValidator
}

func NewDoctorScheduleHandler(scheduleUsecase usecase.DoctorScheduleUsecase, validator *validator.CustomValidator) *DoctorScheduleHandler {
	return &DoctorScheduleHandler{
		scheduleUsecase: scheduleUsecase,
		validator:       validator,
	}
}

func (h *DoctorScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	doctorID, _, ok := currentUser(w, r)
	if !ok {
		return
	}

	schedule, err := h.scheduleUsecase.GetSchedule(r.Context(), doctorID)
	if err != nil {
		response.InternalServerError(w, "Failed to get schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule retrieved successfully", schedule)
}

// UpdateSchedule replaces the whole weekly template.
func (h *DoctorScheduleHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	doctorID, _, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.UpdateScheduleRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	schedule, err := h.scheduleUsecase.UpdateSchedule(r.Context(), doctorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidDay):
			response.BadRequest(w, "Day must be a weekday name")
		case errors.Is(err, entity.ErrInvalidClock):
			response.BadRequest(w, "Invalid time format, use HH:MM")
		case errors.Is(err, entity.ErrInvalidWindow):
			response.BadRequest(w, "Start time must be before end time")
		case errors.Is(err, usecase.ErrDuplicateScheduleDay):
			response.BadRequest(w, "Each day may appear only once in the schedule")
		default:
			response.InternalServerError(w, "Failed to update schedule")
		}
		return
	}

	response.Success(w, http.StatusOK, "Schedule updated successfully", schedule)
}
