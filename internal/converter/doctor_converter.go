package converter

import (
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
)

// DoctorToResponse converts a DoctorProfile with its User and template to DoctorResponse DTO
func DoctorToResponse(doctor *entity.DoctorProfile) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:              doctor.UserID,
		Email:           doctor.User.Email,
		FirstName:       doctor.User.FirstName,
		LastName:        doctor.User.LastName,
		LicenseNumber:   doctor.LicenseNumber,
		Specialization:  doctor.Specialization,
		Phone:           doctor.Phone,
		ConsultationFee: doctor.ConsultationFee,
		IsActive:        doctor.User.Active(),
		AvailableSlots:  AvailabilitiesToResponses(doctor.Availabilities),
		CreatedAt:       doctor.User.CreatedAt,
	}
}

func DoctorsToResponses(doctors []entity.DoctorProfile) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}

// DoctorToSummary returns nil when the doctor relation was not preloaded
func DoctorToSummary(doctor *entity.DoctorProfile) *dto.DoctorSummary {
	if doctor == nil || doctor.UserID == uuid.Nil {
		return nil
	}
	return &dto.DoctorSummary{
		ID:             doctor.UserID,
		FirstName:      doctor.User.FirstName,
		LastName:       doctor.User.LastName,
		Specialization: doctor.Specialization,
	}
}
