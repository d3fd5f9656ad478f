package converter

import (
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
)

// PatientToSummary returns nil when the patient relation was not preloaded
func PatientToSummary(patient *entity.PatientProfile) *dto.PatientSummary {
	if patient == nil || patient.UserID == uuid.Nil {
		return nil
	}
	return &dto.PatientSummary{
		ID:        patient.UserID,
		FirstName: patient.User.FirstName,
		LastName:  patient.User.LastName,
		Email:     patient.User.Email,
		Phone:     patient.Phone,
	}
}
