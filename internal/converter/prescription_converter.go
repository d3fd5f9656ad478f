package converter

import (
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
)

func PrescriptionToResponse(p *entity.Prescription) *dto.PrescriptionResponse {
	if p == nil {
		return nil
	}

	meds := make([]dto.MedicationResponse, len(p.Medications))
	for i, m := range p.Medications {
		meds[i] = dto.MedicationResponse(m)
	}

	response := &dto.PrescriptionResponse{
		ID:            p.ID,
		AppointmentID: p.AppointmentID,
		PatientID:     p.PatientID,
		DoctorID:      p.DoctorID,
		Medications:   meds,
		Diagnosis:     p.Diagnosis,
		Notes:         p.Notes,
		Status:        string(p.Status),
		Doctor:        DoctorToSummary(&p.Doctor),
		Patient:       PatientToSummary(&p.Patient),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Appointment.ID != uuid.Nil {
		response.AppointmentDate = p.Appointment.DateString()
	}
	return response
}

func PrescriptionsToResponses(prescriptions []entity.Prescription) []dto.PrescriptionResponse {
	responses := make([]dto.PrescriptionResponse, len(prescriptions))
	for i := range prescriptions {
		responses[i] = *PrescriptionToResponse(&prescriptions[i])
	}
	return responses
}

func MedicationRequestsToEntities(reqs []dto.MedicationRequest) []entity.Medication {
	meds := make([]entity.Medication, len(reqs))
	for i, r := range reqs {
		meds[i] = entity.Medication(r)
	}
	return meds
}
