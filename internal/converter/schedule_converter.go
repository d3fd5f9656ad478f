package converter

import (
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
)

func AvailabilitiesToResponses(rows []entity.DoctorAvailability) []dto.AvailabilityResponse {
	responses := make([]dto.AvailabilityResponse, len(rows))
	for i, row := range rows {
		responses[i] = dto.AvailabilityResponse{
			Day:         row.Day,
			StartTime:   row.StartTime,
			EndTime:     row.EndTime,
			MaxPatients: row.MaxPatients,
		}
	}
	return responses
}

// AvailabilityRequestsToEntities applies the default daily cap when none is given
func AvailabilityRequestsToEntities(reqs []dto.AvailabilityRequest) []entity.DoctorAvailability {
	rows := make([]entity.DoctorAvailability, len(reqs))
	for i, req := range reqs {
		maxPatients := req.MaxPatients
		if maxPatients == 0 {
			maxPatients = entity.DefaultMaxPatients
		}
		rows[i] = entity.DoctorAvailability{
			Day:         req.Day,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			MaxPatients: maxPatients,
		}
	}
	return rows
}
