package converter

import (
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
)

func RevenueCostToResponse(e *entity.RevenueCost) *dto.RevenueCostResponse {
	if e == nil {
		return nil
	}
	return &dto.RevenueCostResponse{
		ID:          e.ID,
		Type:        string(e.Type),
		Amount:      e.Amount,
		Description: e.Description,
		Date:        e.EntryDate.Format(entity.DateLayout),
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}

func RevenueCostsToResponses(entries []entity.RevenueCost) []dto.RevenueCostResponse {
	responses := make([]dto.RevenueCostResponse, len(entries))
	for i := range entries {
		responses[i] = *RevenueCostToResponse(&entries[i])
	}
	return responses
}
