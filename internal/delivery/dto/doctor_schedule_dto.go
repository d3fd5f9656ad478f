package dto

// Request DTOs

type AvailabilityRequest struct {
	Day         string `json:"day" validate:"required,weekday"`
	StartTime   string `json:"start_time" validate:"required,clock"`
	EndTime     string `json:"end_time" validate:"required,clock"`
	MaxPatients int    `json:"max_patients" validate:"omitempty,min=1,max=500"`
}

// UpdateScheduleRequest replaces the whole weekly template
type UpdateScheduleRequest struct {
	AvailableSlots []AvailabilityRequest `json:"available_slots" validate:"required,dive"`
}

// Response DTOs

type AvailabilityResponse struct {
	Day         string `json:"day"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	MaxPatients int    `json:"max_patients"`
}

type ScheduleResponse struct {
	AvailableSlots []AvailabilityResponse `json:"available_slots"`
}
