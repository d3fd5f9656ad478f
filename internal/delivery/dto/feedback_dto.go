package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateFeedbackRequest struct {
	AppointmentID uuid.UUID `json:"appointment_id" validate:"required"`
	Rating        int       `json:"rating" validate:"required,gte=1,lte=5"`
	Comment       string    `json:"comment" validate:"omitempty,max=2000"`
}

// Response DTOs

type FeedbackResponse struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	PatientID     uuid.UUID `json:"patient_id"`
	DoctorID      uuid.UUID `json:"doctor_id"`
	PatientName   string    `json:"patient_name,omitempty"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type DoctorFeedbackResponse struct {
	Feedbacks     []FeedbackResponse `json:"feedbacks"`
	AverageRating float64            `json:"average_rating"`
	Total         int                `json:"total"`
}

type AppointmentFeedbackResponse struct {
	HasFeedback bool              `json:"has_feedback"`
	Feedback    *FeedbackResponse `json:"feedback,omitempty"`
}
