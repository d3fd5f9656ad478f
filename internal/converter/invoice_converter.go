package converter

import (
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
)

func InvoiceToResponse(invoice *entity.Invoice) *dto.InvoiceResponse {
	if invoice == nil {
		return nil
	}

	services := make([]dto.InvoiceItemResponse, len(invoice.Services))
	for i, item := range invoice.Services {
		services[i] = dto.InvoiceItemResponse{Description: item.Description, Cost: item.Cost}
	}

	response := &dto.InvoiceResponse{
		ID:            invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		AppointmentID: invoice.AppointmentID,
		PatientID:     invoice.PatientID,
		DoctorID:      invoice.DoctorID,
		Date:          invoice.InvoiceDate,
		Services:      services,
		TotalAmount:   invoice.TotalAmount,
		Status:        string(invoice.Status),
		Doctor:        DoctorToSummary(&invoice.Doctor),
		Patient:       PatientToSummary(&invoice.Patient),
		CreatedAt:     invoice.CreatedAt,
	}

	if invoice.Appointment.ID != uuid.Nil {
		response.AppointmentDate = invoice.Appointment.DateString()
		response.TimeSlot = invoice.Appointment.TimeSlot
	}

	return response
}

func InvoicesToResponses(invoices []entity.Invoice) []dto.InvoiceResponse {
	responses := make([]dto.InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = *InvoiceToResponse(&invoices[i])
	}
	return responses
}
