package dto

import (
	"hotelier/internal/domains/payment/model"
	"hotelier/shared/constant"
	gDto "hotelier/shared/dto"
)

type RecordPaymentRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash card transfer"`
}

type PaymentResponse struct {
	ID            string  `json:"id"`
	BookingID     string  `json:"booking_id"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	PaymentStatus string  `json:"payment_status"`
	TransactionID string  `json:"transaction_id"`
	PaymentDate   string  `json:"payment_date"`
	gDto.Metadata
}

func (r *PaymentResponse) FromModel(model model.Payment) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.Amount = model.Amount
	r.PaymentMethod = model.PaymentMethod
	r.PaymentStatus = model.PaymentStatus
	r.TransactionID = model.TransactionID
	r.PaymentDate = model.PaymentDate.Format(constant.CalendarDateFormat)
	r.Metadata.FromModel(model.Metadata)
}
