package model

import (
	"time"

	"github.com/google/uuid"

	"hotelier/shared/constant"
	"hotelier/shared/model"
	"hotelier/shared/timezone"
)

const (
	TableName  = "payments"
	EntityName = "payment"

	FieldID            = "id"
	FieldBookingID     = "booking_id"
	FieldAmount        = "amount"
	FieldPaymentMethod = "payment_method"
	FieldPaymentStatus = "payment_status"
	FieldTransactionID = "transaction_id"
	FieldPaymentDate   = "payment_date"
)

// New builds a completed payment for the booking's full amount, with a
// transaction reference of the form TXN<booking id><timestamp>.
func New(bookingID string, amount float64, method, user string) Payment {
	now := timezone.Now()

	return Payment{
		ID:            uuid.NewString(),
		BookingID:     bookingID,
		Amount:        amount,
		PaymentMethod: method,
		PaymentStatus: constant.PaymentStatusCompleted,
		TransactionID: "TXN" + bookingID + now.Format(constant.TransactionRefTime),
		PaymentDate:   now,
		Metadata: model.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type Payment struct {
	ID            string    `db:"id"`
	BookingID     string    `db:"booking_id"`
	Amount        float64   `db:"amount"`
	PaymentMethod string    `db:"payment_method"`
	PaymentStatus string    `db:"payment_status"`
	TransactionID string    `db:"transaction_id"`
	PaymentDate   time.Time `db:"payment_date"`
	model.Metadata
}
