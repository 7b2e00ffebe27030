package dto

import (
	"time"

	"github.com/google/uuid"

	"hotelier/internal/domains/booking/model"
	customerModel "hotelier/internal/domains/customer/model"
	"hotelier/shared"
	"hotelier/shared/constant"
	gDto "hotelier/shared/dto"
	gModel "hotelier/shared/model"
	"hotelier/shared/timezone"
)

type CreateBookingRequest struct {
	RoomID          string `json:"room_id"          validate:"required"`
	FirstName       string `json:"first_name"       validate:"required,max=100"`
	LastName        string `json:"last_name"        validate:"required,max=100"`
	Email           string `json:"email"            validate:"required,email,max=100"`
	Phone           string `json:"phone"            validate:"omitempty,max=20"`
	CheckInDate     string `json:"check_in_date"    validate:"required"`
	CheckOutDate    string `json:"check_out_date"   validate:"required"`
	NumberOfGuests  int    `json:"number_of_guests" validate:"required,min=1"`
	SpecialRequests string `json:"special_requests" validate:"omitempty"`
}

// StayRange parses the requested dates. Ordering and past-date rules are
// enforced by the service.
func (c *CreateBookingRequest) StayRange() (checkIn, checkOut time.Time, err error) {
	checkIn, err = time.Parse(constant.CalendarDateFormat, c.CheckInDate)
	if err != nil {
		return checkIn, checkOut, err //nolint:wrapcheck
	}

	checkOut, err = time.Parse(constant.CalendarDateFormat, c.CheckOutDate)

	return checkIn, checkOut, err //nolint:wrapcheck
}

func (c *CreateBookingRequest) ToModel(user string, checkIn, checkOut time.Time) model.Booking {
	return model.Booking{
		ID:              uuid.NewString(),
		RoomID:          c.RoomID,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		NumberOfGuests:  c.NumberOfGuests,
		SpecialRequests: c.SpecialRequests,
		Status:          constant.BookingStatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

func (c *CreateBookingRequest) ToCustomer(user string) customerModel.Customer {
	return customerModel.Customer{
		ID:        uuid.NewString(),
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type BookingResponse struct {
	ID              string  `json:"id"`
	RoomID          string  `json:"room_id"`
	RoomNumber      string  `json:"room_number"`
	RoomType        string  `json:"room_type"`
	CustomerName    string  `json:"customer_name"`
	CustomerEmail   string  `json:"customer_email"`
	CustomerPhone   string  `json:"customer_phone"`
	CheckInDate     string  `json:"check_in_date"`
	CheckOutDate    string  `json:"check_out_date"`
	Nights          int     `json:"nights"`
	NumberOfGuests  int     `json:"number_of_guests"`
	TotalAmount     float64 `json:"total_amount"`
	SpecialRequests string  `json:"special_requests"`
	Status          string  `json:"status"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.RoomNumber = model.RoomNumber
	r.RoomType = model.RoomType
	r.CustomerName = model.CustomerFirstName + " " + model.CustomerLastName
	r.CustomerEmail = model.CustomerEmail
	r.CustomerPhone = model.CustomerPhone
	r.CheckInDate = model.CheckInDate.Format(constant.CalendarDateFormat)
	r.CheckOutDate = model.CheckOutDate.Format(constant.CalendarDateFormat)
	r.Nights = model.Nights()
	r.NumberOfGuests = model.NumberOfGuests
	r.TotalAmount = model.TotalAmount
	r.SpecialRequests = model.SpecialRequests
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type QuoteResponse struct {
	RoomID        string  `json:"room_id"`
	CheckInDate   string  `json:"check_in_date"`
	CheckOutDate  string  `json:"check_out_date"`
	Nights        int     `json:"nights"`
	PricePerNight float64 `json:"price_per_night"`
	TotalAmount   float64 `json:"total_amount"`
}

type StatsResponse struct {
	TotalRooms       int               `json:"total_rooms"`
	AvailableRooms   int               `json:"available_rooms"`
	TotalBookings    int               `json:"total_bookings"`
	PendingBookings  int               `json:"pending_bookings"`
	CompletedRevenue float64           `json:"completed_revenue"`
	RecentBookings   []BookingResponse `json:"recent_bookings"`
}

// BookingEvent is the payload published to the booking events topic.
type BookingEvent struct {
	Event     string `json:"event"`
	BookingID string `json:"booking_id"`
	RoomID    string `json:"room_id"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
