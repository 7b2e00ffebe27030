package model

import (
	"time"

	"hotelier/shared/constant"
	gDto "hotelier/shared/dto"
	"hotelier/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldCustomerID      = "customer_id"
	FieldRoomID          = "room_id"
	FieldCheckInDate     = "check_in_date"
	FieldCheckOutDate    = "check_out_date"
	FieldNumberOfGuests  = "number_of_guests"
	FieldTotalAmount     = "total_amount"
	FieldSpecialRequests = "special_requests"
	FieldStatus          = "status"
)

type Booking struct {
	ID              string    `db:"id"`
	CustomerID      string    `db:"customer_id"`
	RoomID          string    `db:"room_id"`
	CheckInDate     time.Time `db:"check_in_date"`
	CheckOutDate    time.Time `db:"check_out_date"`
	NumberOfGuests  int       `db:"number_of_guests"`
	TotalAmount     float64   `db:"total_amount"`
	SpecialRequests string    `db:"special_requests"`
	Status          string    `db:"status"`

	CustomerFirstName string `db:"customer_first_name" column:"first_name"  table:"customers"`
	CustomerLastName  string `db:"customer_last_name"  column:"last_name"   table:"customers"`
	CustomerEmail     string `db:"customer_email"      column:"email"       table:"customers"`
	CustomerPhone     string `db:"customer_phone"      column:"phone"       table:"customers"`
	RoomNumber        string `db:"room_number"         column:"room_number" table:"rooms"`
	RoomType          string `db:"room_type"           column:"room_type"   table:"rooms"`

	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "JOIN customers ON customers.id = bookings.customer_id JOIN rooms ON rooms.id = bookings.room_id"
}

// Nights returns the length of the stay in whole days.
func (b *Booking) Nights() int {
	return int(b.CheckOutDate.Sub(b.CheckInDate).Hours() / 24)
}

// transitions holds the legal booking status transitions. checked_out and
// cancelled are terminal.
var transitions = map[string][]string{
	constant.BookingStatusPending:    {constant.BookingStatusConfirmed, constant.BookingStatusCheckedIn, constant.BookingStatusCancelled},
	constant.BookingStatusConfirmed:  {constant.BookingStatusCheckedIn, constant.BookingStatusCancelled},
	constant.BookingStatusCheckedIn:  {constant.BookingStatusCheckedOut, constant.BookingStatusCancelled},
	constant.BookingStatusCheckedOut: {},
	constant.BookingStatusCancelled:  {},
}

// KnownStatus reports whether the given string is one of the booking statuses.
func KnownStatus(status string) bool {
	_, ok := transitions[status]

	return ok
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}

	return false
}

// activeStatusFilters excludes bookings that no longer count against
// availability: cancelled and checked_out ones.
func activeStatusFilters() []any {
	return []any{
		gDto.Filter{
			ArgName:  "status_not_cancelled",
			Field:    FieldStatus,
			Value:    constant.BookingStatusCancelled,
			Operator: gDto.FilterOperatorNotEq,
			Table:    TableName,
		},
		gDto.Filter{
			ArgName:  "status_not_checked_out",
			Field:    FieldStatus,
			Value:    constant.BookingStatusCheckedOut,
			Operator: gDto.FilterOperatorNotEq,
			Table:    TableName,
		},
	}
}

// ActiveByRoomFilter matches every booking on the room that still counts
// against availability.
func ActiveByRoomFilter(roomID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: append([]any{
			gDto.Filter{
				Field:    FieldRoomID,
				Value:    roomID,
				Operator: gDto.FilterOperatorEq,
				Table:    TableName,
			},
		}, activeStatusFilters()...),
	}
}

// OverlapFilter matches active bookings on the room whose [check_in, check_out)
// interval overlaps the queried one. Two half-open intervals [a,b) and [c,d)
// overlap iff a < d and c < b, so a stay ending on the queried check-in day
// does not collide with it.
func OverlapFilter(roomID string, checkIn, checkOut time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: append([]any{
			gDto.Filter{
				Field:    FieldRoomID,
				Value:    roomID,
				Operator: gDto.FilterOperatorEq,
				Table:    TableName,
			},
			gDto.Filter{
				ArgName:  "query_check_out",
				Field:    FieldCheckInDate,
				Value:    checkOut,
				Operator: gDto.FilterOperatorLess,
				Table:    TableName,
			},
			gDto.Filter{
				ArgName:  "query_check_in",
				Field:    FieldCheckOutDate,
				Value:    checkIn,
				Operator: gDto.FilterOperatorGreater,
				Table:    TableName,
			},
		}, activeStatusFilters()...),
	}
}
