package model

import "hotelier/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID            = "id"
	FieldRoomNumber    = "room_number"
	FieldRoomType      = "room_type"
	FieldPricePerNight = "price_per_night"
	FieldCapacity      = "capacity"
	FieldAmenities     = "amenities"
	FieldStatus        = "status"
)

type Room struct {
	ID            string  `db:"id"`
	RoomNumber    string  `db:"room_number"`
	RoomType      string  `db:"room_type"`
	PricePerNight float64 `db:"price_per_night"`
	Capacity      int     `db:"capacity"`
	Amenities     string  `db:"amenities"`
	Status        string  `db:"status"`
	model.Metadata
}
