package dto

import (
	"github.com/google/uuid"

	"hotelier/internal/domains/room/model"
	"hotelier/shared"
	"hotelier/shared/constant"
	gDto "hotelier/shared/dto"
	gModel "hotelier/shared/model"
	"hotelier/shared/timezone"
)

type CreateRoomRequest struct {
	RoomNumber    string  `json:"room_number"     validate:"required,max=10"`
	RoomType      string  `json:"room_type"       validate:"required,max=50"`
	PricePerNight float64 `json:"price_per_night" validate:"required,gt=0"`
	Capacity      int     `json:"capacity"        validate:"required,min=1"`
	Amenities     string  `json:"amenities"       validate:"omitempty"`
	Status        string  `json:"status"          validate:"omitempty,oneof=available occupied maintenance"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	status := constant.RoomStatusAvailable
	if c.Status != "" {
		status = c.Status
	}

	return model.Room{
		ID:            uuid.NewString(),
		RoomNumber:    c.RoomNumber,
		RoomType:      c.RoomType,
		PricePerNight: c.PricePerNight,
		Capacity:      c.Capacity,
		Amenities:     c.Amenities,
		Status:        status,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	RoomNumber    string   `db:"room_number"     json:"room_number"     validate:"omitempty,max=10"`
	RoomType      string   `db:"room_type"       json:"room_type"       validate:"omitempty,max=50"`
	PricePerNight *float64 `db:"price_per_night" json:"price_per_night" validate:"omitempty,gt=0"`
	Capacity      *int     `db:"capacity"        json:"capacity"        validate:"omitempty,min=1"`
	Amenities     string   `db:"amenities"       json:"amenities"       validate:"omitempty"`
	Status        string   `db:"status"          json:"status"          validate:"omitempty,oneof=available occupied maintenance"`
}

type RoomResponse struct {
	ID            string  `json:"id"`
	RoomNumber    string  `json:"room_number"`
	RoomType      string  `json:"room_type"`
	PricePerNight float64 `json:"price_per_night"`
	Capacity      int     `json:"capacity"`
	Amenities     string  `json:"amenities"`
	Status        string  `json:"status"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.RoomNumber = model.RoomNumber
	r.RoomType = model.RoomType
	r.PricePerNight = model.PricePerNight
	r.Capacity = model.Capacity
	r.Amenities = model.Amenities
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

// AvailableRoomResponse is a room plus the quoted charge for the requested stay.
type AvailableRoomResponse struct {
	RoomResponse
	TotalAmount float64 `json:"total_amount"`
}

type SearchAvailableRoomsResponse struct {
	CheckIn  string                  `json:"check_in"`
	CheckOut string                  `json:"check_out"`
	Rooms    []AvailableRoomResponse `json:"rooms"`
}
