package validator_test

import (
	"strings"
	"testing"

	"hotelier/shared/validator"
)

type createBookingPayload struct {
	RoomID         string `json:"room_id"          validate:"required"`
	Email          string `json:"email"            validate:"required,email"`
	CheckInDate    string `json:"check_in_date"    validate:"required"`
	NumberOfGuests int    `json:"number_of_guests" validate:"required,min=1"`
	Status         string `json:"status"           validate:"omitempty,oneof=pending confirmed"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		data        *createBookingPayload
		expectError bool
	}{
		{
			name: "valid struct",
			data: &createBookingPayload{
				RoomID:         "room-id",
				Email:          "jane.doe@example.com",
				CheckInDate:    "2026-09-10",
				NumberOfGuests: 2,
			},
			expectError: false,
		},
		{
			name: "missing required field",
			data: &createBookingPayload{
				Email:          "jane.doe@example.com",
				CheckInDate:    "2026-09-10",
				NumberOfGuests: 2,
			},
			expectError: true,
		},
		{
			name: "invalid email",
			data: &createBookingPayload{
				RoomID:         "room-id",
				Email:          "not-an-email",
				CheckInDate:    "2026-09-10",
				NumberOfGuests: 2,
			},
			expectError: true,
		},
		{
			name: "guests below minimum",
			data: &createBookingPayload{
				RoomID:         "room-id",
				Email:          "jane.doe@example.com",
				CheckInDate:    "2026-09-10",
				NumberOfGuests: -1,
			},
			expectError: true,
		},
		{
			name: "status outside oneof",
			data: &createBookingPayload{
				RoomID:         "room-id",
				Email:          "jane.doe@example.com",
				CheckInDate:    "2026-09-10",
				NumberOfGuests: 2,
				Status:         "archived",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(tt.data)

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expectError bool
	}{
		{
			name:        "valid body",
			body:        `{"room_id":"room-id","email":"jane.doe@example.com","check_in_date":"2026-09-10","number_of_guests":2}`,
			expectError: false,
		},
		{
			name:        "malformed json",
			body:        `{"room_id":`,
			expectError: true,
		},
		{
			name:        "valid json failing validation",
			body:        `{"room_id":"room-id"}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload createBookingPayload
			err := validator.Validate(strings.NewReader(tt.body), &payload)

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	if err := validator.ValidateVar("jane.doe@example.com", "required,email"); err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if err := validator.ValidateVar("not-an-email", "required,email"); err == nil {
		t.Error("expected error, got nil")
	}
}
