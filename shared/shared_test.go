package shared_test

import (
	"reflect"
	"testing"

	"hotelier/shared"
	"hotelier/shared/constant"
	"hotelier/shared/dto"
)

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{
			name:     "zero total returns one page",
			total:    0,
			limit:    10,
			expected: 1,
		},
		{
			name:     "zero limit returns one page",
			total:    25,
			limit:    0,
			expected: 1,
		},
		{
			name:     "exact division",
			total:    20,
			limit:    10,
			expected: 2,
		},
		{
			name:     "remainder rounds up",
			total:    21,
			limit:    10,
			expected: 3,
		},
		{
			name:     "fewer rows than limit",
			total:    3,
			limit:    10,
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.CalculateTotalPage(tt.total, tt.limit)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestBuildCacheKey(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		parts    []string
		expected string
	}{
		{
			name:     "prefix only",
			prefix:   "room:get",
			parts:    nil,
			expected: "room:get",
		},
		{
			name:     "prefix with id",
			prefix:   "room:get",
			parts:    []string{"room-id"},
			expected: "room:get:room-id",
		},
		{
			name:     "prefix with wildcard",
			prefix:   "room:gets",
			parts:    []string{constant.Asterix},
			expected: "room:gets:*",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.BuildCacheKey(tt.prefix, tt.parts...)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestFilterByID(t *testing.T) {
	filter := shared.FilterByID("room-id", "id", "rooms")

	if len(filter.Filters) != 1 {
		t.Fatalf("expected 1 filter, got %d", len(filter.Filters))
	}

	f, ok := filter.Filters[0].(dto.Filter)
	if !ok {
		t.Fatalf("expected dto.Filter, got %T", filter.Filters[0])
	}

	if f.Field != "id" || f.Value != "room-id" || f.Table != "rooms" || f.Operator != dto.FilterOperatorEq {
		t.Errorf("unexpected filter: %+v", f)
	}
}

func TestTransformFields(t *testing.T) {
	price := 75.0
	input := struct {
		RoomNumber    string   `db:"room_number"`
		PricePerNight *float64 `db:"price_per_night"`
		Status        string   `db:"status"`
		NoTag         string
	}{
		RoomNumber:    "101",
		PricePerNight: &price,
	}

	fields := shared.TransformFields(input, "test-user")

	if !reflect.DeepEqual(fields["room_number"], "101") {
		t.Errorf("expected room_number to be set, got %v", fields["room_number"])
	}

	if fields["price_per_night"] != &price {
		t.Errorf("expected price_per_night pointer to be carried over")
	}

	if _, ok := fields["status"]; ok {
		t.Error("expected zero-value status to be skipped")
	}

	if fields[constant.FieldModifiedBy] != "test-user" {
		t.Errorf("expected modified_by to be set, got %v", fields[constant.FieldModifiedBy])
	}

	if _, ok := fields[constant.FieldModifiedAt]; !ok {
		t.Error("expected modified_at to be set")
	}
}
