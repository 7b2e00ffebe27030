package service_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"hotelier/config"
	"hotelier/infras/otel/mocks"
	txMocks "hotelier/infras/postgres/mocks"
	bookingMocks "hotelier/internal/domains/booking/mocks"
	"hotelier/internal/domains/booking/model"
	"hotelier/internal/domains/booking/model/dto"
	"hotelier/internal/domains/booking/service"
	customerMocks "hotelier/internal/domains/customer/mocks"
	paymentMocks "hotelier/internal/domains/payment/mocks"
	paymentModel "hotelier/internal/domains/payment/model"
	roomMocks "hotelier/internal/domains/room/mocks"
	roomModel "hotelier/internal/domains/room/model"
	cacheMocks "hotelier/shared/cache/mocks"
	"hotelier/shared/constant"
	gDto "hotelier/shared/dto"
	"hotelier/shared/failure"
	gModel "hotelier/shared/model"
	"hotelier/shared/timezone"
)

func testRoom() roomModel.Room {
	return roomModel.Room{
		ID:            "room-id",
		RoomNumber:    "101",
		RoomType:      "double",
		PricePerNight: 50,
		Capacity:      2,
		Status:        constant.RoomStatusAvailable,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  "test-user",
			ModifiedBy: "test-user",
		},
	}
}

func testBooking(status string) model.Booking {
	return model.Booking{
		ID:             "booking-id",
		CustomerID:     "customer-id",
		RoomID:         "room-id",
		CheckInDate:    time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		CheckOutDate:   time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC),
		NumberOfGuests: 2,
		TotalAmount:    150,
		Status:         status,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  "test-user",
			ModifiedBy: "test-user",
		},
	}
}

func TestBookingService_IsAvailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockCustomerRepo := customerMocks.NewMockCustomer(ctrl)
	mockPaymentRepo := paymentMocks.NewMockPayment(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockRoomRepo, mockCustomerRepo, mockPaymentRepo, txMocks.NewTxRunner(), nil, cfg, mockCache, mockOtel)

	checkIn := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		checkIn   time.Time
		checkOut  time.Time
		setupMock func()
		wantErr   bool
		want      bool
	}{
		{
			name:     "no overlapping bookings",
			checkIn:  checkIn,
			checkOut: checkOut,
			setupMock: func() {
				mockRoomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testRoom(), nil)

				mockRepo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, nil)
			},
			wantErr: false,
			want:    true,
		},
		{
			name:     "overlapping booking exists",
			checkIn:  checkIn,
			checkOut: checkOut,
			setupMock: func() {
				mockRoomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testRoom(), nil)

				mockRepo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(1, nil)
			},
			wantErr: false,
			want:    false,
		},
		{
			name:     "room under maintenance",
			checkIn:  checkIn,
			checkOut: checkOut,
			setupMock: func() {
				room := testRoom()
				room.Status = constant.RoomStatusMaintenance

				mockRoomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(room, nil)
			},
			wantErr: false,
			want:    false,
		},
		{
			name:     "room does not exist",
			checkIn:  checkIn,
			checkOut: checkOut,
			setupMock: func() {
				mockRoomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomModel.Room{}, nil)
			},
			wantErr: false,
			want:    false,
		},
		{
			name:      "check out not after check in",
			checkIn:   checkOut,
			checkOut:  checkIn,
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name:      "zero length stay",
			checkIn:   checkIn,
			checkOut:  checkIn,
			setupMock: func() {},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			got, err := svc.IsAvailable(context.Background(), "room-id", tt.checkIn, tt.checkOut)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestBookingService_Quote(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockCustomerRepo := customerMocks.NewMockCustomer(ctrl)
	mockPaymentRepo := paymentMocks.NewMockPayment(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockRoomRepo, mockCustomerRepo, mockPaymentRepo, txMocks.NewTxRunner(), nil, cfg, mockCache, mockOtel)

	checkIn := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		setupMock  func()
		wantErr    bool
		wantNights int
		wantTotal  float64
	}{
		{
			name: "three night stay",
			setupMock: func() {
				mockRoomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testRoom(), nil)
			},
			wantErr:    false,
			wantNights: 3,
			wantTotal:  150,
		},
		{
			name: "room not found",
			setupMock: func() {
				mockRoomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomModel.Room{}, nil)
			},
			wantErr: true,
		},
		{
			name: "repository error",
			setupMock: func() {
				mockRoomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomModel.Room{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.Quote(context.Background(), "room-id", checkIn, checkOut)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantNights, result.Nights)
				assert.Equal(t, tt.wantTotal, result.TotalAmount)
			}
		})
	}
}

func TestBookingService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockCustomerRepo := customerMocks.NewMockCustomer(ctrl)
	mockPaymentRepo := paymentMocks.NewMockPayment(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockRoomRepo, mockCustomerRepo, mockPaymentRepo, txMocks.NewTxRunner(), nil, cfg, mockCache, mockOtel)

	futureCheckIn := timezone.Now().AddDate(0, 0, 7).Format(constant.CalendarDateFormat)
	futureCheckOut := timezone.Now().AddDate(0, 0, 10).Format(constant.CalendarDateFormat)

	validReq := dto.CreateBookingRequest{
		RoomID:         "room-id",
		FirstName:      "Jane",
		LastName:       "Doe",
		Email:          "jane.doe@example.com",
		Phone:          "+628123456789",
		CheckInDate:    futureCheckIn,
		CheckOutDate:   futureCheckOut,
		NumberOfGuests: 2,
	}

	tests := []struct {
		name      string
		req       dto.CreateBookingRequest
		setupMock func()
		wantErr   bool
		wantTotal float64
	}{
		{
			name: "successful creation",
			req:  validReq,
			setupMock: func() {
				mockRoomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testRoom(), nil)

				mockRepo.EXPECT().
					CountTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(0, nil)

				mockCustomerRepo.EXPECT().
					UpsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return("customer-id", nil)

				mockRepo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockCache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr:   false,
			wantTotal: 150,
		},
		{
			name: "dates overlap an existing booking",
			req:  validReq,
			setupMock: func() {
				mockRoomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testRoom(), nil)

				mockRepo.EXPECT().
					CountTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(1, nil)
			},
			wantErr: true,
		},
		{
			name: "room not found",
			req:  validReq,
			setupMock: func() {
				mockRoomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(roomModel.Room{}, nil)
			},
			wantErr: true,
		},
		{
			name: "room under maintenance",
			req:  validReq,
			setupMock: func() {
				room := testRoom()
				room.Status = constant.RoomStatusMaintenance

				mockRoomRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(room, nil)
			},
			wantErr: true,
		},
		{
			name: "check in date in the past",
			req: func() dto.CreateBookingRequest {
				req := validReq
				req.CheckInDate = "2020-01-01"
				req.CheckOutDate = "2020-01-03"

				return req
			}(),
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "check out before check in",
			req: func() dto.CreateBookingRequest {
				req := validReq
				req.CheckInDate = futureCheckOut
				req.CheckOutDate = futureCheckIn

				return req
			}(),
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name: "malformed dates",
			req: func() dto.CreateBookingRequest {
				req := validReq
				req.CheckInDate = "10-09-2026"

				return req
			}(),
			setupMock: func() {},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			result, err := svc.Create(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantTotal, result.TotalAmount)
				assert.Equal(t, constant.BookingStatusPending, result.Status)
			}
		})
	}
}

// Concurrent creates for the same room and dates must serialize on the
// per-room lock: exactly one booking lands, the rest see the overlap count
// left behind by the winner and get a conflict.
func TestBookingService_Create_ConcurrentSameRoom(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockCustomerRepo := customerMocks.NewMockCustomer(ctrl)
	mockPaymentRepo := paymentMocks.NewMockPayment(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockRoomRepo, mockCustomerRepo, mockPaymentRepo, txMocks.NewTxRunner(), nil, cfg, mockCache, mockOtel)

	var mu sync.Mutex
	inserted := 0

	mockRoomRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(testRoom(), nil).
		AnyTimes()

	mockRepo.EXPECT().
		CountTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, _ gDto.FilterGroup) (int, error) {
			mu.Lock()
			defer mu.Unlock()

			return inserted, nil
		}).
		AnyTimes()

	mockCustomerRepo.EXPECT().
		UpsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("customer-id", nil).
		AnyTimes()

	mockRepo.EXPECT().
		InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, _ model.Booking) error {
			mu.Lock()
			defer mu.Unlock()

			inserted++

			return nil
		}).
		AnyTimes()

	mockCache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	req := dto.CreateBookingRequest{
		RoomID:         "room-id",
		FirstName:      "Jane",
		LastName:       "Doe",
		Email:          "jane.doe@example.com",
		Phone:          "+628123456789",
		CheckInDate:    timezone.Now().AddDate(0, 0, 7).Format(constant.CalendarDateFormat),
		CheckOutDate:   timezone.Now().AddDate(0, 0, 10).Format(constant.CalendarDateFormat),
		NumberOfGuests: 2,
	}

	const attempts = 8

	errs := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			_, err := svc.Create(ctx, req)
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	successes, conflicts := 0, 0
	for err := range errs {
		if err == nil {
			successes++
			continue
		}

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		conflicts++
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
	assert.Equal(t, 1, inserted)
}

// A second replica can insert between our count and our insert; the database
// exclusion constraint rejects that insert and the caller should see a
// conflict, not an internal error.
func TestBookingService_Create_ExclusionConstraint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockCustomerRepo := customerMocks.NewMockCustomer(ctrl)
	mockPaymentRepo := paymentMocks.NewMockPayment(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockRoomRepo, mockCustomerRepo, mockPaymentRepo, txMocks.NewTxRunner(), nil, cfg, mockCache, mockOtel)

	mockRoomRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(testRoom(), nil)

	mockRepo.EXPECT().
		CountTx(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(0, nil)

	mockCustomerRepo.EXPECT().
		UpsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("customer-id", nil)

	mockRepo.EXPECT().
		InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeExclusionViolation)})

	req := dto.CreateBookingRequest{
		RoomID:         "room-id",
		FirstName:      "Jane",
		LastName:       "Doe",
		Email:          "jane.doe@example.com",
		Phone:          "+628123456789",
		CheckInDate:    timezone.Now().AddDate(0, 0, 7).Format(constant.CalendarDateFormat),
		CheckOutDate:   timezone.Now().AddDate(0, 0, 10).Format(constant.CalendarDateFormat),
		NumberOfGuests: 2,
	}

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
	_, err := svc.Create(ctx, req)

	assert.Error(t, err)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
}

func TestBookingService_SearchAvailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockCustomerRepo := customerMocks.NewMockCustomer(ctrl)
	mockPaymentRepo := paymentMocks.NewMockPayment(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockRoomRepo, mockCustomerRepo, mockPaymentRepo, txMocks.NewTxRunner(), nil, cfg, mockCache, mockOtel)

	checkIn := timezone.Now().AddDate(0, 0, 7).Format(constant.CalendarDateFormat)
	checkOut := timezone.Now().AddDate(0, 0, 10).Format(constant.CalendarDateFormat)

	tests := []struct {
		name      string
		checkIn   string
		checkOut  string
		setupMock func()
		wantErr   bool
		wantRooms int
	}{
		{
			name:     "booked room filtered out",
			checkIn:  checkIn,
			checkOut: checkOut,
			setupMock: func() {
				free := testRoom()
				booked := testRoom()
				booked.ID = "room-id-2"
				booked.RoomNumber = "102"

				mockRoomRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]roomModel.Room{free, booked}, nil)

				mockRepo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, nil)

				mockRepo.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(1, nil)
			},
			wantErr:   false,
			wantRooms: 1,
		},
		{
			name:      "malformed check in",
			checkIn:   "not-a-date",
			checkOut:  checkOut,
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name:      "malformed check out",
			checkIn:   checkIn,
			checkOut:  "not-a-date",
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name:     "repository error",
			checkIn:  checkIn,
			checkOut: checkOut,
			setupMock: func() {
				mockRoomRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.SearchAvailable(context.Background(), tt.checkIn, tt.checkOut)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Len(t, result.Rooms, tt.wantRooms)
			}
		})
	}
}

func TestBookingService_UpdateStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockCustomerRepo := customerMocks.NewMockCustomer(ctrl)
	mockPaymentRepo := paymentMocks.NewMockPayment(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockRoomRepo, mockCustomerRepo, mockPaymentRepo, txMocks.NewTxRunner(), nil, cfg, mockCache, mockOtel)

	expectInvalidate := func() {
		mockCache.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		mockCache.EXPECT().
			Clear(gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()
	}

	tests := []struct {
		name      string
		status    string
		setupMock func()
		wantErr   bool
	}{
		{
			name:   "confirm a pending booking",
			status: constant.BookingStatusConfirmed,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testBooking(constant.BookingStatusPending), nil)

				mockRepo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				expectInvalidate()
			},
			wantErr: false,
		},
		{
			name:   "check in occupies the room",
			status: constant.BookingStatusCheckedIn,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testBooking(constant.BookingStatusConfirmed), nil)

				mockRepo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockRoomRepo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				expectInvalidate()
			},
			wantErr: false,
		},
		{
			name:   "check out settles an unpaid booking",
			status: constant.BookingStatusCheckedOut,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testBooking(constant.BookingStatusCheckedIn), nil)

				mockRepo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockRoomRepo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockPaymentRepo.EXPECT().
					GetByBookingTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(paymentModel.Payment{}, nil)

				mockPaymentRepo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				expectInvalidate()
			},
			wantErr: false,
		},
		{
			name:   "check out leaves an existing payment alone",
			status: constant.BookingStatusCheckedOut,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testBooking(constant.BookingStatusCheckedIn), nil)

				mockRepo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockRoomRepo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockPaymentRepo.EXPECT().
					GetByBookingTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(paymentModel.Payment{ID: "payment-id"}, nil)

				expectInvalidate()
			},
			wantErr: false,
		},
		{
			name:   "cancelling a checked in booking frees the room",
			status: constant.BookingStatusCancelled,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testBooking(constant.BookingStatusCheckedIn), nil)

				mockRepo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				mockRoomRepo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				expectInvalidate()
			},
			wantErr: false,
		},
		{
			name:   "cancelling a pending booking leaves the room alone",
			status: constant.BookingStatusCancelled,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testBooking(constant.BookingStatusPending), nil)

				mockRepo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)

				expectInvalidate()
			},
			wantErr: false,
		},
		{
			name:   "pending cannot jump to checked out",
			status: constant.BookingStatusCheckedOut,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testBooking(constant.BookingStatusPending), nil)
			},
			wantErr: true,
		},
		{
			name:   "checked out is terminal",
			status: constant.BookingStatusCancelled,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testBooking(constant.BookingStatusCheckedOut), nil)
			},
			wantErr: true,
		},
		{
			name:      "unknown status",
			status:    "teleported",
			setupMock: func() {},
			wantErr:   true,
		},
		{
			name:   "booking not found",
			status: constant.BookingStatusConfirmed,
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := svc.UpdateStatus(ctx, "booking-id", tt.status)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockCustomerRepo := customerMocks.NewMockCustomer(ctrl)
	mockPaymentRepo := paymentMocks.NewMockPayment(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockRoomRepo, mockCustomerRepo, mockPaymentRepo, txMocks.NewTxRunner(), nil, cfg, mockCache, mockOtel)

	tests := []struct {
		name      string
		id        string
		setupMock func()
		wantErr   bool
		wantID    string
	}{
		{
			name: "cache hit",
			id:   "booking-id",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
			wantID:  "",
		},
		{
			name: "cache miss, successful get from db",
			id:   "booking-id",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testBooking(constant.BookingStatusConfirmed), nil)

				mockCache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
			wantID:  "booking-id",
		},
		{
			name: "booking not found",
			id:   "nonexistent-id",
			setupMock: func() {
				mockCache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Booking{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.Get(context.Background(), tt.id)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				if tt.wantID != "" {
					assert.Equal(t, tt.wantID, result.ID)
				}
			}
		})
	}
}

func TestBookingService_Stats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	mockRoomRepo := roomMocks.NewMockRoom(ctrl)
	mockCustomerRepo := customerMocks.NewMockCustomer(ctrl)
	mockPaymentRepo := paymentMocks.NewMockPayment(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, mockRoomRepo, mockCustomerRepo, mockPaymentRepo, txMocks.NewTxRunner(), nil, cfg, mockCache, mockOtel)

	mockCache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss"))

	mockRoomRepo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(10, nil)

	mockRoomRepo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(6, nil)

	mockRepo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(4, nil)

	mockRepo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(2, nil)

	mockPaymentRepo.EXPECT().
		TotalCompleted(gomock.Any()).
		Return(500.0, nil)

	mockRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Booking{testBooking(constant.BookingStatusConfirmed)}, nil)

	mockCache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	result, err := svc.Stats(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 10, result.TotalRooms)
	assert.Equal(t, 6, result.AvailableRooms)
	assert.Equal(t, 4, result.TotalBookings)
	assert.Equal(t, 2, result.PendingBookings)
	assert.Equal(t, 500.0, result.CompletedRevenue)
	assert.Len(t, result.RecentBookings, 1)
}
