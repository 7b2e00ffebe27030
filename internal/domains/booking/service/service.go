package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"hotelier/config"
	"hotelier/infras/kafka"
	"hotelier/infras/otel"
	"hotelier/infras/postgres"
	"hotelier/internal/domains/booking/model"
	"hotelier/internal/domains/booking/model/dto"
	"hotelier/internal/domains/booking/repository"
	customerRepo "hotelier/internal/domains/customer/repository"
	paymentModel "hotelier/internal/domains/payment/model"
	paymentRepo "hotelier/internal/domains/payment/repository"
	roomModel "hotelier/internal/domains/room/model"
	roomDto "hotelier/internal/domains/room/model/dto"
	roomRepo "hotelier/internal/domains/room/repository"
	"hotelier/shared"
	"hotelier/shared/cache"
	"hotelier/shared/constant"
	gDto "hotelier/shared/dto"
	"hotelier/shared/failure"
	"hotelier/shared/timezone"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
	cacheBookingStats  = "booking:stats"

	eventBookingCreated       = "booking.created"
	eventBookingStatusChanged = "booking.status_changed"

	recentBookingsLimit = 5
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	IsAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error)
	SearchAvailable(ctx context.Context, checkIn, checkOut string) (roomDto.SearchAvailableRoomsResponse, error)
	Quote(ctx context.Context, roomID string, checkIn, checkOut time.Time) (dto.QuoteResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Stats(ctx context.Context) (dto.StatsResponse, error)
}

type serviceImpl struct {
	repo         repository.Booking
	roomRepo     roomRepo.Room
	customerRepo customerRepo.Customer
	paymentRepo  paymentRepo.Payment
	tx           postgres.TxRunner
	producer     kafka.Producer
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
	locks        roomLocks
}

func New(
	repo repository.Booking,
	roomRepo roomRepo.Room,
	customerRepo customerRepo.Customer,
	paymentRepo paymentRepo.Payment,
	tx postgres.TxRunner,
	producer kafka.Producer,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:         repo,
		roomRepo:     roomRepo,
		customerRepo: customerRepo,
		paymentRepo:  paymentRepo,
		tx:           tx,
		producer:     producer,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

// validateStay enforces the stay interval rules: [check_in, check_out) must be
// a non-empty range, and when requireFuture is set the check-in day must not be
// before today.
func validateStay(checkIn, checkOut time.Time, requireFuture bool) error {
	if !checkOut.After(checkIn) {
		return failure.BadRequestFromString("check_out_date must be after check_in_date") // nolint:wrapcheck
	}

	if requireFuture {
		today, _ := time.Parse(constant.CalendarDateFormat, timezone.Now().Format(constant.CalendarDateFormat))
		if checkIn.Before(today) {
			return failure.BadRequestFromString("check_in_date cannot be in the past") // nolint:wrapcheck
		}
	}

	return nil
}

func nightsBetween(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}

func (s *serviceImpl) IsAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time) (res bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IsAvailable")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = validateStay(checkIn, checkOut, false); err != nil {
		return false, err
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return false, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty || room.Status == constant.RoomStatusMaintenance {
		return false, nil
	}

	overlaps, err := s.repo.Count(ctx, model.OverlapFilter(roomID, checkIn, checkOut))
	if err != nil {
		log.Error().Err(err).Msg("failed to count overlapping bookings")

		return false, fmt.Errorf("failed to count overlapping bookings: %w", err)
	}

	return overlaps == 0, nil
}

func (s *serviceImpl) SearchAvailable(ctx context.Context, checkInStr, checkOutStr string) (res roomDto.SearchAvailableRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SearchAvailable")
	defer scope.End()
	defer scope.TraceIfError(err)

	checkIn, err := time.Parse(constant.CalendarDateFormat, checkInStr)
	if err != nil {
		return res, failure.BadRequestFromString("check_in must be formatted as YYYY-MM-DD") // nolint:wrapcheck
	}

	checkOut, err := time.Parse(constant.CalendarDateFormat, checkOutStr)
	if err != nil {
		return res, failure.BadRequestFromString("check_out must be formatted as YYYY-MM-DD") // nolint:wrapcheck
	}

	if err = validateStay(checkIn, checkOut, true); err != nil {
		return res, err
	}

	rooms, err := s.roomRepo.GetAll(ctx, gDto.QueryParams{
		SortBy:  roomModel.TableName + "." + roomModel.FieldRoomNumber,
		SortDir: "ASC",
	}, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    roomModel.FieldStatus,
				Value:    constant.RoomStatusMaintenance,
				Operator: gDto.FilterOperatorNotEq,
				Table:    roomModel.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	nights := nightsBetween(checkIn, checkOut)

	res.CheckIn = checkInStr
	res.CheckOut = checkOutStr
	res.Rooms = []roomDto.AvailableRoomResponse{}

	for _, room := range rooms {
		overlaps, err := s.repo.Count(ctx, model.OverlapFilter(room.ID, checkIn, checkOut))
		if err != nil {
			log.Error().Err(err).Msg("failed to count overlapping bookings")

			return res, fmt.Errorf("failed to count overlapping bookings: %w", err)
		}

		if overlaps > 0 {
			continue
		}

		available := roomDto.AvailableRoomResponse{
			TotalAmount: float64(nights) * room.PricePerNight,
		}
		available.FromModel(room)

		res.Rooms = append(res.Rooms, available)
	}

	return res, nil
}

func (s *serviceImpl) Quote(ctx context.Context, roomID string, checkIn, checkOut time.Time) (res dto.QuoteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Quote")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = validateStay(checkIn, checkOut, false); err != nil {
		return res, err
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	nights := nightsBetween(checkIn, checkOut)

	return dto.QuoteResponse{
		RoomID:        roomID,
		CheckInDate:   checkIn.Format(constant.CalendarDateFormat),
		CheckOutDate:  checkOut.Format(constant.CalendarDateFormat),
		Nights:        nights,
		PricePerNight: room.PricePerNight,
		TotalAmount:   float64(nights) * room.PricePerNight,
	}, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	checkIn, checkOut, err := req.StayRange()
	if err != nil {
		return res, failure.BadRequestFromString("dates must be formatted as YYYY-MM-DD") // nolint:wrapcheck
	}

	if err = validateStay(checkIn, checkOut, true); err != nil {
		return res, err
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	if room.Status == constant.RoomStatusMaintenance {
		return res, failure.Conflict("room is not available for the requested dates") // nolint:wrapcheck
	}

	booking := req.ToModel(user, checkIn, checkOut)
	booking.TotalAmount = float64(nightsBetween(checkIn, checkOut)) * room.PricePerNight

	// The mutex serializes same-room creates in this process; the in-tx
	// re-count makes the check and the insert atomic against everyone else.
	unlock := s.locks.Lock(req.RoomID)
	defer unlock()

	err = s.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		overlaps, err := s.repo.CountTx(ctx, tx, model.OverlapFilter(req.RoomID, checkIn, checkOut))
		if err != nil {
			return fmt.Errorf("failed to count overlapping bookings: %w", err)
		}

		if overlaps > 0 {
			return failure.Conflict("room is not available for the requested dates") // nolint:wrapcheck
		}

		customerID, err := s.customerRepo.UpsertTx(ctx, tx, req.ToCustomer(user))
		if err != nil {
			return fmt.Errorf("failed to upsert customer: %w", err)
		}

		booking.CustomerID = customerID

		if err := s.repo.InsertTx(ctx, tx, booking); err != nil {
			return fmt.Errorf("failed to insert booking: %w", err)
		}

		return nil
	})
	if err != nil {
		// Another replica can slip past the in-process mutex; the exclusion
		// constraint on bookings then rejects the insert.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeExclusionViolation {
			return res, failure.Conflict("room is not available for the requested dates") // nolint:wrapcheck
		}

		log.Error().Err(err).Str("roomID", req.RoomID).Msg("failed to create booking")

		return res, err
	}

	s.publishEvent(ctx, eventBookingCreated, booking)
	s.invalidateLists(ctx)

	booking.RoomNumber = room.RoomNumber
	booking.RoomType = room.RoomType
	booking.CustomerFirstName = req.FirstName
	booking.CustomerLastName = req.LastName
	booking.CustomerEmail = req.Email
	booking.CustomerPhone = req.Phone

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, id, status string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if !model.KnownStatus(status) {
		return failure.BadRequestFromString("unknown booking status: " + status) // nolint:wrapcheck
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if !model.CanTransition(booking.Status, status) {
		return failure.BadRequestFromString(fmt.Sprintf("cannot change booking status from %s to %s", booking.Status, status)) // nolint:wrapcheck
	}

	err = s.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		bookingFields := map[string]any{
			model.FieldStatus:        status,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}

		if err := s.repo.UpdateTx(ctx, tx, bookingFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return fmt.Errorf("failed to update booking status: %w", err)
		}

		switch status {
		case constant.BookingStatusCheckedIn:
			return s.setRoomStatusTx(ctx, tx, booking.RoomID, constant.RoomStatusOccupied, user)
		case constant.BookingStatusCheckedOut:
			if err := s.setRoomStatusTx(ctx, tx, booking.RoomID, constant.RoomStatusAvailable, user); err != nil {
				return err
			}

			return s.settlePaymentTx(ctx, tx, booking, user)
		case constant.BookingStatusCancelled:
			// A cancelled stay only frees the room when this booking was
			// the one occupying it.
			if booking.Status == constant.BookingStatusCheckedIn {
				return s.setRoomStatusTx(ctx, tx, booking.RoomID, constant.RoomStatusAvailable, user)
			}
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("bookingID", id).Msg("failed to update booking status")

		return err
	}

	booking.Status = status
	s.publishEvent(ctx, eventBookingStatusChanged, booking)
	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Stats(ctx context.Context) (res dto.StatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Stats")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = s.cache.Get(ctx, cacheBookingStats, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheBookingStats).Msg("cache hit for stats")

		return res, nil
	}

	if res.TotalRooms, err = s.roomRepo.Count(ctx, gDto.FilterGroup{}); err != nil {
		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	if res.AvailableRooms, err = s.roomRepo.Count(ctx, statusFilter(roomModel.TableName, constant.RoomStatusAvailable)); err != nil {
		return res, fmt.Errorf("failed to count available rooms: %w", err)
	}

	if res.TotalBookings, err = s.repo.Count(ctx, gDto.FilterGroup{}); err != nil {
		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	if res.PendingBookings, err = s.repo.Count(ctx, statusFilter(model.TableName, constant.BookingStatusPending)); err != nil {
		return res, fmt.Errorf("failed to count pending bookings: %w", err)
	}

	if res.CompletedRevenue, err = s.paymentRepo.TotalCompleted(ctx); err != nil {
		return res, fmt.Errorf("failed to sum completed payments: %w", err)
	}

	recent, err := s.repo.GetAll(ctx, gDto.QueryParams{
		Page:    1,
		Limit:   recentBookingsLimit,
		SortBy:  model.TableName + ".created_at",
		SortDir: "DESC",
	}, gDto.FilterGroup{})
	if err != nil {
		return res, fmt.Errorf("failed to get recent bookings: %w", err)
	}

	res.RecentBookings = make([]dto.BookingResponse, len(recent))
	for i, mod := range recent {
		res.RecentBookings[i].FromModel(mod)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheBookingStats, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save stats to cache")
		}
	}()

	return res, nil
}

func statusFilter(table, status string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    "status",
				Value:    status,
				Operator: gDto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

func (s *serviceImpl) setRoomStatusTx(ctx context.Context, tx *sqlx.Tx, roomID, status, user string) error {
	fields := map[string]any{
		roomModel.FieldStatus:    status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err := s.roomRepo.UpdateTx(ctx, tx, fields, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName)); err != nil {
		return fmt.Errorf("failed to update room status: %w", err)
	}

	return nil
}

// settlePaymentTx synthesizes a completed cash payment at checkout when the
// guest never paid through the payment endpoint.
func (s *serviceImpl) settlePaymentTx(ctx context.Context, tx *sqlx.Tx, booking model.Booking, user string) error {
	existing, err := s.paymentRepo.GetByBookingTx(ctx, tx, booking.ID)
	if err != nil {
		return fmt.Errorf("failed to get payment for booking: %w", err)
	}

	if existing.ID != constant.Empty {
		return nil
	}

	payment := paymentModel.New(booking.ID, booking.TotalAmount, constant.PaymentMethodCash, user)
	if err := s.paymentRepo.InsertTx(ctx, tx, payment); err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	return nil
}

func (s *serviceImpl) publishEvent(ctx context.Context, event string, booking model.Booking) {
	if s.producer == nil {
		return
	}

	go func() {
		c := context.WithoutCancel(ctx)

		msg := kafka.Message{
			Key: booking.ID,
			Value: dto.BookingEvent{
				Event:     event,
				BookingID: booking.ID,
				RoomID:    booking.RoomID,
				Status:    booking.Status,
				Timestamp: timezone.Now().Format(time.RFC3339),
			},
		}

		if err := s.producer.SendMessages(c, s.cfg.Kafka.Topics.BookingEvents, msg); err != nil {
			log.Error().Err(err).Str("event", event).Msg("failed to publish booking event")
		}
	}()
}

func (s *serviceImpl) invalidateLists(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
		shared.InvalidateCaches(c, s.cache, cacheBookingStats)
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
		shared.InvalidateCaches(c, s.cache, cacheBookingStats)
	}()
}
