package payment

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotelier/infras/otel"
	"hotelier/internal/domains/payment/model/dto"
	"hotelier/internal/domains/payment/service"
	"hotelier/shared/constant"
	"hotelier/shared/validator"
	"hotelier/transport/http/response"
)

type Handler struct {
	service service.Payment
	otel    otel.Otel
}

func New(service service.Payment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings/{id}/payments", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.RecordPayment)
		routerGroup.Get("/", handler.GetPayment)
	})
}

// RecordPayment settles a booking. Paying an already-paid booking returns the
// existing payment rather than a duplicate.
func (handler *Handler) RecordPayment(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RecordPayment")
	defer scope.End()

	bookingID := chi.URLParam(request, constant.RequestParamID)

	req := dto.RecordPaymentRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	payment, err := handler.service.Record(ctx, bookingID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to record payment")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Payment recorded successfully")

	response.WithJSON(writer, http.StatusCreated, payment)
}

func (handler *Handler) GetPayment(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPayment")
	defer scope.End()

	bookingID := chi.URLParam(request, constant.RequestParamID)

	payment, err := handler.service.GetByBooking(ctx, bookingID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get payment")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Payment retrieved successfully")

	response.WithJSON(writer, http.StatusOK, payment)
}
