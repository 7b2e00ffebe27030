package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"hotelier/infras/otel"
	"hotelier/infras/postgres"
	"hotelier/internal/domains/payment/model"
	"hotelier/shared/constant"
	gDto "hotelier/shared/dto"
	"hotelier/shared/logger"
	gRepo "hotelier/shared/repository"
)

type Payment interface {
	Insert(ctx context.Context, model model.Payment) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Payment) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Payment, error)
	GetByBookingTx(ctx context.Context, tx *sqlx.Tx, bookingID string) (model.Payment, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	TotalCompleted(ctx context.Context) (float64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Payment]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Payment {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Payment](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetByBookingTx reads the booking's payment row inside the caller's
// transaction. A zero-ID payment means no row exists yet.
func (r *repositoryImpl) GetByBookingTx(ctx context.Context, tx *sqlx.Tx, bookingID string) (model.Payment, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".payment.GetByBookingTx")
	defer scope.End()

	query := "SELECT * FROM payments WHERE booking_id = $1"
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var payment model.Payment

	err := tx.GetContext(ctx, &payment, query, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return payment, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return payment, fmt.Errorf("failed to get payment by booking: %w", err)
	}

	return payment, nil
}

// TotalCompleted sums every completed payment, feeding the dashboard revenue
// figure.
func (r *repositoryImpl) TotalCompleted(ctx context.Context) (float64, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".payment.TotalCompleted")
	defer scope.End()

	query := "SELECT COALESCE(SUM(amount), 0) FROM payments WHERE payment_status = $1"
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var total float64

	if err := r.db.Read.GetContext(ctx, &total, query, constant.PaymentStatusCompleted); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to sum completed payments: %w", err)
	}

	return total, nil
}
