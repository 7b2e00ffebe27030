package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"hotelier/infras/otel"
	"hotelier/infras/postgres"
	"hotelier/internal/domains/customer/model"
	"hotelier/shared/constant"
	gDto "hotelier/shared/dto"
	"hotelier/shared/logger"
	gRepo "hotelier/shared/repository"
)

type Customer interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Customer, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Customer, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpsertTx(ctx context.Context, tx *sqlx.Tx, customer model.Customer) (string, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Customer]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Customer {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Customer](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// UpsertTx inserts the customer, or if the email already exists, refreshes the
// stored name and phone in place. Either way it returns the row's id, so
// repeat guests keep a single customer record.
func (r *repositoryImpl) UpsertTx(ctx context.Context, tx *sqlx.Tx, customer model.Customer) (string, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".customer.UpsertTx")
	defer scope.End()

	query := `INSERT INTO customers (id, first_name, last_name, email, phone, created_at, modified_at, created_by, modified_by)
		VALUES (:id, :first_name, :last_name, :email, :phone, :created_at, :modified_at, :created_by, :modified_by)
		ON CONFLICT (email) DO UPDATE
		SET first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			phone = EXCLUDED.phone,
			modified_at = EXCLUDED.modified_at,
			modified_by = EXCLUDED.modified_by
		RETURNING id`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	rows, err := tx.NamedQuery(query, customer)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return "", fmt.Errorf("failed to upsert customer: %w", err)
	}
	defer rows.Close()

	var id string

	if rows.Next() {
		if err := rows.Scan(&id); err != nil {
			logger.ErrorWithStack(err)
			scope.TraceError(err)

			return "", fmt.Errorf("failed to scan upserted customer id: %w", err)
		}
	}

	return id, nil
}
