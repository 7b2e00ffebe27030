package mocks

import (
	"context"

	"github.com/jmoiron/sqlx"

	"hotelier/infras/postgres"
)

type txRunnerImpl struct {
}

// WithinTx implements postgres.TxRunner. The callback runs with a nil
// transaction; repository mocks ignore the tx argument.
func (t *txRunnerImpl) WithinTx(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

func NewTxRunner() postgres.TxRunner {
	return &txRunnerImpl{}
}
