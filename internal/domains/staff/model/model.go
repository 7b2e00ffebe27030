package model

import "hotelier/shared/model"

const (
	TableName  = "staff"
	EntityName = "staff"

	FieldID           = "id"
	FieldFirstName    = "first_name"
	FieldLastName     = "last_name"
	FieldEmail        = "email"
	FieldPhone        = "phone"
	FieldRole         = "role"
	FieldUsername     = "username"
	FieldPasswordHash = "password_hash"
)

type Staff struct {
	ID           string `db:"id"`
	FirstName    string `db:"first_name"`
	LastName     string `db:"last_name"`
	Email        string `db:"email"`
	Phone        string `db:"phone"`
	Role         string `db:"role"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
	model.Metadata
}
