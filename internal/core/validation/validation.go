// Package validation holds the field validators used at signup and funding.
//
// Each validator is a plain function taking the raw input and returning the
// normalized value or a *domain.ValidationError naming the field and reason.
// Callers compose them by calling them in order and merging the failures
// with Collect.
package validation

import (
	"errors"

	"github.com/bankdemo/banking-api/internal/core/domain"
)

// Field names reported in FieldError.Field.
const (
	FieldEmail         = "email"
	FieldPassword      = "password"
	FieldFirstName     = "first_name"
	FieldLastName      = "last_name"
	FieldPhone         = "phone"
	FieldDateOfBirth   = "date_of_birth"
	FieldSSN           = "ssn"
	FieldAddress       = "address"
	FieldCity          = "city"
	FieldState         = "state"
	FieldZip           = "zip"
	FieldAmount        = "amount"
	FieldCardNumber    = "card_number"
	FieldRoutingNumber = "routing_number"
	FieldSourceType    = "source_type"
	FieldDescription   = "description"
	FieldAccountType   = "account_type"
)

func fail(field, reason string) error {
	return domain.NewFieldError(field, reason)
}

// Collect merges the field failures of every non-nil error into a single
// ValidationError, keeping the order in which they were passed. Errors that
// are not validation errors are returned as-is, first one wins.
func Collect(errs ...error) error {
	var fields []domain.FieldError
	for _, err := range errs {
		if err == nil {
			continue
		}
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		fields = append(fields, ve.Fields...)
	}
	if len(fields) == 0 {
		return nil
	}
	return &domain.ValidationError{Fields: fields}
}
