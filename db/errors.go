package db

import (
	"errors"

	"github.com/lib/pq"
)

// pgUniqueViolation is the SQLSTATE a unique constraint raises. Settlement
// relies on it to spot a redelivered webhook event, signup to spot an email
// that already registered.
const pgUniqueViolation = "23505"

func isErrorUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}
