package sqlxrepos

import (
	"github.com/lib/pq"
)

// pq unique_violation
const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a unique constraint violation
// on the given constraint.
func isUniqueViolation(err error, constraint string) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == uniqueViolationCode && pqErr.Constraint == constraint
	}
	return false
}
