package forms

import (
	"strings"

	"github.com/google/uuid"
)

// NewSubmissionID returns the short unique code assigned to an
// accepted lead: the first 8 hex characters of a random UUID,
// uppercased. It is used in the payment memo so the operator can
// reconcile payment receipts against recorded leads.
func NewSubmissionID() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(id[:8])
}
