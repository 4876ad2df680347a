// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// Localized messages surfaced verbatim to the client. The storefront is
// Burmese-language, so the user-facing validation strings are too.
const (
	MsgDuplicateName          = "အမည်သည် database ထဲတွင်ရှိပြီးသားဖြစ်ပါသည်။"
	MsgQuantityMustBePositive = "အရေအတွက်သည် အပေါင်းကိန်းဖြစ်ရမည်"
)

// ErrNotFound is the sentinel for lookups on absent records. Wrap it with
// context at the call site and test with errors.Is.
var ErrNotFound = errors.New("not found")

// ValidationError reports a missing or malformed field on a request.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// DuplicateNameError reports a catalog name collision. The unique index on
// name_mm is the single authority; there is no application-level pre-check.
type DuplicateNameError struct {
	NameMM string
}

func (e *DuplicateNameError) Error() string {
	return MsgDuplicateName
}

// InsufficientStockError reports an invoice line requesting more units than
// the catalog holds.
type InsufficientStockError struct {
	ItemID    string
	NameMM    string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	name := e.NameMM
	if name == "" {
		name = e.ItemID
	}
	return fmt.Sprintf("insufficient quantity for item %s", name)
}

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsDuplicateName reports whether err is a catalog name collision.
func IsDuplicateName(err error) bool {
	var de *DuplicateNameError
	return errors.As(err, &de)
}

// IsInsufficientStock reports whether err is a stock shortage.
func IsInsufficientStock(err error) bool {
	var se *InsufficientStockError
	return errors.As(err, &se)
}
