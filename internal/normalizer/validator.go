package normalizer

import (
	"errors"
	"fmt"
	"strings"

	"policyscope/internal/models"
)

// Validation errors. They describe records that normalize into degraded
// output; normalization itself never fails.
var (
	ErrNilRecord       = errors.New("record is nil")
	ErrMissingID       = errors.New("record has no id")
	ErrMissingName     = errors.New("record has no displayName or name")
	ErrInvalidSettings = errors.New("settings is not an array")
	ErrUnknownSource   = errors.New("unknown source kind")
)

// Validator checks raw records before normalization.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate reports every problem found in raw, joined into one error.
func (v *Validator) Validate(raw models.RawRecord, kind models.SourceKind) error {
	if raw == nil {
		return ErrNilRecord
	}

	var errs []error

	if !kind.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownSource, kind))
	}

	if _, ok := raw.Text("id"); !ok {
		errs = append(errs, ErrMissingID)
	}

	if strings.TrimSpace(raw.String("displayName")) == "" && strings.TrimSpace(raw.String("name")) == "" {
		errs = append(errs, ErrMissingName)
	}

	if raw.Present(fieldSettings) && raw.Slice(fieldSettings) == nil {
		errs = append(errs, ErrInvalidSettings)
	}

	return errors.Join(errs...)
}
