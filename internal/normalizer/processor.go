// Package normalizer converts raw Graph policy objects into models.Policy records.
//
// Normalization is total: any record, however sparse, produces a policy
// with a non-nil settings list. The Validator only reports problems so
// callers can log them.
package normalizer

import (
	"policyscope/internal/logger"
	"policyscope/internal/models"
)

// Processor validates and normalizes batches of raw records.
type Processor struct {
	validator *Validator
	log       *logger.Logger

	// Strict drops records that fail validation instead of normalizing them.
	Strict bool
}

// NewProcessor creates a new processor instance.
func NewProcessor(log *logger.Logger) *Processor {
	if log == nil {
		log = logger.Discard()
	}

	return &Processor{
		validator: NewValidator(),
		log:       log,
	}
}

// Process normalizes one record. ok is false only in strict mode when the
// record failed validation.
func (p *Processor) Process(raw models.RawRecord, kind models.SourceKind) (models.Policy, bool) {
	if err := p.validator.Validate(raw, kind); err != nil {
		p.log.Warn("raw record failed validation",
			"source", kind.DisplayName(),
			"id", raw.String("id"),
			"error", err,
		)

		if p.Strict {
			return models.Policy{}, false
		}
	}

	return NormalizeSource(raw, kind), true
}

// ProcessAll normalizes items in order.
func (p *Processor) ProcessAll(items []models.RawRecord, kind models.SourceKind) []models.Policy {
	policies := make([]models.Policy, 0, len(items))

	for _, raw := range items {
		policy, ok := p.Process(raw, kind)
		if !ok {
			continue
		}

		policies = append(policies, policy)
	}

	p.log.Debug("normalized source", "source", kind.DisplayName(), "in", len(items), "out", len(policies))

	return policies
}
