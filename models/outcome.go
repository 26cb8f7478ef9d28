package models

type OutcomeCode string

const (
	OutcomeSuccess          OutcomeCode = "SUCCESS"
	OutcomeAlreadyValidated OutcomeCode = "ALREADY_VALIDATED"
	OutcomeCancelled        OutcomeCode = "CANCELLED"
	OutcomeConflict         OutcomeCode = "TRANSACTION_CONFLICT"
	OutcomeNotFound         OutcomeCode = "NOT_FOUND"
	OutcomeStoreUnavailable OutcomeCode = "STORE_UNAVAILABLE"
)

// Outcome is the result of a validation attempt. Registration is set for the
// business outcomes (success, already validated, cancelled); AttemptedKey is
// set when no record matched the scanned payload.
type Outcome struct {
	Code         OutcomeCode   `json:"code"`
	Message      string        `json:"message"`
	Registration *Registration `json:"registration,omitempty"`
	AttemptedKey string        `json:"attempted_key,omitempty"`
}

func (o Outcome) Admitted() bool {
	return o.Code == OutcomeSuccess
}

// Retryable reports whether repeating the same scan can produce a different
// result. Conflicts are transient; everything else is definitive.
func (o Outcome) Retryable() bool {
	return o.Code == OutcomeConflict
}
