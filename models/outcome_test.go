package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcome_Admitted(t *testing.T) {
	assert.True(t, Outcome{Code: OutcomeSuccess}.Admitted())

	for _, code := range []OutcomeCode{
		OutcomeAlreadyValidated,
		OutcomeCancelled,
		OutcomeConflict,
		OutcomeNotFound,
		OutcomeStoreUnavailable,
	} {
		assert.False(t, Outcome{Code: code}.Admitted(), string(code))
	}
}

func TestOutcome_Retryable(t *testing.T) {
	assert.True(t, Outcome{Code: OutcomeConflict}.Retryable())

	// Repeating any definitive outcome cannot change it: a validated or
	// cancelled ticket stays that way, a missing record stays missing.
	for _, code := range []OutcomeCode{
		OutcomeSuccess,
		OutcomeAlreadyValidated,
		OutcomeCancelled,
		OutcomeNotFound,
		OutcomeStoreUnavailable,
	} {
		assert.False(t, Outcome{Code: code}.Retryable(), string(code))
	}
}
