package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/internal/status"
	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/internal/store"
	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/models"
	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/monitoring"
)

// ValidationService owns the one mutating operation of the check-in core: the
// PENDING -> VALIDATED transition. The whole check-then-act runs inside a
// single store transaction, which is what keeps two doors scanning the same
// ticket from both admitting it.
type ValidationService struct {
	store    store.Store
	resolver *Resolver
	now      func() time.Time
}

func NewValidationService(st store.Store) *ValidationService {
	return &ValidationService{
		store:    st,
		resolver: NewResolver(st),
		now:      time.Now,
	}
}

// Scan resolves a raw scanned payload and validates the matched record.
func (s *ValidationService) Scan(ctx context.Context, rawScan, operatorName string) models.Outcome {
	rec, strategy, err := s.resolver.Resolve(ctx, rawScan)
	if err != nil {
		outcome := s.outcomeFromErr(err, ExtractSearchKey(rawScan))
		monitoring.TrackScanOutcome(string(outcome.Code))
		return outcome
	}
	slog.Debug("registration resolved", "key", rec.Key, "strategy", strategy)
	monitoring.TrackResolutionStrategy(strategy)
	return s.Validate(ctx, rec.Key, operatorName)
}

// Validate atomically transitions the record at key from PENDING to
// VALIDATED on behalf of operatorName. Status is re-read inside the
// transaction; a status observed outside it is never trusted. VALIDATED and
// CANCELLED are terminal: the record is returned untouched.
func (s *ValidationService) Validate(ctx context.Context, key, operatorName string) models.Outcome {
	start := time.Now()
	var outcome models.Outcome

	err := s.store.RunTransaction(ctx, func(tx store.Tx) error {
		rec, err := tx.Get(key)
		if err != nil {
			return err
		}

		current := ToRegistration(rec.Data, rec.Key)
		switch current.Status {
		case models.StatusValidated:
			outcome = models.Outcome{
				Code:         models.OutcomeAlreadyValidated,
				Message:      fmt.Sprintf("Code already validated by %s", displayOperator(current.ValidatedBy)),
				Registration: &current,
			}
			return nil
		case models.StatusCancelled:
			outcome = models.Outcome{
				Code:         models.OutcomeCancelled,
				Message:      "Registration is cancelled",
				Registration: &current,
			}
			return nil
		}

		patch := map[string]any{
			"status":         string(models.StatusValidated),
			"validationTime": s.now().UTC(),
			"validatedBy":    operatorName,
		}
		// Self-heal incomplete legacy records while we hold the transaction.
		if stringValue(rec.Data["ticketType"]) == "" {
			patch["ticketType"] = string(models.TicketGeneral)
		}
		if stringValue(rec.Data["qrCodeValue"]) == "" && stringValue(rec.Data["qrCode"]) == "" {
			patch["qrCodeValue"] = rec.Key
		}
		if err := tx.Update(rec.Key, patch); err != nil {
			return err
		}

		merged := maps.Clone(rec.Data)
		maps.Copy(merged, patch)
		updated := ToRegistration(merged, rec.Key)
		outcome = models.Outcome{
			Code:         models.OutcomeSuccess,
			Message:      "Validation successful",
			Registration: &updated,
		}
		return nil
	})

	monitoring.ObserveValidationDuration(time.Since(start))
	if err != nil {
		outcome = s.outcomeFromErr(err, key)
	}
	monitoring.TrackScanOutcome(string(outcome.Code))
	return outcome
}

func (s *ValidationService) outcomeFromErr(err error, attemptedKey string) models.Outcome {
	switch {
	case errors.Is(err, status.ErrNotFound):
		return models.Outcome{
			Code:         models.OutcomeNotFound,
			Message:      fmt.Sprintf("No registration matches the scanned code %q", truncate(attemptedKey, 30)),
			AttemptedKey: attemptedKey,
		}
	case errors.Is(err, status.ErrTransactionConflict):
		slog.Warn("validation transaction conflict", "key", attemptedKey)
		return models.Outcome{
			Code:    models.OutcomeConflict,
			Message: "Another operator is validating this code at the same time",
		}
	default:
		slog.Error("registration store unavailable", "error", err)
		return models.Outcome{
			Code:    models.OutcomeStoreUnavailable,
			Message: "Could not reach the registration store",
		}
	}
}

func displayOperator(name string) string {
	if name == "" {
		return "unknown operator"
	}
	return name
}
