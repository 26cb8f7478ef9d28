package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/internal/services"
	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/internal/status"
	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/internal/store"
	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/models"
)

type ScanHandler struct {
	app       *pocketbase.PocketBase
	store     store.Store
	validator *services.ValidationService
	notifier  *services.Notifier
}

func NewScanHandler(app *pocketbase.PocketBase, st store.Store, validator *services.ValidationService, notifier *services.Notifier) *ScanHandler {
	return &ScanHandler{
		app:       app,
		store:     st,
		validator: validator,
		notifier:  notifier,
	}
}

// Scan - validate a decoded QR payload on behalf of an operator
func (h *ScanHandler) Scan(e *core.RequestEvent) error {
	var req struct {
		QRData   string `json:"qr_data"`
		Operator string `json:"operator"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if strings.TrimSpace(req.Operator) == "" {
		return apis.NewBadRequestError("Operator name required", nil)
	}

	outcome := h.validator.Scan(e.Request.Context(), req.QRData, req.Operator)
	notification := services.Classify(outcome)
	h.notifier.Publish(notification)

	return e.JSON(http.StatusOK, map[string]any{
		"outcome":      outcome,
		"notification": notification,
		"admitted":     outcome.Admitted(),
		"retryable":    outcome.Retryable(),
	})
}

// ListRegistrations - all registrations in canonical form
func (h *ScanHandler) ListRegistrations(e *core.RequestEvent) error {
	recs, err := h.store.ScanAll(e.Request.Context())
	if err != nil {
		return apis.NewInternalServerError("Failed to load registrations", err)
	}

	regs := make([]models.Registration, len(recs))
	for i, rec := range recs {
		regs[i] = services.ToRegistration(rec.Data, rec.Key)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"registrations": regs,
		"total":         len(regs),
	})
}

// GetRegistration - single registration by record id
func (h *ScanHandler) GetRegistration(e *core.RequestEvent) error {
	id := e.Request.PathValue("id")
	if id == "" {
		return apis.NewBadRequestError("Registration id required", nil)
	}

	rec, err := h.store.Get(e.Request.Context(), id)
	if err != nil {
		if errors.Is(err, status.ErrNotFound) {
			return apis.NewNotFoundError("Registration not found", nil)
		}
		return apis.NewInternalServerError("Failed to load registration", err)
	}

	return e.JSON(http.StatusOK, services.ToRegistration(rec.Data, rec.Key))
}
