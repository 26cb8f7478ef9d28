package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/internal/services"
	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/internal/status"
)

type AuthHandler struct {
	app       *pocketbase.PocketBase
	operators *services.OperatorService
}

func NewAuthHandler(app *pocketbase.PocketBase, operators *services.OperatorService) *AuthHandler {
	return &AuthHandler{
		app:       app,
		operators: operators,
	}
}

// Login - operator username/password check; returns the operator identity
// callers pass along with every scan
func (h *AuthHandler) Login(e *core.RequestEvent) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.Username == "" || req.Password == "" {
		return apis.NewBadRequestError("Username and password required", nil)
	}

	operator, err := h.operators.Authenticate(e.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, status.ErrInvalidCredentials) {
			return apis.NewUnauthorizedError("Invalid username or password", nil)
		}
		return apis.NewInternalServerError("Login failed", err)
	}

	return e.JSON(http.StatusOK, map[string]any{"operator": operator})
}
