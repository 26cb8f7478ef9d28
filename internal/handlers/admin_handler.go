package handlers

import (
	"net/http"
	"strconv"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"

	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/internal/services"
	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/utils"
)

type AdminHandler struct {
	app       *pocketbase.PocketBase
	dashboard *services.DashboardService
	redis     *redis.Client
}

func NewAdminHandler(app *pocketbase.PocketBase, dashboard *services.DashboardService, redisClient *redis.Client) *AdminHandler {
	return &AdminHandler{
		app:       app,
		dashboard: dashboard,
		redis:     redisClient,
	}
}

// GetDashboardStats - aggregate counts for the admin dashboard
func (h *AdminHandler) GetDashboardStats(e *core.RequestEvent) error {
	stats, err := h.dashboard.Stats(e.Request.Context())
	if err != nil {
		return apis.NewInternalServerError("Failed to compute dashboard stats", err)
	}
	return e.JSON(http.StatusOK, stats)
}

// GetRecentValidations - latest admissions, newest first
func (h *AdminHandler) GetRecentValidations(e *core.RequestEvent) error {
	limit := 0
	if raw := e.Request.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return apis.NewBadRequestError("Invalid limit", err)
		}
		limit = parsed
	}

	recent, err := h.dashboard.RecentValidations(e.Request.Context(), limit)
	if err != nil {
		return apis.NewInternalServerError("Failed to load recent validations", err)
	}
	return e.JSON(http.StatusOK, map[string]any{
		"validations": recent,
		"count":       len(recent),
	})
}

// GetStatusBreakdown - raw stored status values and their counts, before
// normalization. Lets admins spot drifted legacy records.
func (h *AdminHandler) GetStatusBreakdown(e *core.RequestEvent) error {
	var rows []dbx.NullStringMap
	err := h.app.DB().NewQuery(
		"SELECT status, COUNT(*) AS total FROM registrations GROUP BY status",
	).All(&rows)
	if err != nil {
		return apis.NewInternalServerError("Failed to query status breakdown", err)
	}

	breakdown := make(map[string]int, len(rows))
	for _, row := range rows {
		label := row["status"].String
		if label == "" {
			label = "(missing)"
		}
		total, _ := strconv.Atoi(row["total"].String)
		breakdown[label] = total
	}

	return e.JSON(http.StatusOK, map[string]any{"breakdown": breakdown})
}

// Health - redis connectivity check
func (h *AdminHandler) Health(e *core.RequestEvent) error {
	if err := utils.RedisHealthCheck(h.redis); err != nil {
		return e.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
	}
	return e.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}
