package models

import (
	"time"
)

type DashboardStats struct {
	Total        int                `json:"total"`
	Validated    int                `json:"validated"`
	Pending      int                `json:"pending"`
	Cancelled    int                `json:"cancelled"`
	ByTicketType map[TicketType]int `json:"by_ticket_type"`
	LastUpdated  time.Time          `json:"last_updated"`
}
