package dto

import "time"

// MonthActivity contadores del mes en curso.
type MonthActivity struct {
	MaterialIn     int64 `json:"materialIn"`
	MaterialOut    int64 `json:"materialOut"`
	ActiveProjects int64 `json:"activeProjects"`
}

// UserActivityResponse salida de GET /api/users/:id/activity.
type UserActivityResponse struct {
	UserID            string        `json:"userId"`
	From              time.Time     `json:"from"`
	To                time.Time     `json:"to"`
	CurrentMonth      MonthActivity `json:"currentMonth"`
	TotalTransactions int64         `json:"totalTransactions"`
}
