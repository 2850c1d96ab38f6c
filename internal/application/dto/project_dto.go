package dto

import "time"

// CreateProjectRequest body para POST /api/projects.
type CreateProjectRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	Location  string `json:"location"`
	StartDate string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

// ProjectResponse salida de un proyecto.
type ProjectResponse struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Location  string     `json:"location,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}
