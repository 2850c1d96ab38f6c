package entity

import "time"

// Project representa una obra activa donde se reciben y consumen materiales.
type Project struct {
	ID        int64
	Name      string
	Location  string
	StartDate *time.Time
	EndDate   *time.Time
	CreatedAt time.Time
}
