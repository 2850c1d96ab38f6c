package dto

import "github.com/shopspring/decimal"

// StockResponse foto de stock derivado de un material.
type StockResponse struct {
	ID              int64           `json:"id"`
	ProjectID       int64           `json:"projectId"`
	ProjectName     string          `json:"projectName,omitempty"`
	ProjectLocation string          `json:"projectLocation,omitempty"`
	Name            string          `json:"name"`
	Unit            string          `json:"unit"`
	InitialStock    decimal.Decimal `json:"initialStock"`
	StockIn         decimal.Decimal `json:"stockIn"`
	StockOut        decimal.Decimal `json:"stockOut"`
	CurrentStock    decimal.Decimal `json:"currentStock"`
	TotalCapacity   decimal.Decimal `json:"totalCapacity"`
}
