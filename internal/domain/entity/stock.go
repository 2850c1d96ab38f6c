package entity

import "github.com/shopspring/decimal"

// Stock es la foto derivada del ledger para un material.
// CurrentStock = InitialStock + TotalIn - TotalOut; TotalCapacity = InitialStock + TotalIn
// (solo denominador para el porcentaje de uso, no un límite físico).
type Stock struct {
	MaterialID      int64
	ProjectID       int64
	ProjectName     string
	ProjectLocation string
	Name            string
	Unit            string
	InitialStock    decimal.Decimal
	TotalIn         decimal.Decimal
	TotalOut        decimal.Decimal
	CurrentStock    decimal.Decimal
	TotalCapacity   decimal.Decimal
}
