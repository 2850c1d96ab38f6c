package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Valores por defecto de paginación.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageRequest paginación page/limit para listados.
type PageRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// Normalize aplica valores por defecto y límites.
func (p *PageRequest) Normalize() {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

// Offset filas a saltar para la página actual.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// OffsetOverflows indica si (Page-1)*Limit no cabe en un int. Llamar después de Normalize.
func (p PageRequest) OffsetOverflows() bool {
	return p.Page-1 > math.MaxInt/p.Limit
}

// PageResponse metadatos de página. HasMore es aproximado: true si la página vino llena.
type PageResponse struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"hasMore"`
}

// ErrorResponse cuerpo de error HTTP. Error lleva el tipo de error del dominio.
type ErrorResponse struct {
	Code              string `json:"code"`
	Error             string `json:"error,omitempty"`
	Message           string `json:"message"`
	Field             string `json:"field,omitempty"`
	CurrentStock      string `json:"currentStock,omitempty"`
	RequestedQuantity string `json:"requestedQuantity,omitempty"`
	HasTransactions   bool   `json:"hasTransactions,omitempty"`
	MovementCount     int64  `json:"movementCount,omitempty"`
	TotalIn           string `json:"totalIn,omitempty"`
	TotalOut          string `json:"totalOut,omitempty"`
}

// NumericString acepta un número JSON o un string ("12.5" o 12.5) y conserva el texto original.
type NumericString string

// UnmarshalJSON implementa json.Unmarshaler.
func (n *NumericString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericString(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("quantity: se esperaba número o string: %w", err)
	}
	*n = NumericString(num.String())
	return nil
}
