package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// materialRow fila del catálogo de materiales a sembrar.
type materialRow struct {
	Project      string
	Name         string
	Unit         string
	InitialStock string
}

// defaultCatalog catálogo de demostración: dos obras con materiales típicos.
var defaultCatalog = []materialRow{
	{Project: "Edificio de Oficinas Municipal", Name: "Cemento Portland", Unit: "bulto (50kg)", InitialStock: "200"},
	{Project: "Edificio de Oficinas Municipal", Name: "Varilla corrugada 3/8", Unit: "unidad (12m)", InitialStock: "500"},
	{Project: "Edificio de Oficinas Municipal", Name: "Arena de río", Unit: "m3", InitialStock: "25"},
	{Project: "Edificio de Oficinas Municipal", Name: "Pintura vinílica", Unit: "galón", InitialStock: "50"},
	{Project: "Puente Quebrada Honda", Name: "Cemento Portland", Unit: "bulto (50kg)", InitialStock: "350"},
	{Project: "Puente Quebrada Honda", Name: "Grava 3/4", Unit: "m3", InitialStock: "40"},
	{Project: "Puente Quebrada Honda", Name: "Alambre negro", Unit: "kg", InitialStock: "0"},
}

// parseCatalog lee un CSV "obra;material;unidad;stock_inicial" (con encabezado).
// Con latin1 el archivo se decodifica desde ISO-8859-1, típico de exportaciones de Excel.
func parseCatalog(r io.Reader, latin1 bool) ([]materialRow, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []materialRow
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		line++
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "obra") {
			continue
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("csv línea %d: se esperaban al menos 3 columnas", line)
		}
		row := materialRow{
			Project: strings.TrimSpace(rec[0]),
			Name:    strings.TrimSpace(rec[1]),
			Unit:    strings.TrimSpace(rec[2]),
		}
		if len(rec) > 3 {
			row.InitialStock = strings.TrimSpace(rec[3])
		}
		if row.Project == "" || row.Name == "" || row.Unit == "" {
			return nil, fmt.Errorf("csv línea %d: obra, material y unidad son obligatorios", line)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
