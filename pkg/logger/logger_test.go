package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/materiales-obra-api/pkg/logger"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"otro":    zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, logger.ParseLevel(in), in)
	}
}

func TestNewWithWriter_JSONConServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(logger.Config{Level: "info", Service: "api"}, &buf)

	comp := l.Component("admission")
	comp.Info().Int64("material_id", 7).Msg("movimiento registrado")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "api", line["service"])
	assert.Equal(t, "admission", line["component"])
	assert.Equal(t, "movimiento registrado", line["message"])
	assert.EqualValues(t, 7, line["material_id"])
}

func TestNewWithWriter_FiltraPorNivel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(logger.Config{Level: "warn"}, &buf)
	l.Info().Msg("descartado")
	assert.Zero(t, buf.Len())
	l.Warn().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}
