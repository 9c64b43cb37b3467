package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zerolog.Level
		wantErr bool
	}{
		{input: "trace", want: zerolog.TraceLevel},
		{input: "DEBUG", want: zerolog.DebugLevel},
		{input: "", want: zerolog.InfoLevel},
		{input: "info", want: zerolog.InfoLevel},
		{input: "warning", want: zerolog.WarnLevel},
		{input: "error", want: zerolog.ErrorLevel},
		{input: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Format = "json"
	cfg.Output = &buf
	cfg.Level = zerolog.WarnLevel

	log := New(cfg)
	log.Info().Msg("hidden")
	log.Warn().Str("pack", "C[0]").Msg("dropped")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "dropped", entry["message"])
	assert.Equal(t, "C[0]", entry["pack"])
}

func TestNewFromConfigValuesErrors(t *testing.T) {
	_, err := NewFromConfigValues("info", "xml")
	assert.Error(t, err)

	_, err = NewFromConfigValues("chatty", "console")
	assert.Error(t, err)

	_, err = NewFromConfigValues("debug", "json")
	assert.NoError(t, err)
}
