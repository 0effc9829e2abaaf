package helpers

import (
	// Go Internal Packages
	"bytes"
	"strings"
	"testing"

	// External Packages
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintStruct(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintStruct(&buf, map[string]int{"total": 2}))
	assert.Equal(t, "{\n  \"total\": 2\n}\n", buf.String())
}

func TestTerminalConfirmer(t *testing.T) {
	var out bytes.Buffer
	c := NewTerminalConfirmer(strings.NewReader("sí\nLIMPIAR\nno\n"), &out)

	assert.True(t, c.Confirm("¿Seguro?"))
	assert.Equal(t, "LIMPIAR", c.Ask("Escribe:"))
	assert.False(t, c.Confirm("¿Otra vez?"))
	assert.False(t, c.Confirm("sin entrada"))
	assert.Contains(t, out.String(), "¿Seguro? [s/N]: ")
}

func TestTerminalConfirmerPresets(t *testing.T) {
	c := NewTerminalConfirmer(strings.NewReader(""), &bytes.Buffer{})
	c.AssumeYes = true
	c.Answer = "duplicado"

	assert.True(t, c.Confirm("¿Seguro?"))
	assert.Equal(t, "duplicado", c.Ask("Motivo:"))
}
