package version

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintVersionInfo(t *testing.T) {
	v := Versions{Version: "1.0.0", GolangVersion: "go1.21.0", BuildTime: "2025-01-01T00:00:00Z"}

	var buf bytes.Buffer
	require.NoError(t, printVersionInfo(&buf, v, false))
	assert.Equal(t, "Aegiscan Version: v1.0.0\nGo Version: go1.21.0\nBuild Time: 2025-01-01T00:00:00Z\n", buf.String())

	buf.Reset()
	require.NoError(t, printVersionInfo(&buf, v, true))
	var decoded Versions
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, v, decoded)
}

func TestVersionCommand(t *testing.T) {
	cmd := NewVersionCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Aegiscan Version: v"+CoreVersion)
}
