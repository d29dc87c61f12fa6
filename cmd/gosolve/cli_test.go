package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gosolve "github.com/njchilds90/gosolve"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--config", t.TempDir() + "/missing.yaml"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLI_Version(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "gosolve version "+gosolve.Version+"\n", out)
}

func TestCLI_Solve(t *testing.T) {
	// 3x - 6 = 0
	equation := `{"left":{"type":"add","terms":[{"type":"mul","factors":[{"type":"num","re":3},{"type":"sym","name":"x"}]},{"type":"num","re":-6}]},"right":{"type":"num","re":0}}`
	out, err := execute(t, "solve", "--symbol", "x", "--format", "json", equation)
	require.NoError(t, err)

	var resp gosolve.ToolResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "x = 2", resp.String)
}

func TestCLI_ToolError(t *testing.T) {
	out, err := execute(t, "tool", "integrate", "--format", "json")
	assert.ErrorContains(t, err, "integrate failed")
	assert.Contains(t, out, "unknown tool")
}
