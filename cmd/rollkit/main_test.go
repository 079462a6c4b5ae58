package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewCLI()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "rollkit "+version+"\n", out)
}

func TestEnv(t *testing.T) {
	t.Setenv("ROLLKIT_NUM_THREADS", "3")
	out, err := execute(t, "env")
	require.NoError(t, err)
	assert.Contains(t, out, "ROLLKIT_NUM_THREADS")
	assert.Contains(t, out, "ROLLKIT_DEBUG")
}

func TestRoll(t *testing.T) {
	tests := []struct {
		name string
		args []string
		rows []string
	}{
		{"Flattened", []string{"roll", "--shape", "3,3", "--shifts", "1"}, []string{"9 1 2", "3 4 5", "6 7 8"}},
		{"Rows", []string{"roll", "--shifts", "1", "--axis", "0"}, []string{"7 8 9", "1 2 3", "4 5 6"}},
		{"Columns", []string{"roll", "--shifts", "1", "--axis", "1", "--dtype", "int32"}, []string{"3 1 2", "6 4 5", "9 7 8"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			rolled := out[strings.Index(out, "rolled:"):]
			for _, row := range tt.rows {
				assert.Contains(t, rolled, row)
			}
		})
	}
}

func TestRoll_Grad(t *testing.T) {
	out, err := execute(t, "roll", "--shape", "4", "--shifts", "1", "--grad")
	require.NoError(t, err)
	assert.Contains(t, out, "rolled:\nfloat32[4] [4 1 2 3]\n")
	assert.Contains(t, out, "input gradient:\nfloat32[4] [2 3 4 1]\n")
}

func TestRoll_Errors(t *testing.T) {
	_, err := execute(t, "roll", "--axis", "10")
	assert.Error(t, err)

	_, err = execute(t, "roll", "--dtype", "complex64")
	assert.ErrorContains(t, err, "unknown type")

	_, err = execute(t, "roll", "--shape", "2", "--values", "1,2,3")
	assert.ErrorContains(t, err, "got 3 values for 2 elements")

	_, err = execute(t, "roll", "--shape", "2,x")
	assert.ErrorContains(t, err, "--shape")
}

func TestParseInts(t *testing.T) {
	got, err := parseInts(" 1, -2 ,3")
	require.NoError(t, err)
	assert.Equal(t, []int{1, -2, 3}, got)

	got, err = parseInts("")
	require.NoError(t, err)
	assert.Nil(t, got)
}
