package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParallel(t *testing.T) {
	t.Setenv(EnvNumThreads, "3")
	t.Setenv(EnvMinChunk, "16")
	t.Setenv(EnvParallel, "")

	cfg := Parallel()
	assert.Equal(t, 3, cfg.NumWorkers)
	assert.Equal(t, 16, cfg.MinChunkSize)
	assert.True(t, cfg.Enabled)

	t.Setenv(EnvParallel, "false")
	assert.False(t, Parallel().Enabled)
}

func TestParallel_InvalidValuesFallBack(t *testing.T) {
	t.Setenv(EnvNumThreads, "-2")
	t.Setenv(EnvMinChunk, "lots")
	t.Setenv(EnvParallel, "maybe")

	cfg := Parallel()
	assert.Positive(t, cfg.NumWorkers)
	assert.Equal(t, 64, cfg.MinChunkSize)
	assert.Equal(t, cfg.NumWorkers > 1, cfg.Enabled)
}

func TestValues(t *testing.T) {
	t.Setenv(EnvDebug, "1")
	t.Setenv(EnvNumThreads, "1")

	vals := Values()
	assert.Equal(t, "true", vals[EnvDebug])
	assert.Equal(t, "1", vals[EnvNumThreads])
	assert.Equal(t, "false", vals[EnvParallel])
	assert.Len(t, vals, 4)
}
