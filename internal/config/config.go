// Package config reads rollkit settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"k8s.io/klog/v2"

	"github.com/born-ml/rollkit/internal/parallel"
)

// Environment variable names.
const (
	EnvNumThreads = "ROLLKIT_NUM_THREADS"
	EnvMinChunk   = "ROLLKIT_MIN_CHUNK"
	EnvParallel   = "ROLLKIT_PARALLEL"
	EnvDebug      = "ROLLKIT_DEBUG"
)

// EnvVar describes one environment setting and its effective value.
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// Bool reads a boolean variable. Unset or unparsable values yield def.
func Bool(key string, def bool) bool {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		klog.Warningf("invalid boolean %s=%q, using %v", key, s, def)
		return def
	}
	return b
}

// Int reads a positive integer variable. Unset, unparsable or non-positive
// values yield def.
func Int(key string, def int) int {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		klog.Warningf("invalid positive integer %s=%q, using %d", key, s, def)
		return def
	}
	return n
}

// Debug reports whether verbose kernel logging was requested (ROLLKIT_DEBUG).
func Debug() bool {
	return Bool(EnvDebug, false)
}

// Parallel builds the worker configuration of the CPU kernels:
// ROLLKIT_PARALLEL toggles it, ROLLKIT_NUM_THREADS and ROLLKIT_MIN_CHUNK tune it.
// Defaults come from parallel.DefaultConfig.
func Parallel() parallel.Config {
	cfg := parallel.DefaultConfig()
	cfg.NumWorkers = Int(EnvNumThreads, cfg.NumWorkers)
	cfg.MinChunkSize = Int(EnvMinChunk, cfg.MinChunkSize)
	cfg.Enabled = Bool(EnvParallel, cfg.NumWorkers > 1)
	return cfg
}

// AsMap returns every setting keyed by variable name.
func AsMap() map[string]EnvVar {
	cfg := Parallel()
	return map[string]EnvVar{
		EnvNumThreads: {EnvNumThreads, cfg.NumWorkers, "Worker goroutines used by CPU kernels (default: number of CPUs)"},
		EnvMinChunk:   {EnvMinChunk, cfg.MinChunkSize, "Minimum work items per goroutine (default 64)"},
		EnvParallel:   {EnvParallel, cfg.Enabled, "Enable parallel CPU kernels (default true on multi-core machines)"},
		EnvDebug:      {EnvDebug, Debug(), "Log kernel dispatch details (e.g. ROLLKIT_DEBUG=1)"},
	}
}

// Values returns the effective values formatted as strings.
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}
