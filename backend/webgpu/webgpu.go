//go:build windows

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU backend: roll runs as a WGSL compute
// shader, one invocation per output element.
//
// Only float32 and int32 tensors are supported; other dtypes fail with
// tensor.ErrUnsupportedDType.
//
// Example:
//
//	gpu, err := webgpu.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gpu.Release()
//
//	out, err := gpu.Roll(x.Raw(), []int{1}, []int{0})
package webgpu

import (
	internalwebgpu "github.com/born-ml/rollkit/internal/backend/webgpu"
	"github.com/born-ml/rollkit/tensor"
)

// Backend represents the WebGPU backend implementation.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new WebGPU backend. Call Release() when done to free GPU resources.
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on this system.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
