// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - A roll kernel that moves raw machine words, so every dtype shares it
//   - Parallel execution over independent blocks
//
// # Basic Usage
//
//	backend := cpu.New()
//	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
//	y, err := x.Roll([]int{1}, -1)
//
// # Configuration
//
// Parallelism is read from the environment when New is called:
// ROLLKIT_NUM_THREADS, ROLLKIT_MIN_CHUNK and ROLLKIT_PARALLEL. WithParallel
// overrides them.
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Each tensor operation
// is isolated and does not share mutable state.
package cpu
