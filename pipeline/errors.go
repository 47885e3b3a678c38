// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedContext is returned by Initialize when no hardware
	// accelerated device can be acquired and the software backend was not
	// allowed.
	ErrUnsupportedContext = errors.New("pipeline: hardware accelerated context unavailable")

	// ErrPipelineDisposed is returned by every method called after Dispose.
	ErrPipelineDisposed = errors.New("pipeline: disposed")

	// ErrNotReady is returned when the pipeline has not been initialized,
	// or its initialization failed.
	ErrNotReady = errors.New("pipeline: not initialized")

	// ErrNoSource is returned by Render before any frame was uploaded.
	ErrNoSource = errors.New("pipeline: no source frame")

	// ErrShaderCompile matches every *ShaderCompileError via errors.Is.
	ErrShaderCompile = errors.New("pipeline: shader compilation failed")
)

// Shader stages reported by ShaderCompileError.
const (
	StageVertex   = "vertex"
	StageFragment = "fragment"
	StageLink     = "link"
)

// ShaderCompileError reports a program that failed to compile or link.
// Log holds the compiler diagnostics.
type ShaderCompileError struct {
	Stage   string // StageVertex, StageFragment or StageLink
	Program string // program family name
	Log     string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("pipeline: %s shader of %s program: %s", e.Stage, e.Program, e.Log)
}

// Is reports whether target is ErrShaderCompile.
func (e *ShaderCompileError) Is(target error) bool {
	return target == ErrShaderCompile
}
