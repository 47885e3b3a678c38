// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/dither"
	"github.com/gogpu/naga"
)

//go:embed shaders/quad.wgsl
var quadShaderSource string

//go:embed shaders/common.wgsl
var commonShaderSource string

//go:embed shaders/diffusion.wgsl
var diffusionShaderSource string

//go:embed shaders/ordered.wgsl
var orderedShaderSource string

// programSource is the WGSL of one program family. Vertex and fragment
// stages are separate modules so that diagnostics name the failing stage.
type programSource struct {
	family   dither.Family
	name     string
	vertex   string
	fragment string
}

// defaultProgramSources returns one program per dithering family. Both
// share the quad vertex stage and the common fragment declarations.
func defaultProgramSources() []programSource {
	return []programSource{
		{
			family:   dither.FamilyDiffusion,
			name:     dither.FamilyDiffusion.String(),
			vertex:   quadShaderSource,
			fragment: commonShaderSource + "\n" + diffusionShaderSource,
		},
		{
			family:   dither.FamilyOrdered,
			name:     dither.FamilyOrdered.String(),
			vertex:   quadShaderSource,
			fragment: commonShaderSource + "\n" + orderedShaderSource,
		},
	}
}

// compileStage compiles one WGSL stage to SPIR-V words. Failures are
// reported as *ShaderCompileError carrying the compiler message.
func compileStage(program, stage, source string) ([]uint32, error) {
	if strings.TrimSpace(source) == "" {
		return nil, &ShaderCompileError{Stage: stage, Program: program, Log: "empty source"}
	}
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, &ShaderCompileError{Stage: stage, Program: program, Log: err.Error()}
	}
	if len(spirvBytes) == 0 || len(spirvBytes)%4 != 0 {
		return nil, &ShaderCompileError{
			Stage:   stage,
			Program: program,
			Log:     fmt.Sprintf("invalid SPIR-V length %d", len(spirvBytes)),
		}
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return words, nil
}

// quadVertexStride is the byte stride per quad vertex:
//
//	position (vec2<f32>) = 8 bytes (location 0), clip space
//	uv       (vec2<f32>) = 8 bytes (location 1), origin top-left
const quadVertexStride = 16

// quadVertexCount is two triangles covering the surface.
const quadVertexCount = 6

// quadVertices returns the full-surface quad.
func quadVertices() []byte {
	verts := []float32{
		-1, -1, 0, 1,
		1, -1, 1, 1,
		1, 1, 1, 0,
		-1, -1, 0, 1,
		1, 1, 1, 0,
		-1, 1, 0, 0,
	}
	buf := make([]byte, len(verts)*4)
	for i, v := range verts {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}
