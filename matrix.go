// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package dither

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidSize is returned when an ordered matrix is requested for a
// size that is not a power of two in [MinMatrixSize, MaxMatrixSize].
// Callers can recover with NearestMatrixSize.
var ErrInvalidSize = errors.New("dither: matrix size must be a power of two in [2,16]")

// Matrix is an immutable n×n table of thresholds in [0,1).
type Matrix struct {
	n      int
	values []float64 // row-major
}

// Size returns n.
func (m *Matrix) Size() int { return m.n }

// At returns the threshold at column x, row y. Coordinates wrap modulo n,
// including negative ones.
func (m *Matrix) At(x, y int) float64 {
	x %= m.n
	y %= m.n
	if x < 0 {
		x += m.n
	}
	if y < 0 {
		y += m.n
	}
	return m.values[y*m.n+x]
}

// Values returns a row-major copy of the thresholds.
func (m *Matrix) Values() []float64 {
	out := make([]float64, len(m.values))
	copy(out, m.values)
	return out
}

// Row returns a copy of row y.
func (m *Matrix) Row(y int) []float64 {
	out := make([]float64, m.n)
	copy(out, m.values[y*m.n:(y+1)*m.n])
	return out
}

var matrixCache struct {
	mu sync.Mutex
	m  map[int]*Matrix
}

// quadrantOffset maps quadrant index 2*qy+qx to its additive offset.
var quadrantOffset = [4]float64{0, 2.0 / 4, 3.0 / 4, 1.0 / 4}

// OrderedMatrix returns the Bayer-style threshold matrix of size n.
//
// The base case is [[0,2],[3,1]]/4. Larger sizes tile the half-size
// matrix into four quadrants:
//
//	m[y][x] = half[y%h][x%h]/4 + offset[2*(y/h) + x/h],  h = n/2
//
// with offsets {0, 2/4, 3/4, 1/4}. Results are cached per size and shared,
// so sizes are limited to MaxMatrixSize.
func OrderedMatrix(n int) (*Matrix, error) {
	if n < MinMatrixSize || n > MaxMatrixSize || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, n)
	}

	matrixCache.mu.Lock()
	defer matrixCache.mu.Unlock()
	return orderedMatrixLocked(n), nil
}

// MustOrderedMatrix is like OrderedMatrix but panics on an invalid size.
func MustOrderedMatrix(n int) *Matrix {
	m, err := OrderedMatrix(n)
	if err != nil {
		panic(err)
	}
	return m
}

func orderedMatrixLocked(n int) *Matrix {
	if m, ok := matrixCache.m[n]; ok {
		return m
	}
	if matrixCache.m == nil {
		matrixCache.m = make(map[int]*Matrix)
	}

	m := &Matrix{n: n, values: make([]float64, n*n)}
	if n == 2 {
		copy(m.values, []float64{0, 2.0 / 4, 3.0 / 4, 1.0 / 4})
	} else {
		h := n / 2
		half := orderedMatrixLocked(h)
		for y := range n {
			for x := range n {
				q := 2*(y/h) + x/h
				m.values[y*n+x] = half.values[(y%h)*h+x%h]/4 + quadrantOffset[q]
			}
		}
	}
	matrixCache.m[n] = m
	return m
}
