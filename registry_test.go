// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package dither

import "testing"

func TestDefaultRegistryResolve(t *testing.T) {
	r := DefaultRegistry()

	for _, a := range Algorithms() {
		e, ok := r.Resolve(a)
		switch a {
		case DotScreen, CrossHatch, Pattern:
			if ok || e.Algorithm != FloydSteinberg {
				t.Errorf("Resolve(%s) = %s, %v; want fallback", a, e.Algorithm, ok)
			}
		default:
			if !ok || e.Algorithm != a {
				t.Errorf("Resolve(%s) = %s, %v; want own entry", a, e.Algorithm, ok)
			}
		}
		if e.Engine == nil {
			t.Errorf("Resolve(%s) returned nil engine", a)
		}
	}

	if e, ok := r.Resolve("nonexistent"); ok || e.Algorithm != FloydSteinberg {
		t.Errorf("Resolve(nonexistent) = %s, %v; want floydSteinberg fallback", e.Algorithm, ok)
	}
}

func TestRegistryEntriesOrder(t *testing.T) {
	r := NewDefaultRegistry()
	builtin := len(r.Entries())
	// Every catalogue id except dotScreen, crossHatch and pattern.
	if want := len(Algorithms()) - 3; builtin != want {
		t.Fatalf("default entries = %d, want %d", builtin, want)
	}

	r.Register("zzCustom", EngineFunc(func(*PixelBuffer, Settings) {}), 0)
	r.Register("aaCustom", EngineFunc(func(*PixelBuffer, Settings) {}), 0)

	entries := r.Entries()
	if len(entries) != builtin+2 {
		t.Fatalf("len(Entries()) = %d, want %d", len(entries), builtin+2)
	}
	if entries[0].Algorithm != FloydSteinberg {
		t.Errorf("first entry = %s, want floydSteinberg", entries[0].Algorithm)
	}
	if entries[builtin].Algorithm != "aaCustom" || entries[builtin+1].Algorithm != "zzCustom" {
		t.Errorf("custom entries = %s, %s; want aaCustom, zzCustom",
			entries[builtin].Algorithm, entries[builtin+1].Algorithm)
	}
}

func TestRegistryParams(t *testing.T) {
	r := DefaultRegistry()
	tests := []struct {
		a    Algorithm
		want Param
	}{
		{Atkinson, ParamThreshold | ParamDiffusionFactor | ParamSerpentine},
		{Bayer, ParamMatrixSize},
		{Threshold, ParamThreshold},
		{Random, ParamThreshold | ParamSeed},
		{Riemersma, ParamThreshold | ParamDiffusionFactor},
	}
	for _, tt := range tests {
		e, _ := r.Resolve(tt.a)
		if e.Params != tt.want {
			t.Errorf("%s params = %s, want %s", tt.a, e.Params, tt.want)
		}
	}
}

func TestParamString(t *testing.T) {
	if got := (ParamThreshold | ParamSeed).String(); got != "threshold,seed" {
		t.Errorf("String() = %q, want %q", got, "threshold,seed")
	}
	if got := Param(0).String(); got != "" {
		t.Errorf("Param(0).String() = %q, want empty", got)
	}
}

func TestRegistryBuiltinFallback(t *testing.T) {
	r := NewRegistry("missing")
	e, ok := r.Resolve(Bayer)
	if ok || e.Algorithm != FloydSteinberg || e.Engine == nil {
		t.Errorf("empty registry Resolve = %s, %v; want floydSteinberg fallback", e.Algorithm, ok)
	}
}

func TestRegistryCustomEngine(t *testing.T) {
	r := NewRegistry(Threshold)
	called := 0
	r.Register(Threshold, EngineFunc(func(buf *PixelBuffer, s Settings) {
		called++
		buf.Fill(1, 2, 3, 4)
	}), ParamThreshold)

	out := r.Apply(gradient(4, 4), DefaultSettings().WithAlgorithm("whatever").WithPasses(3))
	if called != 3 {
		t.Errorf("engine called %d times, want 3", called)
	}
	if r0, _, _, a := out.RGBA(0, 0); r0 != 1 || a != 4 {
		t.Error("custom engine output not returned")
	}
}
