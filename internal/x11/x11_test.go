package x11

import "testing"

func TestMotifEffectiveBits(t *testing.T) {
	tests := []struct {
		name      string
		hints     MotifHints
		wantFuncs uint
		wantDecor uint
	}{
		{
			name:      "no flags means everything",
			hints:     MotifHints{},
			wantFuncs: motifFuncMask,
			wantDecor: motifDecorMask,
		},
		{
			name:      "explicit decorations",
			hints:     MotifHints{Flags: MotifHintDecorations, Decorations: MotifDecorBorder | MotifDecorTitle},
			wantFuncs: motifFuncMask,
			wantDecor: MotifDecorBorder | MotifDecorTitle,
		},
		{
			name:      "all minus resize",
			hints:     MotifHints{Flags: MotifHintFunctions, Functions: MotifFuncAll | MotifFuncResize},
			wantFuncs: motifFuncMask &^ MotifFuncResize,
			wantDecor: motifDecorMask,
		},
		{
			name:      "zero decorations",
			hints:     MotifHints{Flags: MotifHintDecorations},
			wantFuncs: motifFuncMask,
			wantDecor: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.hints.EffectiveFunctions(); got != tt.wantFuncs {
				t.Errorf("EffectiveFunctions() = %b, want %b", got, tt.wantFuncs)
			}
			if got := tt.hints.EffectiveDecorations(); got != tt.wantDecor {
				t.Errorf("EffectiveDecorations() = %b, want %b", got, tt.wantDecor)
			}
		})
	}
}

func TestIsMaximizedState(t *testing.T) {
	if isMaximizedState([]string{stateMaxHorz}) {
		t.Fatal("horizontal only is not maximized")
	}
	if !isMaximizedState([]string{stateAbove, stateMaxVert, stateMaxHorz}) {
		t.Fatal("expected maximized")
	}
}

func TestMonitorContains(t *testing.T) {
	m := Monitor{X: 1920, Y: 0, Width: 1280, Height: 1024}
	if !m.Contains(1920, 0) {
		t.Fatal("origin should be inside")
	}
	if m.Contains(3200, 10) {
		t.Fatal("right edge is exclusive")
	}
}

func TestPrimaryIndex(t *testing.T) {
	if i := primaryIndex([]Monitor{{ID: 0}, {ID: 1, Primary: true}}); i != 1 {
		t.Fatalf("primaryIndex = %d, want 1", i)
	}
	if i := primaryIndex([]Monitor{{ID: 0}}); i != -1 {
		t.Fatalf("primaryIndex = %d, want -1", i)
	}
}
