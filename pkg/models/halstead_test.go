package models

import (
	"math"
	"testing"
)

func TestNewHalsteadStatistics(t *testing.T) {
	tests := []struct {
		name     string
		n1       int // distinct operators
		n2       int // distinct operands
		N1       int // total operators
		N2       int // total operands
		wantVoc  int
		wantLen  int
		wantVol  bool
		wantDiff bool
	}{
		{
			name:     "Basic metrics",
			n1:       5,
			n2:       10,
			N1:       20,
			N2:       40,
			wantVoc:  15,
			wantLen:  60,
			wantVol:  true,
			wantDiff: true,
		},
		{
			name:     "Zero operators",
			n1:       0,
			n2:       10,
			N1:       0,
			N2:       20,
			wantVoc:  10,
			wantLen:  20,
			wantVol:  true,
			wantDiff: false,
		},
		{
			name:     "Zero operands",
			n1:       5,
			n2:       0,
			N1:       10,
			N2:       0,
			wantVoc:  5,
			wantLen:  10,
			wantVol:  true,
			wantDiff: false,
		},
		{
			name:     "Empty",
			wantVoc:  0,
			wantLen:  0,
			wantVol:  false,
			wantDiff: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHalsteadStatistics(tt.n1, tt.n2, tt.N1, tt.N2)

			if h.Vocabulary != tt.wantVoc {
				t.Errorf("Vocabulary = %d, want %d", h.Vocabulary, tt.wantVoc)
			}
			if h.Length != tt.wantLen {
				t.Errorf("Length = %d, want %d", h.Length, tt.wantLen)
			}
			if (h.Volume > 0) != tt.wantVol {
				t.Errorf("Volume = %f, want positive=%v", h.Volume, tt.wantVol)
			}
			if (h.Difficulty > 0) != tt.wantDiff {
				t.Errorf("Difficulty = %f, want positive=%v", h.Difficulty, tt.wantDiff)
			}
		})
	}
}

func TestHalsteadStatistics_Formulas(t *testing.T) {
	h := NewHalsteadStatistics(4, 8, 16, 32)

	// V = 48 * log2(12)
	expectedVol := 48 * math.Log2(12)
	if diff := math.Abs(h.Volume - expectedVol); diff > 0.001 {
		t.Errorf("Volume = %f, want %f", h.Volume, expectedVol)
	}

	// D = (4/2) * (32/8) = 8
	if diff := math.Abs(h.Difficulty - 8); diff > 0.001 {
		t.Errorf("Difficulty = %f, want 8", h.Difficulty)
	}

	if diff := math.Abs(h.Effort - 8*expectedVol); diff > 0.001 {
		t.Errorf("Effort = %f, want %f", h.Effort, 8*expectedVol)
	}
}

func TestHalsteadStatistics_SingleTokenHasZeroVolume(t *testing.T) {
	// log2(1) == 0, so a one-word vocabulary has no volume even with occurrences.
	h := NewHalsteadStatistics(1, 0, 3, 0)
	if h.Volume != 0 {
		t.Errorf("Volume = %f, want 0", h.Volume)
	}
}
