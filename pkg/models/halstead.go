package models

import "math"

// HalsteadStatistics represents Halstead software science metrics for one file.
type HalsteadStatistics struct {
	OperatorsUnique int     `json:"operators_unique"` // n1: distinct operators
	OperandsUnique  int     `json:"operands_unique"`  // n2: distinct operands
	OperatorsTotal  int     `json:"operators_total"`  // N1: total operators
	OperandsTotal   int     `json:"operands_total"`   // N2: total operands
	Vocabulary      int     `json:"vocabulary"`       // n = n1 + n2
	Length          int     `json:"length"`           // N = N1 + N2
	Volume          float64 `json:"volume"`           // V = N * log2(n)
	Difficulty      float64 `json:"difficulty"`       // D = (n1/2) * (N2/n2)
	Effort          float64 `json:"effort"`           // E = D * V
}

// NewHalsteadStatistics creates statistics from base counts and calculates derived values.
func NewHalsteadStatistics(operatorsUnique, operandsUnique, operatorsTotal, operandsTotal int) HalsteadStatistics {
	h := HalsteadStatistics{
		OperatorsUnique: operatorsUnique,
		OperandsUnique:  operandsUnique,
		OperatorsTotal:  operatorsTotal,
		OperandsTotal:   operandsTotal,
	}
	h.calculateDerived()
	return h
}

// calculateDerived computes volume, difficulty and effort from base counts.
func (h *HalsteadStatistics) calculateDerived() {
	h.Vocabulary = h.OperatorsUnique + h.OperandsUnique
	h.Length = h.OperatorsTotal + h.OperandsTotal

	if h.Vocabulary == 0 {
		return
	}

	// V = N * log2(n)
	h.Volume = float64(h.Length) * math.Log2(float64(h.Vocabulary))

	// D = (n1/2) * (N2/n2)
	if h.OperandsUnique > 0 {
		h.Difficulty = (float64(h.OperatorsUnique) / 2.0) *
			(float64(h.OperandsTotal) / float64(h.OperandsUnique))
	}

	// E = D * V
	h.Effort = h.Difficulty * h.Volume
}
