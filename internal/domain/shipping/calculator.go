package shipping

import (
	"iter"
	"math"

	"github.com/Zhima-Mochi/minishop-checkout/internal/domain/catalog"
)

const (
	baseFee  = 10.0
	feePerKg = 20.0
)

// ManifestEntry describes one shippable line for the shipment notice.
type ManifestEntry struct {
	Quantity        int
	Name            string
	UnitWeightGrams float64
}

// Shipment is the result of a fee computation over a set of cart lines.
type Shipment struct {
	Fee           float64
	Manifest      []ManifestEntry
	TotalWeightKg float64
}

// Compute filters the lines to shippable products and derives the manifest,
// the exact total weight, and the rounded fee, in line order. When nothing
// ships the fee is zero and the manifest empty.
func Compute(lines iter.Seq2[*catalog.Product, int]) Shipment {
	var s Shipment
	for p, qty := range lines {
		if !p.IsShippable() {
			continue
		}
		s.Manifest = append(s.Manifest, ManifestEntry{
			Quantity:        qty,
			Name:            p.Name(),
			UnitWeightGrams: p.WeightKg() * 1000,
		})
		s.TotalWeightKg += p.WeightKg() * float64(qty)
	}
	if len(s.Manifest) == 0 {
		return s
	}
	// Round half away from zero on the final fee only; weight sums stay exact.
	s.Fee = math.Round(baseFee + feePerKg*s.TotalWeightKg)
	return s
}
