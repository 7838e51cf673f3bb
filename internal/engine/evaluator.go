package engine

import (
	"strconv"
)

// Evaluate computes the discount plan for a cart under cfg.
// It is pure and never fails; an inactive config or a cart with no qualifying
// lines yields an empty plan.
func Evaluate(cart Cart, cfg Config) Plan {
	if !cfg.Active() {
		return Plan{Operations: []Operation{}}
	}

	minQty := cfg.MinQty
	if minQty < 1 {
		minQty = DefaultMinQty
	}
	message := discountMessage(minQty, cfg.PercentOff)

	var candidates []Candidate
	for _, line := range cart.Lines {
		productID, ok := productOf(line.Merchandise)
		if !ok || productID == "" {
			continue
		}
		if !cfg.Contains(productID) || line.Quantity < minQty {
			continue
		}
		candidates = append(candidates, Candidate{
			Message:    message,
			Targets:    []LineID{line.ID},
			Percentage: cfg.PercentOff,
		})
	}

	if len(candidates) == 0 {
		return Plan{Operations: []Operation{}}
	}

	return Plan{Operations: []Operation{
		ProductDiscountsAdd{
			SelectionStrategy: SelectionAll,
			Candidates:        candidates,
		},
	}}
}

// EvaluateRaw decodes a stored config value and evaluates cart against it.
func EvaluateRaw(cart Cart, raw []byte) Plan {
	return Evaluate(cart, DecodeConfig(raw))
}

func productOf(m Merchandise) (ProductID, bool) {
	switch v := m.(type) {
	case ProductVariant:
		return v.ProductID, true
	case *ProductVariant:
		if v == nil {
			return "", false
		}
		return v.ProductID, true
	case OtherMerchandise, *OtherMerchandise, nil:
		return "", false
	default:
		return "", false
	}
}

func discountMessage(minQty int, percentOff float64) string {
	return "Buy " + strconv.Itoa(minQty) + ", get " + formatPercent(percentOff) + "% off"
}

// formatPercent renders the shortest decimal form, so 15 prints as "15" and 12.5 as "12.5".
func formatPercent(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
