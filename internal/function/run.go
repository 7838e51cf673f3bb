// Package function is the invocation boundary of the cart lines discount function.
// It maps the host's RunInput document onto the engine types and the resulting
// plan back onto the RunResult document, field for field.
package function

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/TimurManjosov/volumediscount/internal/engine"
)

// Run evaluates one RunInput document. It never fails.
func Run(input RunInput) RunResult {
	return FromPlan(Plan(input))
}

// Plan evaluates input and returns the engine plan before it is mapped to the wire.
func Plan(input RunInput) engine.Plan {
	return engine.EvaluateRaw(ToCart(input.Cart), ConfigValue(input.Shop))
}

// RunJSON decodes a RunInput from r and writes the RunResult to w.
// When r does not hold a decodable document an empty result is still written,
// and the decode error is returned so the caller can report it.
func RunJSON(r io.Reader, w io.Writer) error {
	var input RunInput
	decodeErr := json.NewDecoder(r).Decode(&input)
	result := EmptyResult()
	if decodeErr == nil {
		result = Run(input)
	}

	if err := json.NewEncoder(w).Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if decodeErr != nil {
		return fmt.Errorf("decode input: %w", decodeErr)
	}
	return nil
}

// EmptyResult is the result that applies no discount.
func EmptyResult() RunResult {
	return RunResult{Operations: []Operation{}}
}

// ConfigValue extracts the raw stored config from the shop, preferring jsonValue.
// It returns nil when the shop has no metafield.
func ConfigValue(shop *Shop) []byte {
	if shop == nil || shop.Metafield == nil {
		return nil
	}
	mf := shop.Metafield
	if raw := bytes.TrimSpace(mf.JSONValue); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		return raw
	}
	if mf.Value != nil {
		return []byte(*mf.Value)
	}
	return nil
}

// ToCart converts the input cart into engine lines, preserving order.
func ToCart(c Cart) engine.Cart {
	lines := make([]engine.CartLine, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, engine.CartLine{
			ID:          engine.LineID(l.ID),
			Merchandise: toMerchandise(l.Merchandise),
			Quantity:    l.Quantity,
		})
	}
	return engine.Cart{Lines: lines}
}

func toMerchandise(m Merchandise) engine.Merchandise {
	if m.Typename != TypeNameProductVariant {
		return engine.OtherMerchandise{TypeName: m.Typename}
	}
	v := engine.ProductVariant{ID: m.ID}
	if m.Product != nil {
		v.ProductID = engine.ProductID(m.Product.ID)
	}
	return v
}

// FromPlan converts an engine plan into the output document.
func FromPlan(p engine.Plan) RunResult {
	result := EmptyResult()
	for _, op := range p.Operations {
		switch o := op.(type) {
		case engine.ProductDiscountsAdd:
			result.Operations = append(result.Operations, Operation{
				ProductDiscountsAdd: fromProductDiscountsAdd(o),
			})
		}
	}
	return result
}

func fromProductDiscountsAdd(o engine.ProductDiscountsAdd) *ProductDiscountsAddOperation {
	out := &ProductDiscountsAddOperation{
		SelectionStrategy: string(o.SelectionStrategy),
		Candidates:        make([]ProductDiscountCandidate, 0, len(o.Candidates)),
	}
	for _, c := range o.Candidates {
		targets := make([]ProductDiscountTarget, 0, len(c.Targets))
		for _, id := range c.Targets {
			targets = append(targets, ProductDiscountTarget{CartLine: CartLineTarget{ID: string(id)}})
		}
		out.Candidates = append(out.Candidates, ProductDiscountCandidate{
			Message: c.Message,
			Targets: targets,
			Value:   ProductDiscountValue{Percentage: Percentage{Value: c.Percentage}},
		})
	}
	return out
}
