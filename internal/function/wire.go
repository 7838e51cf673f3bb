package function

import "encoding/json"

// TypeNameProductVariant is the merchandise typename that carries a product.
const TypeNameProductVariant = "ProductVariant"

// RunInput is the document the host passes to the cart lines discount function.
type RunInput struct {
	Shop *Shop `json:"shop,omitempty"`
	Cart Cart  `json:"cart"`
}

// Shop carries the shop-level metafield holding the discount configuration.
type Shop struct {
	Metafield *Metafield `json:"metafield,omitempty"`
}

// Metafield is the store value as seen by the function. JSONValue is the decoded
// json metafield; Value is its raw string form and is used when JSONValue is absent.
type Metafield struct {
	JSONValue json.RawMessage `json:"jsonValue,omitempty"`
	Value     *string         `json:"value,omitempty"`
}

// Cart is the input cart.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// CartLine is one input cart line.
type CartLine struct {
	ID          string      `json:"id"`
	Quantity    int         `json:"quantity"`
	Merchandise Merchandise `json:"merchandise"`
}

// Merchandise is the tagged merchandise union; Typename selects the variant.
type Merchandise struct {
	Typename string   `json:"__typename"`
	ID       string   `json:"id,omitempty"`
	Product  *Product `json:"product,omitempty"`
}

// Product identifies the catalog product behind a variant.
type Product struct {
	ID string `json:"id"`
}

// RunResult is the document returned to the host.
type RunResult struct {
	Operations []Operation `json:"operations"`
}

// Operation is a single output operation; exactly one field is set.
type Operation struct {
	ProductDiscountsAdd *ProductDiscountsAddOperation `json:"productDiscountsAdd,omitempty"`
}

// ProductDiscountsAddOperation adds product discount candidates.
type ProductDiscountsAddOperation struct {
	SelectionStrategy string                     `json:"selectionStrategy"`
	Candidates        []ProductDiscountCandidate `json:"candidates"`
}

// ProductDiscountCandidate is one discount proposal.
type ProductDiscountCandidate struct {
	Message string                  `json:"message"`
	Targets []ProductDiscountTarget `json:"targets"`
	Value   ProductDiscountValue    `json:"value"`
}

// ProductDiscountTarget points at a cart line.
type ProductDiscountTarget struct {
	CartLine CartLineTarget `json:"cartLine"`
}

// CartLineTarget identifies the targeted cart line.
type CartLineTarget struct {
	ID string `json:"id"`
}

// ProductDiscountValue holds the discount value; only percentages are produced.
type ProductDiscountValue struct {
	Percentage Percentage `json:"percentage"`
}

// Percentage is a percentage discount value.
type Percentage struct {
	Value float64 `json:"value"`
}
