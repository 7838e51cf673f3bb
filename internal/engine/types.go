package engine

// ProductID is an opaque global identifier for a catalog product.
type ProductID string

// LineID is an opaque identifier for one cart line, unique within a cart.
type LineID string

// SelectionStrategy tells the host how to choose among candidates.
type SelectionStrategy string

const (
	// SelectionAll applies every listed candidate.
	SelectionAll SelectionStrategy = "ALL"

	// DefaultMinQty is the read-time fallback when the stored config has no usable minQty.
	DefaultMinQty = 2
)

// Merchandise is the purchasable entity behind a cart line.
// The set of implementations is closed: ProductVariant and OtherMerchandise.
type Merchandise interface {
	isMerchandise()
}

// ProductVariant is a tracked catalog variant; only these lines carry a product id.
type ProductVariant struct {
	ID        string
	ProductID ProductID
}

// OtherMerchandise is any merchandise kind that is not a product variant.
type OtherMerchandise struct {
	TypeName string
}

func (ProductVariant) isMerchandise()   {}
func (OtherMerchandise) isMerchandise() {}

// CartLine is one line of the cart as supplied by the host.
type CartLine struct {
	ID          LineID
	Merchandise Merchandise
	Quantity    int
}

// Cart is the ordered sequence of lines for one pricing pass.
type Cart struct {
	Lines []CartLine
}

// Candidate is a discount proposal for a single qualifying line.
type Candidate struct {
	Message    string
	Targets    []LineID
	Percentage float64
}

// Operation is one entry of a Plan. ProductDiscountsAdd is the only variant.
type Operation interface {
	isOperation()
}

// ProductDiscountsAdd adds the listed product discount candidates.
type ProductDiscountsAdd struct {
	SelectionStrategy SelectionStrategy
	Candidates        []Candidate
}

func (ProductDiscountsAdd) isOperation() {}

// Plan is the deterministic output of Evaluate. No operations means no discount applies.
type Plan struct {
	Operations []Operation
}

// Empty reports whether the plan applies no discount.
func (p Plan) Empty() bool {
	return len(p.Operations) == 0
}

// CandidateCount returns the total number of candidates across all operations.
func (p Plan) CandidateCount() int {
	n := 0
	for _, op := range p.Operations {
		switch o := op.(type) {
		case ProductDiscountsAdd:
			n += len(o.Candidates)
		}
	}
	return n
}
