package rules

import "encoding/json"

// Fixed coordinates of the discount configuration in the shop's metafield store.
const (
	Namespace     = "volume_discount"
	Key           = "rules"
	MetafieldType = "json"
)

// Write-time limits for a discount configuration.
const (
	MinPercentOff = 1
	MaxPercentOff = 80
	// WriteMinQty is the quantity threshold the settings surface always stores.
	WriteMinQty = 2
)

// DiscountConfig is the stored shape of the volume discount rule.
// One record exists per shop; it is overwritten as a whole on every save.
type DiscountConfig struct {
	Products   []string `json:"products" yaml:"products"`
	MinQty     int      `json:"minQty" yaml:"minQty"`
	PercentOff int      `json:"percentOff" yaml:"percentOff"`
}

// NewDiscountConfig builds the record the settings surface writes: minQty is always WriteMinQty.
func NewDiscountConfig(products []string, percentOff int) DiscountConfig {
	return DiscountConfig{
		Products:   dedupe(products),
		MinQty:     WriteMinQty,
		PercentOff: percentOff,
	}
}

// Encode returns the JSON value stored in the metafield.
func (c DiscountConfig) Encode() (string, error) {
	if c.Products == nil {
		c.Products = []string{}
	}
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseDiscountConfig decodes a stored value strictly. Callers that must never fail
// (the evaluator) use engine.DecodeConfig instead.
func ParseDiscountConfig(value string) (*DiscountConfig, error) {
	var c DiscountConfig
	if err := json.Unmarshal([]byte(value), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
