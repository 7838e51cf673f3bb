package engine

import (
	"bytes"
	"encoding/json"
	"math"
)

// maxPercentOff bounds what the evaluator will emit. Stored values above the
// write-time limit of 80 but within 100 are tolerated as-is.
const maxPercentOff = 100

// Config is the validated evaluator view of a stored discount configuration.
// The zero value is inactive.
type Config struct {
	Products   map[ProductID]struct{}
	MinQty     int
	PercentOff float64
}

// NewConfig builds a Config from typed values, applying the same defaulting as DecodeConfig.
func NewConfig(products []string, minQty int, percentOff float64) Config {
	cfg := Config{
		Products:   make(map[ProductID]struct{}, len(products)),
		MinQty:     minQty,
		PercentOff: percentOff,
	}
	for _, p := range products {
		if p == "" {
			continue
		}
		cfg.Products[ProductID(p)] = struct{}{}
	}
	if cfg.MinQty < 1 {
		cfg.MinQty = DefaultMinQty
	}
	if !validPercent(cfg.PercentOff) {
		cfg.PercentOff = 0
	}
	return cfg
}

// Active reports whether the config describes a rule that can produce discounts.
func (c Config) Active() bool {
	return len(c.Products) > 0 && validPercent(c.PercentOff)
}

// Contains reports whether id is one of the configured products.
func (c Config) Contains(id ProductID) bool {
	_, ok := c.Products[id]
	return ok
}

// DecodeConfig turns an untyped stored value into a Config.
// It never fails: absent, unparsable or wrongly shaped input yields an inactive Config,
// and invalid numeric fields fall back to their defaults.
func DecodeConfig(raw []byte) Config {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Config{}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil || doc == nil {
		return Config{}
	}

	cfg := Config{
		Products:   decodeProducts(doc["products"]),
		MinQty:     decodeMinQty(doc["minQty"]),
		PercentOff: decodePercentOff(doc["percentOff"]),
	}
	if !cfg.Active() {
		return Config{}
	}
	return cfg
}

func decodeProducts(v any) map[ProductID]struct{} {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make(map[ProductID]struct{}, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok || s == "" {
			continue
		}
		out[ProductID(s)] = struct{}{}
	}
	return out
}

func decodeMinQty(v any) int {
	f, ok := number(v)
	if !ok || f < 1 || f != math.Trunc(f) {
		return DefaultMinQty
	}
	// an oversized threshold still means no line qualifies
	if f >= float64(math.MaxInt) {
		return math.MaxInt
	}
	return int(f)
}

func decodePercentOff(v any) float64 {
	f, ok := number(v)
	if !ok || !validPercent(f) {
		return 0
	}
	return f
}

func number(v any) (float64, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func validPercent(f float64) bool {
	return f > 0 && f <= maxPercentOff
}
