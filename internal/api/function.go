package api

import (
	"net/http"

	"github.com/TimurManjosov/volumediscount/internal/engine"
	"github.com/TimurManjosov/volumediscount/internal/function"
	"github.com/TimurManjosov/volumediscount/internal/telemetry"
)

// evaluateShopRequest is the body of POST /v1/shops/{shopID}/evaluate.
type evaluateShopRequest struct {
	Cart function.Cart `json:"cart"`
}

// handleRun handles POST /v1/functions/cart-lines-discounts-generate/run.
// The body is a complete RunInput; the store is not consulted.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var input function.RunInput
	if !decodeJSON(w, r, &input) {
		return
	}
	s.respondPlan(w, function.Plan(input))
}

// handleEvaluateShop handles POST /v1/shops/{shopID}/evaluate.
// It reads the shop's stored config and hands it to the function the way the host does.
func (s *Server) handleEvaluateShop(w http.ResponseWriter, r *http.Request) {
	shopID, ok := shopIDParam(w, r)
	if !ok {
		return
	}

	var req evaluateShopRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	raw, err := s.settings.RawConfig(r.Context(), shopID)
	if err != nil {
		s.logger.Error().Err(err).Str("shop_id", shopID).Msg("read config failed")
		InternalError(w, r, "Failed to read discount config")
		return
	}

	input := function.RunInput{Shop: &function.Shop{}, Cart: req.Cart}
	if raw != nil {
		value := string(raw)
		input.Shop.Metafield = &function.Metafield{Value: &value}
	}

	plan := function.Plan(input)
	s.logger.Debug().
		Str("shop_id", shopID).
		Int("lines", len(req.Cart.Lines)).
		Int("candidates", plan.CandidateCount()).
		Msg("cart evaluated")
	s.respondPlan(w, plan)
}

func (s *Server) respondPlan(w http.ResponseWriter, plan engine.Plan) {
	telemetry.RecordEvaluation(plan)
	writeJSON(w, http.StatusOK, function.FromPlan(plan))
}
