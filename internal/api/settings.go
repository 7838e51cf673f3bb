package api

import (
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/TimurManjosov/volumediscount/internal/audit"
	"github.com/TimurManjosov/volumediscount/internal/rules"
	"github.com/TimurManjosov/volumediscount/internal/validation"
)

type settingsResponse struct {
	ShopID string                `json:"shopId"`
	Config *rules.DiscountConfig `json:"config"`
}

type saveSettingsRequest struct {
	Products   []string `json:"products"`
	PercentOff float64  `json:"percentOff"`
}

type saveSettingsResponse struct {
	OK     bool                  `json:"ok"`
	Config *rules.DiscountConfig `json:"config"`
}

// shopIDParam reads and validates the {shopID} path parameter.
func shopIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	// chi matches on the raw path, so encoded gids arrive escaped
	shopID, err := url.PathUnescape(chi.URLParam(r, "shopID"))
	if err != nil {
		BadRequestError(w, r, ErrCodeInvalidShopID, "Shop id is not a valid path segment")
		return "", false
	}
	shopID = strings.TrimSpace(shopID)
	if result := validation.ValidateShopID(shopID); !result.Valid {
		errResp := NewErrorResponse(http.StatusBadRequest, ErrCodeInvalidShopID, "Invalid shop id").
			WithFields(result.Errors)
		writeErrorResponse(w, r, http.StatusBadRequest, errResp)
		return "", false
	}
	return shopID, true
}

// handleGetSettings handles GET /v1/shops/{shopID}/volume-discount
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	shopID, ok := shopIDParam(w, r)
	if !ok {
		return
	}

	rec, err := s.settings.Load(r.Context(), shopID)
	if err != nil {
		s.logger.Error().Err(err).Str("shop_id", shopID).Msg("load settings failed")
		InternalError(w, r, "Failed to load settings")
		return
	}

	etag := etagFor(rec.Value)
	w.Header().Set("ETag", etag)
	if inm := r.Header.Get("If-None-Match"); inm != "" && etagMatches(inm, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse{ShopID: shopID, Config: rec.Config})
}

// handlePutSettings handles PUT /v1/shops/{shopID}/volume-discount
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	shopID, ok := shopIDParam(w, r)
	if !ok {
		return
	}

	var req saveSettingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.PercentOff != math.Trunc(req.PercentOff) {
		s.audit.Log(audit.FromRequest(r, audit.ActionRejected, shopID).Failed("Validation failed"))
		ValidationError(w, r, "Validation failed", map[string]string{
			"percentOff": "Percent off must be a whole number",
		})
		return
	}

	before := s.currentState(r, shopID)
	rec, result, err := s.settings.Save(r.Context(), shopID, req.Products, int(req.PercentOff))
	if err != nil {
		s.logger.Error().Err(err).Str("shop_id", shopID).Msg("save settings failed")
		s.audit.Log(audit.FromRequest(r, audit.ActionUpdated, shopID).Failed(err.Error()))
		InternalError(w, r, "Failed to save settings")
		return
	}
	if !result.Valid {
		s.audit.Log(audit.FromRequest(r, audit.ActionRejected, shopID).Failed("Validation failed"))
		ValidationError(w, r, "Validation failed", result.Errors)
		return
	}

	ev := audit.FromRequest(r, audit.ActionUpdated, shopID)
	ev.BeforeState = before
	ev.AfterState = audit.ConfigState(rec.Config)
	s.audit.Log(ev)

	w.Header().Set("ETag", etagFor(rec.Value))
	writeJSON(w, http.StatusOK, saveSettingsResponse{OK: true, Config: rec.Config})
}

// handleDeleteSettings handles DELETE /v1/shops/{shopID}/volume-discount
func (s *Server) handleDeleteSettings(w http.ResponseWriter, r *http.Request) {
	shopID, ok := shopIDParam(w, r)
	if !ok {
		return
	}

	before := s.currentState(r, shopID)
	if err := s.settings.Delete(r.Context(), shopID); err != nil {
		s.logger.Error().Err(err).Str("shop_id", shopID).Msg("delete settings failed")
		s.audit.Log(audit.FromRequest(r, audit.ActionDeleted, shopID).Failed(err.Error()))
		InternalError(w, r, "Failed to delete settings")
		return
	}

	ev := audit.FromRequest(r, audit.ActionDeleted, shopID)
	ev.BeforeState = before
	s.audit.Log(ev)
	w.WriteHeader(http.StatusNoContent)
}

// currentState snapshots the stored config for the audit trail. Nothing is read when auditing is off.
func (s *Server) currentState(r *http.Request, shopID string) map[string]any {
	if s.audit == nil {
		return nil
	}
	rec, err := s.settings.Load(r.Context(), shopID)
	if err != nil {
		return nil
	}
	return audit.ConfigState(rec.Config)
}
