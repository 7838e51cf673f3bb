package api

import (
	"net/http"
	"strconv"

	"github.com/TimurManjosov/volumediscount/internal/audit"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
	// auditScanWindow bounds how many recent events are filtered per request.
	auditScanWindow = 2000
)

type auditResponse struct {
	ShopID string        `json:"shopId"`
	Events []audit.Event `json:"events"`
}

// handleGetAudit handles GET /v1/shops/{shopID}/volume-discount/audit
func (s *Server) handleGetAudit(w http.ResponseWriter, r *http.Request) {
	shopID, ok := shopIDParam(w, r)
	if !ok {
		return
	}
	if s.auditReader == nil {
		NotFoundError(w, r, "audit trail is not readable with the configured sink")
		return
	}

	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxAuditLimit {
			ValidationError(w, r, "Validation failed", map[string]string{
				"limit": "Limit must be a whole number between 1 and 500",
			})
			return
		}
		limit = n
	}

	recent, err := s.auditReader.Recent(r.Context(), auditScanWindow)
	if err != nil {
		s.logger.Error().Err(err).Str("shop_id", shopID).Msg("read audit trail failed")
		InternalError(w, r, "Failed to read audit trail")
		return
	}

	events := make([]audit.Event, 0, limit)
	for _, ev := range recent {
		if ev.ShopID != shopID {
			continue
		}
		events = append(events, ev)
		if len(events) == limit {
			break
		}
	}
	writeJSON(w, http.StatusOK, auditResponse{ShopID: shopID, Events: events})
}
