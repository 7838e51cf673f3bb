package audit

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/TimurManjosov/volumediscount/internal/rules"
)

// ConfigState flattens a discount config for the before/after fields of an event.
// A nil config yields a nil state.
func ConfigState(cfg *rules.DiscountConfig) map[string]any {
	if cfg == nil {
		return nil
	}
	products := make([]any, len(cfg.Products))
	for i, p := range cfg.Products {
		products[i] = p
	}
	return map[string]any{
		"products":   products,
		"minQty":     cfg.MinQty,
		"percentOff": cfg.PercentOff,
	}
}

// FromRequest starts an event with the request id and client metadata filled in.
func FromRequest(r *http.Request, action, shopID string) Event {
	return Event{
		RequestID: middleware.GetReqID(r.Context()),
		Source: Source{
			IPAddress: r.RemoteAddr,
			UserAgent: r.UserAgent(),
		},
		Action: action,
		ShopID: shopID,
		Status: StatusSuccess,
	}
}

// Failed marks the event as a failure with the given message.
func (e Event) Failed(message string) Event {
	e.Status = StatusFailure
	e.ErrorMessage = &message
	return e
}
