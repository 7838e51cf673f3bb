// Package settings reads and writes a shop's volume discount configuration
// through the metafield store.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/TimurManjosov/volumediscount/internal/rules"
	"github.com/TimurManjosov/volumediscount/internal/store"
	"github.com/TimurManjosov/volumediscount/internal/telemetry"
	"github.com/TimurManjosov/volumediscount/internal/validation"
)

// Record is what Load and Save return for one shop.
type Record struct {
	ShopID    string
	Config    *rules.DiscountConfig // nil when nothing usable is stored
	Value     string                // raw stored metafield value, empty when missing
	UpdatedAt time.Time
}

// Service exposes the settings surface over a store.Store.
type Service struct {
	store  store.Store
	logger zerolog.Logger
}

// NewService creates a settings service.
func NewService(s store.Store, logger zerolog.Logger) *Service {
	return &Service{store: s, logger: logger}
}

// Load returns the shop's current configuration.
// A missing metafield yields a Record with a nil Config. A stored value that
// does not parse is logged and also yields a nil Config.
func (s *Service) Load(ctx context.Context, shopID string) (*Record, error) {
	mf, err := s.store.GetMetafield(ctx, shopID, rules.Namespace, rules.Key)
	if errors.Is(err, store.ErrNotFound) {
		return &Record{ShopID: shopID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load settings for %s: %w", shopID, err)
	}

	rec := &Record{ShopID: shopID, Value: mf.Value, UpdatedAt: mf.UpdatedAt}
	cfg, err := rules.ParseDiscountConfig(mf.Value)
	if err != nil {
		s.logger.Warn().Err(err).Str("shop_id", shopID).Msg("stored volume discount config does not parse")
		return rec, nil
	}
	rec.Config = cfg
	return rec, nil
}

// RawConfig returns the stored value as the function host would hand it over.
// It returns nil when nothing is stored.
func (s *Service) RawConfig(ctx context.Context, shopID string) ([]byte, error) {
	mf, err := s.store.GetMetafield(ctx, shopID, rules.Namespace, rules.Key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config for %s: %w", shopID, err)
	}
	return []byte(mf.Value), nil
}

// Save validates the request and overwrites the shop's configuration.
// When the request is invalid the returned ValidationResult carries field errors
// and nothing is written. The stored minQty is always rules.WriteMinQty.
func (s *Service) Save(ctx context.Context, shopID string, products []string, percentOff int) (*Record, *validation.ValidationResult, error) {
	result := validation.ValidateShopID(shopID)
	result.Merge(validation.ValidateSettings(validation.SettingsParams{
		Products:   products,
		PercentOff: percentOff,
	}))
	if !result.Valid {
		telemetry.RecordSettingsWrite(telemetry.WriteInvalid)
		return nil, result, nil
	}

	trimmed := make([]string, 0, len(products))
	for _, p := range products {
		trimmed = append(trimmed, strings.TrimSpace(p))
	}
	cfg := rules.NewDiscountConfig(trimmed, percentOff)
	if err := rules.ValidateConfig(cfg); err != nil {
		telemetry.RecordSettingsWrite(telemetry.WriteInvalid)
		return nil, nil, fmt.Errorf("save settings for %s: %w", shopID, err)
	}

	value, err := cfg.Encode()
	if err != nil {
		telemetry.RecordSettingsWrite(telemetry.WriteError)
		return nil, nil, fmt.Errorf("encode settings for %s: %w", shopID, err)
	}

	mf, err := s.store.SetMetafield(ctx, store.SetParams{
		OwnerID:   shopID,
		Namespace: rules.Namespace,
		Key:       rules.Key,
		Type:      rules.MetafieldType,
		Value:     value,
	})
	if err != nil {
		telemetry.RecordSettingsWrite(telemetry.WriteError)
		return nil, nil, fmt.Errorf("save settings for %s: %w", shopID, err)
	}

	telemetry.RecordSettingsWrite(telemetry.WriteSaved)
	s.logger.Info().
		Str("shop_id", shopID).
		Int("products", len(cfg.Products)).
		Int("percent_off", cfg.PercentOff).
		Msg("volume discount settings saved")

	return &Record{ShopID: shopID, Config: &cfg, Value: mf.Value, UpdatedAt: mf.UpdatedAt}, result, nil
}

// Delete removes the shop's configuration. Deleting a missing config is not an error.
func (s *Service) Delete(ctx context.Context, shopID string) error {
	if err := s.store.DeleteMetafield(ctx, shopID, rules.Namespace, rules.Key); err != nil {
		return fmt.Errorf("delete settings for %s: %w", shopID, err)
	}
	s.logger.Info().Str("shop_id", shopID).Msg("volume discount settings deleted")
	return nil
}
