// Package validation provides validation rules for settings requests and request parameters.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	// MinPercentOff is the smallest percentage the settings surface accepts
	MinPercentOff = 1
	// MaxPercentOff is the largest percentage the settings surface accepts
	MaxPercentOff = 80
	// MaxProducts is the maximum number of products one rule may name
	MaxProducts = 250
	// MaxShopIDLength is the maximum length for shop identifiers
	MaxShopIDLength = 255
)

// Field error messages surfaced to the admin UI.
const (
	MsgNoProducts      = "Please select at least one product"
	MsgTooManyProducts = "At most 250 products can be selected"
	MsgEmptyProduct    = "Product ids must not be empty"
	MsgPercentOffRange = "Percent off must be between 1 and 80"
	MsgShopIDRequired  = "Shop id is required"
	MsgShopIDTooLong   = "Shop id must not exceed 255 characters"
)

// ValidationResult holds the result of validation
type ValidationResult struct {
	Valid  bool
	Errors map[string]string
}

// NewValidationResult creates a new validation result
func NewValidationResult() *ValidationResult {
	return &ValidationResult{
		Valid:  true,
		Errors: make(map[string]string),
	}
}

// AddError adds a field error and marks the result as invalid.
// The first message recorded for a field wins.
func (v *ValidationResult) AddError(field, message string) {
	v.Valid = false
	if _, exists := v.Errors[field]; !exists {
		v.Errors[field] = message
	}
}

// Merge combines another validation result into this one
func (v *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	for field, message := range other.Errors {
		v.AddError(field, message)
	}
}

// SettingsParams contains the parameters for validating a settings write
type SettingsParams struct {
	Products   []string `json:"products" validate:"min=1,max=250,dive,required"`
	PercentOff int      `json:"percentOff" validate:"min=1,max=80"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ValidateSettings validates a settings write and returns a validation result.
// Product ids are trimmed before the emptiness check.
func ValidateSettings(params SettingsParams) *ValidationResult {
	result := NewValidationResult()

	trimmed := make([]string, len(params.Products))
	for i, p := range params.Products {
		trimmed[i] = strings.TrimSpace(p)
	}
	params.Products = trimmed

	err := structValidator().Struct(params)
	if err == nil {
		return result
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		result.AddError("settings", err.Error())
		return result
	}

	for _, fe := range fieldErrs {
		field := fe.Field()
		switch {
		case field == "products" && fe.Tag() == "max":
			result.AddError("products", MsgTooManyProducts)
		case field == "products":
			result.AddError("products", MsgNoProducts)
		case strings.HasPrefix(field, "products["):
			result.AddError("products", MsgEmptyProduct)
		case field == "percentOff":
			result.AddError("percentOff", MsgPercentOffRange)
		default:
			result.AddError(field, fe.Error())
		}
	}
	return result
}

// ValidateShopID validates a shop identifier from a URL or command argument
func ValidateShopID(shopID string) *ValidationResult {
	result := NewValidationResult()
	shopID = strings.TrimSpace(shopID)

	if shopID == "" {
		result.AddError("shopId", MsgShopIDRequired)
		return result
	}

	if utf8.RuneCountInString(shopID) > MaxShopIDLength {
		result.AddError("shopId", MsgShopIDTooLong)
	}

	return result
}
