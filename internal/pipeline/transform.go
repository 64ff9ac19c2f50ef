package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Aksh2758/subzap-ai-agent/internal/domain"
)

// transformRecords maps decoded model output into candidate transactions.
// Records the model got structurally wrong (missing required fields, bad
// date, non-positive amount) are skipped with a warning; one bad record must
// not sink the rest of the page.
func transformRecords(items []map[string]interface{}, log zerolog.Logger) []*domain.Transaction {
	result := make([]*domain.Transaction, 0, len(items))

	for i, obj := range items {
		tx, err := transformRecord(obj)
		if err != nil {
			log.Warn().Err(err).Int("record", i).Msg("skipping malformed record")
			continue
		}
		result = append(result, tx)
	}

	return result
}

func transformRecord(obj map[string]interface{}) (*domain.Transaction, error) {
	// Required fields
	dateStr, err := getStringField(obj, "date", true)
	if err != nil {
		return nil, err
	}
	merchant, err := getStringField(obj, "merchant_name", true)
	if err != nil {
		return nil, err
	}
	amount, err := getFloat64Field(obj, "amount", true)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, fmt.Errorf("amount %v is not a positive spend", amount)
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", dateStr, err)
	}

	// Optional fields with fixed defaults
	rawDesc, err := getStringField(obj, "raw_description", false)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(rawDesc) == "" {
		rawDesc = merchant
	}

	mode, err := getStringField(obj, "payment_mode", false)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(mode) == "" {
		mode = domain.PaymentUnknown
	}

	category, err := getStringField(obj, "category", false)
	if err != nil {
		return nil, err
	}

	return &domain.Transaction{
		Date:           date,
		MerchantName:   merchant,
		RawDescription: rawDesc,
		PaymentMode:    mode,
		Amount:         amount,
		Category:       category,
	}, nil
}

func getStringField(m map[string]interface{}, key string, required bool) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		if required {
			return "", fmt.Errorf("missing required field %q", key)
		}
		return "", nil
	}
	switch val := v.(type) {
	case string:
		if required && strings.TrimSpace(val) == "" {
			return "", fmt.Errorf("required field %q is empty", key)
		}
		return val, nil
	default:
		return "", fmt.Errorf("field %q has type %T, want string", key, v)
	}
}

func getFloat64Field(m map[string]interface{}, key string, required bool) (float64, error) {
	v, ok := m[key]
	if !ok || v == nil {
		if required {
			return 0, fmt.Errorf("missing required field %q", key)
		}
		return 0, nil
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case int: // unlikely from encoding/json, but harmless to support
		return float64(val), nil
	default:
		return 0, fmt.Errorf("field %q has type %T, want number", key, v)
	}
}
