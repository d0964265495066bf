package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// BenefitMap stores a service-type to remaining-quota mapping as a JSON column.
// A key that would drop to zero is removed instead: exhausted and absent are
// the same state.
type BenefitMap map[string]int

func (m *BenefitMap) Scan(src any) error {
	if src == nil {
		*m = BenefitMap{}
		return nil
	}

	switch v := src.(type) {
	case string:
		return m.parseFromBytes([]byte(v))
	case []byte:
		return m.parseFromBytes(v)
	default:
		return fmt.Errorf("BenefitMap: unsupported Scan type %T", src)
	}
}

func (m BenefitMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(map[string]int(m))
	if err != nil {
		return nil, fmt.Errorf("BenefitMap: marshal: %w", err)
	}
	return string(raw), nil
}

func (m *BenefitMap) parseFromBytes(raw []byte) error {
	if len(raw) == 0 {
		*m = BenefitMap{}
		return nil
	}
	parsed := map[string]int{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("BenefitMap: parse: %w", err)
	}
	*m = BenefitMap(parsed)
	return nil
}

// GormDataType tells GORM to map the column to the dialect's JSON type.
func (BenefitMap) GormDataType() string {
	return "jsonb"
}

// Clone returns an independent copy. Purchases copy the product template so
// decrements on one instance never leak into the catalog row or siblings.
func (m BenefitMap) Clone() BenefitMap {
	out := make(BenefitMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Remaining returns the quota for the service type; absent keys report zero.
func (m BenefitMap) Remaining(serviceType string) int {
	return m[serviceType]
}

// Consume decrements the quota for serviceType by quantity, removing the key
// when it reaches zero. It reports false, leaving the map untouched, when the
// remaining quota is smaller than the requested quantity.
func (m BenefitMap) Consume(serviceType string, quantity int) bool {
	if quantity <= 0 {
		return false
	}
	remaining, ok := m[serviceType]
	if !ok || remaining < quantity {
		return false
	}
	if remaining == quantity {
		delete(m, serviceType)
		return true
	}
	m[serviceType] = remaining - quantity
	return true
}
