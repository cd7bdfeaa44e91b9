package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// CapabilityList is a user's capability set, stored as a JSON array. Scanning
// tolerates legacy rows holding a single name or a comma-separated list.
type CapabilityList []string

// Has reports whether the list contains the capability.
func (l CapabilityList) Has(capability string) bool {
	for _, c := range l {
		if c == capability {
			return true
		}
	}
	return false
}

// With returns the list extended by capability; already-held capabilities are
// not duplicated.
func (l CapabilityList) With(capability string) CapabilityList {
	if l.Has(capability) {
		return l
	}
	return append(l, capability)
}

func (l CapabilityList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *CapabilityList) Scan(value interface{}) error {
	if l == nil {
		return fmt.Errorf("models.CapabilityList: Scan on nil pointer")
	}
	if value == nil {
		*l = CapabilityList{}
		return nil
	}

	var raw string
	switch v := value.(type) {
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("models.CapabilityList: unsupported Scan type %T", value)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		*l = CapabilityList{}
		return nil
	}

	var arr []string
	if err := json.Unmarshal([]byte(raw), &arr); err == nil {
		*l = arr
		return nil
	}
	var single string
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		raw = single
	}

	// legacy rows: plain or comma-separated capability names
	list := CapabilityList{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	*l = list
	return nil
}
