// internal/domain/entity/carrier.go
package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// RawContainer is one container lookup element of the carrier response
// "list" array, kept as-is so required-key checks can distinguish a
// missing key from an empty value.
type RawContainer map[string]any

// RawScheduleEvent is one schedule timeline element of the carrier
// response "list" array.
type RawScheduleEvent map[string]any

// RawShipment bundles the two raw payloads of one extraction together
// with the query that produced them.
type RawShipment struct {
	Container RawContainer
	Events    []RawScheduleEvent
	Query     ShipmentQuery
}

// Has reports whether every key is present in the raw container payload.
func (c RawContainer) Has(keys ...string) bool {
	return hasKeys(c, keys)
}

// Field returns the string value of a raw container field.
func (c RawContainer) Field(key string) string {
	return stringField(c, key)
}

// Has reports whether every key is present in the raw event payload.
func (e RawScheduleEvent) Has(keys ...string) bool {
	return hasKeys(e, keys)
}

// Field returns the string value of a raw event field.
func (e RawScheduleEvent) Field(key string) string {
	return stringField(e, key)
}

// Int returns the integer value of a raw event field. The carrier sends
// the sequence number as a string on some endpoints and as a number on
// others.
func (e RawScheduleEvent) Int(key string) int {
	switch v := e[key].(type) {
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		return n
	default:
		return 0
	}
}

func hasKeys(m map[string]any, keys []string) bool {
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
