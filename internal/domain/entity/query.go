// internal/domain/entity/query.go
package entity

import (
	"fmt"
	"strings"
	"unicode"
)

// ShipmentQuery identifies a shipment to track. Exactly one of BkgNo or
// CntrNo is set. RefID and RequestedETA default to the "-" sentinel when
// the caller leaves them blank.
type ShipmentQuery struct {
	BkgNo        string
	CntrNo       string
	Line         string
	User         string
	RefID        string
	RequestedETA string
}

// Identity returns the identifying number of the query, booking number
// first.
func (q ShipmentQuery) Identity() string {
	if q.BkgNo != "" {
		return q.BkgNo
	}
	return q.CntrNo
}

// ParseShipmentQuery validates raw tracking input and builds a query.
// A 12-character value with a 4-letter prefix is a booking number, an
// 11-character value is a container number; everything else is rejected.
func ParseShipmentQuery(input, line, user, refID, requestedETA string) (*ShipmentQuery, error) {
	number := strings.ToUpper(strings.TrimSpace(input))
	q := &ShipmentQuery{
		Line:         line,
		User:         user,
		RefID:        refID,
		RequestedETA: requestedETA,
	}
	if q.RefID == "" {
		q.RefID = "-"
	}
	if q.RequestedETA == "" {
		q.RequestedETA = "-"
	}

	switch {
	case len(number) == 12 && lettersOnly(number[:4]):
		q.BkgNo = number
	case len(number) == 11:
		q.CntrNo = number
	default:
		return nil, fmt.Errorf("incorrect booking or container number %q", input)
	}
	return q, nil
}

func lettersOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
