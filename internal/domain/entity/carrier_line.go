// internal/domain/entity/carrier_line.go
package entity

import "time"

// CarrierLine is one shipping line of the carrier reference table,
// mapping the short code used in tracking queries (e.g. "ONE") to a
// display name.
type CarrierLine struct {
	ID        uint
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
