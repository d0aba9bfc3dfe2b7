// internal/domain/entity/tracking.go
package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleEvent is one carrier-reported milestone of a shipment.
// Status "E" marks an estimated (future) event, "A" an actual one.
type ScheduleEvent struct {
	No         int       `bson:"no"`
	Event      string    `bson:"event"`
	PlaceName  string    `bson:"placeName"`
	YardName   string    `bson:"yardName"`
	EventDate  time.Time `bson:"eventDate"`
	Status     string    `bson:"status"`
	VesselName string    `bson:"vesselName"`
	IMO        string    `bson:"imo"`
}

// TrackingRecord is one tracked shipment-query in the tracking collection.
// InitSchedule is the schedule snapshot taken at creation and is never
// mutated afterwards; Schedule is overwritten by every refresh.
type TrackingRecord struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	BkgNo            string             `bson:"bkgNo"`
	CntrNo           string             `bson:"cntrNo"`
	CntrType         string             `bson:"cntrType"`
	CopNo            string             `bson:"copNo"`
	BlNo             string             `bson:"blNo"`
	Line             string             `bson:"line"`
	User             string             `bson:"user"`
	RefID            string             `bson:"refId"`
	RequestedETA     *time.Time         `bson:"requestedETA,omitempty"`
	TrackStart       time.Time          `bson:"trackStart"`
	RegularUpdate    time.Time          `bson:"regularUpdate"`
	RecordUpdate     time.Time          `bson:"recordUpdate"`
	TrackEnd         *time.Time         `bson:"trackEnd"`
	OutboundTerminal string             `bson:"outboundTerminal"`
	DepartureDate    *time.Time         `bson:"departureDate,omitempty"`
	InboundTerminal  string             `bson:"inboundTerminal"`
	ArrivalDate      *time.Time         `bson:"arrivalDate,omitempty"`
	Schedule         []ScheduleEvent    `bson:"schedule"`
	InitSchedule     []ScheduleEvent    `bson:"initSchedule"`
}

// UpdateCandidate is the identity projection of a record selected for a
// schedule refresh. User is empty for bulk selections, which project the
// user field out.
type UpdateCandidate struct {
	User  string `bson:"user,omitempty"`
	BkgNo string `bson:"bkgNo"`
	CopNo string `bson:"copNo"`
}

// ScheduleRefresh carries a re-transformed schedule back to the store.
// Terminal and date fields are set only when the refreshed event list
// contained the matching sentinel event; empty fields are left untouched
// in the stored record.
type ScheduleRefresh struct {
	User             string
	BkgNo            string
	Schedule         []ScheduleEvent
	OutboundTerminal string
	DepartureDate    *time.Time
	InboundTerminal  string
	ArrivalDate      *time.Time
}

// TrackingSummary holds per-user dashboard counts.
type TrackingSummary struct {
	Active            int64
	Arrived           int64
	Total             int64
	LastRegularUpdate *time.Time
	UpdatedOn         string
}

// RoutePoint is one side of a shipment route, split out of the stored
// "place | terminal" terminal string.
type RoutePoint struct {
	Location string `json:"location"`
	Terminal string `json:"terminal"`
}

// ScheduleRow is one active shipment row of the dashboard table.
type ScheduleRow struct {
	RefID        string     `json:"refId"`
	Booking      string     `json:"booking"`
	Container    string     `json:"container"`
	Type         string     `json:"type"`
	Line         string     `json:"line"`
	From         RoutePoint `json:"from"`
	To           RoutePoint `json:"to"`
	Departure    string     `json:"departure"`
	Arrival      string     `json:"arrival"`
	TotalDays    int        `json:"totalDays"`
	RequestedETA string     `json:"requestedETA"`
	ETADelayDays *int       `json:"etaDelayDays"`
}

// DetailRow pairs one schedule event against its initial snapshot to show
// the planned-vs-actual drift of a single milestone.
type DetailRow struct {
	Event       string `json:"event"`
	PlaceName   string `json:"placeName"`
	YardName    string `json:"yardName"`
	PlannedDate string `json:"plannedDate"`
	ActualDate  string `json:"actualDate"`
	DeltaDays   int    `json:"deltaDays"`
	Status      string `json:"status"`
}

// RecordDetails is the per-record detail projection.
type RecordDetails struct {
	BkgNo        string      `json:"bkgNo"`
	RecordUpdate string      `json:"recordUpdate"`
	Rows         []DetailRow `json:"rows"`
}
