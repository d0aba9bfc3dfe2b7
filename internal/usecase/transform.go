package usecase

import (
	"fmt"
	"strings"
	"time"

	"seacargos-service/internal/domain/entity"
	"seacargos-service/pkg/utils"
)

// Keys the carrier must supply before a payload is considered usable.
var (
	requiredContainerKeys = []string{"cntrNo", "cntrTpszNm", "copNo", "blNo"}
	requiredEventKeys     = []string{
		"no", "statusNm", "placeNm", "yardNm",
		"eventDt", "actTpCd", "vslEngNm", "lloydNo",
	}
)

// Sentinel event names used to derive the route endpoints. Matched by
// case-sensitive containment; the first match per side wins.
const (
	departureSentinel = "Departure from Port of Loading"
	arrivalSentinel   = "Arrival at Port of Discharging"
)

// scheduleDerived is the canonical event list plus the terminal fields
// derived from the sentinel events, shared by the create path and the
// refresh path.
type scheduleDerived struct {
	Events           []entity.ScheduleEvent
	OutboundTerminal string
	DepartureDate    *time.Time
	InboundTerminal  string
	ArrivalDate      *time.Time
}

func containerKeysPresent(container entity.RawContainer) bool {
	return container.Has(requiredContainerKeys...)
}

func eventKeysPresent(event entity.RawScheduleEvent) bool {
	return event.Has(requiredEventKeys...)
}

// transformSchedule converts raw events, in carrier-provided order, into
// canonical schedule events and scans them for the departure and arrival
// sentinels.
func transformSchedule(raw []entity.RawScheduleEvent) scheduleDerived {
	derived := scheduleDerived{
		Events: make([]entity.ScheduleEvent, 0, len(raw)),
	}
	for _, item := range raw {
		event := entity.ScheduleEvent{
			No:         item.Int("no"),
			Event:      item.Field("statusNm"),
			PlaceName:  item.Field("placeNm"),
			YardName:   item.Field("yardNm"),
			EventDate:  utils.ParseEventDate(item.Field("eventDt")),
			Status:     item.Field("actTpCd"),
			VesselName: item.Field("vslEngNm"),
			IMO:        item.Field("lloydNo"),
		}
		derived.Events = append(derived.Events, event)

		if derived.OutboundTerminal == "" && strings.Contains(event.Event, departureSentinel) {
			derived.OutboundTerminal = fmt.Sprintf("%s | %s", event.PlaceName, event.YardName)
			eventDate := event.EventDate
			derived.DepartureDate = &eventDate
		}
		if derived.InboundTerminal == "" && strings.Contains(event.Event, arrivalSentinel) {
			derived.InboundTerminal = fmt.Sprintf("%s | %s", event.PlaceName, event.YardName)
			eventDate := event.EventDate
			derived.ArrivalDate = &eventDate
		}
	}
	return derived
}

// copySchedule takes the creation-time snapshot for initSchedule, so
// later mutations of schedule never reach it.
func copySchedule(events []entity.ScheduleEvent) []entity.ScheduleEvent {
	snapshot := make([]entity.ScheduleEvent, len(events))
	copy(snapshot, events)
	return snapshot
}
