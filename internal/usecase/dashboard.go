package usecase

import (
	"context"
	"strings"
	"time"

	"seacargos-service/internal/domain/entity"
	"seacargos-service/internal/domain/repository"
	"seacargos-service/pkg/logger"
	"seacargos-service/pkg/utils"
)

const hoursPerDay = 24

// DashboardPresenter shapes stored tracking records into the summary
// counts, table rows and detail rows the web layer renders. Pure reads,
// no side effects.
type DashboardPresenter struct {
	tracking repository.TrackingRepository
	lines    repository.CarrierLineRepository
	logger   logger.Logger
}

// NewDashboardPresenter creates a new dashboard presenter
func NewDashboardPresenter(
	tracking repository.TrackingRepository,
	lines repository.CarrierLineRepository,
	logger logger.Logger,
) *DashboardPresenter {
	return &DashboardPresenter{
		tracking: tracking,
		lines:    lines,
		logger:   logger,
	}
}

// Summary returns per-user active/arrived/total counts and the last
// regular update timestamp rendered for display.
func (d *DashboardPresenter) Summary(ctx context.Context, user string) (*entity.TrackingSummary, error) {
	summary, err := d.tracking.Summary(ctx, user)
	if err != nil {
		return nil, err
	}
	summary.UpdatedOn = "-"
	if summary.LastRegularUpdate != nil {
		summary.UpdatedOn = utils.FormatDisplayTime(*summary.LastRegularUpdate)
	}
	return summary, nil
}

// ScheduleTable returns one row per active record of the user, newest
// departure first.
func (d *DashboardPresenter) ScheduleTable(ctx context.Context, user string) ([]entity.ScheduleRow, error) {
	records, err := d.tracking.ActiveRecords(ctx, user)
	if err != nil {
		return nil, err
	}

	lineNames := map[string]string{}
	rows := make([]entity.ScheduleRow, 0, len(records))
	for _, rec := range records {
		row := entity.ScheduleRow{
			RefID:        rec.RefID,
			Booking:      rec.BkgNo,
			Container:    rec.CntrNo,
			Type:         rec.CntrType,
			Line:         d.lineName(ctx, rec.Line, lineNames),
			From:         splitTerminal(rec.OutboundTerminal),
			To:           splitTerminal(rec.InboundTerminal),
			Departure:    "-",
			Arrival:      "-",
			RequestedETA: "-",
		}
		if rec.DepartureDate != nil {
			row.Departure = utils.FormatDisplayTime(*rec.DepartureDate)
		}
		if rec.ArrivalDate != nil {
			row.Arrival = utils.FormatDisplayTime(*rec.ArrivalDate)
		}
		if rec.DepartureDate != nil && rec.ArrivalDate != nil {
			row.TotalDays = wholeDays(rec.ArrivalDate.Sub(*rec.DepartureDate))
		}
		if rec.RequestedETA != nil {
			row.RequestedETA = utils.FormatDisplayDate(*rec.RequestedETA)
			if rec.ArrivalDate != nil {
				delay := wholeDays(rec.ArrivalDate.Sub(*rec.RequestedETA))
				row.ETADelayDays = &delay
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// RecordDetails pairs a record's schedule against its creation snapshot
// positionally to show planned-vs-actual drift per milestone. Returns
// nil when no active record matches.
func (d *DashboardPresenter) RecordDetails(ctx context.Context, user, bkgNo string) (*entity.RecordDetails, error) {
	rec, err := d.tracking.FindActive(ctx, user, bkgNo)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}

	// The carrier is assumed to keep event count and order stable
	// between fetches. When it does not, pair what can be paired and
	// flag the rest rather than mispair silently.
	n := len(rec.Schedule)
	if len(rec.InitSchedule) != n {
		d.logger.Warn("Schedule length diverged from initial snapshot",
			"bkgNo", rec.BkgNo, "schedule", n, "initSchedule", len(rec.InitSchedule))
		if len(rec.InitSchedule) < n {
			n = len(rec.InitSchedule)
		}
	}

	details := &entity.RecordDetails{
		BkgNo:        rec.BkgNo,
		RecordUpdate: utils.FormatDisplayTime(rec.RecordUpdate),
		Rows:         make([]entity.DetailRow, 0, n),
	}
	for i := 0; i < n; i++ {
		actual := rec.Schedule[i]
		planned := rec.InitSchedule[i]
		details.Rows = append(details.Rows, entity.DetailRow{
			Event:       actual.Event,
			PlaceName:   actual.PlaceName,
			YardName:    actual.YardName,
			PlannedDate: utils.FormatDisplayTime(planned.EventDate),
			ActualDate:  utils.FormatDisplayTime(actual.EventDate),
			DeltaDays:   wholeDays(actual.EventDate.Sub(planned.EventDate)),
			Status:      actual.Status,
		})
	}
	return details, nil
}

func (d *DashboardPresenter) lineName(ctx context.Context, code string, cache map[string]string) string {
	if name, ok := cache[code]; ok {
		return name
	}
	name := code
	line, err := d.lines.GetByCode(ctx, code)
	if err == nil {
		name = line.Name
	} else {
		d.logger.Debug("Carrier line lookup failed, using code", "code", code, "error", err)
	}
	cache[code] = name
	return name
}

// splitTerminal splits the stored "place | terminal" convention into its
// two parts.
func splitTerminal(terminal string) entity.RoutePoint {
	parts := strings.Split(terminal, "|")
	return entity.RoutePoint{
		Location: strings.TrimSpace(parts[0]),
		Terminal: strings.TrimSpace(parts[len(parts)-1]),
	}
}

func wholeDays(d time.Duration) int {
	return int(d.Hours()) / hoursPerDay
}
