package usecase

import (
	"context"
	"time"

	"seacargos-service/internal/domain/entity"
	"seacargos-service/pkg/logger"
	"seacargos-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

func testMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.NewRegistry(), "test")
}

func testLogger() logger.Logger {
	return logger.NewNop()
}

// fakeCarrier serves canned payloads keyed by search term (container
// lookups) and by container or booking number (schedule lookups).
type fakeCarrier struct {
	containers    map[string]entity.RawContainer
	schedules     map[string][]entity.RawScheduleEvent
	scheduleCalls []string
}

func newFakeCarrier() *fakeCarrier {
	return &fakeCarrier{
		containers: map[string]entity.RawContainer{},
		schedules:  map[string][]entity.RawScheduleEvent{},
	}
}

func (c *fakeCarrier) FetchContainer(_ context.Context, searchTerm string) (entity.RawContainer, error) {
	return c.containers[searchTerm], nil
}

func (c *fakeCarrier) FetchSchedule(_ context.Context, cntrNo, bkgNo, _ string) ([]entity.RawScheduleEvent, error) {
	key := cntrNo
	if key == "" {
		key = bkgNo
	}
	c.scheduleCalls = append(c.scheduleCalls, key)
	return c.schedules[key], nil
}

// fakeTrackingRepo is an in-memory stand-in for the Mongo repository.
// Selection predicates mirror the stored queries so reconciler flow
// tests can run against realistic candidate sets.
type fakeTrackingRepo struct {
	records []*entity.TrackingRecord

	insertErr error
	countErr  error
	applyErr  error
	selectErr error
}

func (r *fakeTrackingRepo) Insert(_ context.Context, rec *entity.TrackingRecord) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *fakeTrackingRepo) CountActive(_ context.Context, q entity.ShipmentQuery) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	var count int64
	for _, rec := range r.records {
		if rec.TrackEnd != nil || rec.User != q.User || rec.Line != q.Line {
			continue
		}
		if (q.BkgNo != "" && rec.BkgNo == q.BkgNo) || (q.CntrNo != "" && rec.CntrNo == q.CntrNo) {
			count++
		}
	}
	return count, nil
}

func (r *fakeTrackingRepo) DueCandidates(_ context.Context, now time.Time) ([]entity.UpdateCandidate, error) {
	if r.selectErr != nil {
		return nil, r.selectErr
	}
	var candidates []entity.UpdateCandidate
	for _, rec := range r.records {
		if rec.TrackEnd != nil {
			continue
		}
		for _, ev := range rec.Schedule {
			if ev.Status == "E" && !ev.EventDate.After(now) {
				candidates = append(candidates, entity.UpdateCandidate{BkgNo: rec.BkgNo, CopNo: rec.CopNo})
				break
			}
		}
	}
	return candidates, nil
}

func (r *fakeTrackingRepo) UserCandidates(_ context.Context, user string) ([]entity.UpdateCandidate, error) {
	if r.selectErr != nil {
		return nil, r.selectErr
	}
	var candidates []entity.UpdateCandidate
	for _, rec := range r.records {
		if rec.TrackEnd == nil && rec.User == user {
			candidates = append(candidates, entity.UpdateCandidate{User: rec.User, BkgNo: rec.BkgNo, CopNo: rec.CopNo})
		}
	}
	return candidates, nil
}

func (r *fakeTrackingRepo) RecordCandidate(_ context.Context, user, bkgNo string) ([]entity.UpdateCandidate, error) {
	if r.selectErr != nil {
		return nil, r.selectErr
	}
	var candidates []entity.UpdateCandidate
	for _, rec := range r.records {
		if rec.TrackEnd == nil && rec.User == user && rec.BkgNo == bkgNo {
			candidates = append(candidates, entity.UpdateCandidate{User: rec.User, BkgNo: rec.BkgNo, CopNo: rec.CopNo})
		}
	}
	return candidates, nil
}

func (r *fakeTrackingRepo) ApplyRefresh(_ context.Context, refresh *entity.ScheduleRefresh, touchRegular bool, now time.Time) error {
	if r.applyErr != nil {
		return r.applyErr
	}
	for _, rec := range r.records {
		if rec.TrackEnd != nil || rec.BkgNo != refresh.BkgNo {
			continue
		}
		if refresh.User != "" && rec.User != refresh.User {
			continue
		}
		rec.Schedule = refresh.Schedule
		rec.RecordUpdate = now
		if touchRegular {
			rec.RegularUpdate = now
		}
		if refresh.OutboundTerminal != "" {
			rec.OutboundTerminal = refresh.OutboundTerminal
		}
		if refresh.DepartureDate != nil {
			rec.DepartureDate = refresh.DepartureDate
		}
		if refresh.InboundTerminal != "" {
			rec.InboundTerminal = refresh.InboundTerminal
		}
		if refresh.ArrivalDate != nil {
			rec.ArrivalDate = refresh.ArrivalDate
		}
		return nil
	}
	return entity.ErrWriteNotAcknowledged
}

func (r *fakeTrackingRepo) ArrivedBookings(_ context.Context, user string) ([]string, error) {
	if r.selectErr != nil {
		return nil, r.selectErr
	}
	var bookings []string
	for _, rec := range r.records {
		if rec.TrackEnd != nil || len(rec.Schedule) == 0 {
			continue
		}
		if user != "" && rec.User != user {
			continue
		}
		if rec.Schedule[len(rec.Schedule)-1].Status == "A" {
			bookings = append(bookings, rec.BkgNo)
		}
	}
	return bookings, nil
}

func (r *fakeTrackingRepo) CloseTracking(_ context.Context, bkgNo string, now time.Time) error {
	for _, rec := range r.records {
		if rec.TrackEnd == nil && rec.BkgNo == bkgNo {
			trackEnd := now
			rec.TrackEnd = &trackEnd
			return nil
		}
	}
	return entity.ErrWriteNotAcknowledged
}

func (r *fakeTrackingRepo) Summary(_ context.Context, user string) (*entity.TrackingSummary, error) {
	summary := &entity.TrackingSummary{}
	for _, rec := range r.records {
		if rec.User != user {
			continue
		}
		summary.Total++
		if rec.TrackEnd == nil {
			summary.Active++
			if summary.LastRegularUpdate == nil || rec.RegularUpdate.After(*summary.LastRegularUpdate) {
				regularUpdate := rec.RegularUpdate
				summary.LastRegularUpdate = &regularUpdate
			}
		} else {
			summary.Arrived++
		}
	}
	return summary, nil
}

func (r *fakeTrackingRepo) ActiveRecords(_ context.Context, user string) ([]*entity.TrackingRecord, error) {
	var records []*entity.TrackingRecord
	for _, rec := range r.records {
		if rec.TrackEnd == nil && rec.User == user {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (r *fakeTrackingRepo) FindActive(_ context.Context, user, bkgNo string) (*entity.TrackingRecord, error) {
	for _, rec := range r.records {
		if rec.TrackEnd == nil && rec.User == user && rec.BkgNo == bkgNo {
			return rec, nil
		}
	}
	return nil, nil
}

func (r *fakeTrackingRepo) find(bkgNo string) *entity.TrackingRecord {
	for _, rec := range r.records {
		if rec.BkgNo == bkgNo {
			return rec
		}
	}
	return nil
}

// fakeLineRepo knows the lines in its map and reports anything else as
// not found.
type fakeLineRepo struct {
	lines map[string]string
	err   error
}

func (r *fakeLineRepo) GetByCode(_ context.Context, code string) (*entity.CarrierLine, error) {
	if r.err != nil {
		return nil, r.err
	}
	if name, ok := r.lines[code]; ok {
		return &entity.CarrierLine{Code: code, Name: name}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func oneLineRepo() *fakeLineRepo {
	return &fakeLineRepo{lines: map[string]string{"ONE": "Ocean Network Express"}}
}

// Raw payload builders shared across pipeline and reconciler tests.

func rawContainer(bkgNo, cntrNo string) entity.RawContainer {
	return entity.RawContainer{
		"cntrNo":    cntrNo,
		"cntrTpszNm": "40'HC",
		"copNo":     "COP123456",
		"bkgNo":     bkgNo,
		"blNo":      "BL123456",
	}
}

func rawEvent(no, statusNm, placeNm, yardNm, eventDt, actTpCd string) entity.RawScheduleEvent {
	return entity.RawScheduleEvent{
		"no":       no,
		"statusNm": statusNm,
		"placeNm":  placeNm,
		"yardNm":   yardNm,
		"eventDt":  eventDt,
		"actTpCd":  actTpCd,
		"vslEngNm": "MV TEST VESSEL",
		"lloydNo":  "9999999",
	}
}

func plainEvents() []entity.RawScheduleEvent {
	return []entity.RawScheduleEvent{
		rawEvent("1", "Empty Container Release to Shipper", "BUSAN, KOREA", "HBCT", "2022-01-01 10:00", "A"),
		rawEvent("2", "Gate In to Outbound Terminal", "BUSAN, KOREA", "PNIT", "2022-01-03 12:00", "A"),
		rawEvent("3", "Loaded on Vessel at Port of Loading", "BUSAN, KOREA", "PNIT", "2022-01-05 09:00", "E"),
	}
}

func activeRecord(user, bkgNo string, schedule []entity.ScheduleEvent) *entity.TrackingRecord {
	created := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	return &entity.TrackingRecord{
		BkgNo:         bkgNo,
		CntrNo:        "TCKU1111111",
		CopNo:         "COP123456",
		Line:          "ONE",
		User:          user,
		RefID:         "-",
		TrackStart:    created,
		RegularUpdate: created,
		RecordUpdate:  created,
		Schedule:      schedule,
		InitSchedule:  schedule,
	}
}

func eventAt(no int, status string, date time.Time) entity.ScheduleEvent {
	return entity.ScheduleEvent{
		No:        no,
		Event:     "Test Event",
		PlaceName: "BUSAN, KOREA",
		YardName:  "PNIT",
		EventDate: date,
		Status:    status,
	}
}
