package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seacargos-service/internal/domain/entity"
	"seacargos-service/internal/domain/repository"
	"seacargos-service/pkg/logger"
	"seacargos-service/pkg/metrics"
	"seacargos-service/pkg/utils"

	"gorm.io/gorm"
)

// TrackingPipeline runs the create-path ETL: extract the container and
// schedule payloads from the carrier, transform them into a canonical
// tracking record and insert it. Every failure short of a store problem
// degrades to a "no data" result so the caller can simply retry later.
type TrackingPipeline struct {
	carrier  repository.CarrierClient
	tracking repository.TrackingRepository
	lines    repository.CarrierLineRepository
	logger   logger.Logger
	metrics  *metrics.Metrics
}

// NewTrackingPipeline creates a new tracking pipeline
func NewTrackingPipeline(
	carrier repository.CarrierClient,
	tracking repository.TrackingRepository,
	lines repository.CarrierLineRepository,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *TrackingPipeline {
	return &TrackingPipeline{
		carrier:  carrier,
		tracking: tracking,
		lines:    lines,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run executes the new-shipment pipeline for a validated query.
func (p *TrackingPipeline) Run(ctx context.Context, query entity.ShipmentQuery) *entity.PipelineResult {
	if result := p.checkLine(ctx, query); result != nil {
		return result
	}

	count, err := p.tracking.CountActive(ctx, query)
	if err != nil {
		p.logger.Error("Duplicate pre-check failed", "identity", query.Identity(), "error", err)
		p.metrics.ErrorsCount.WithLabelValues("duplicate_check").Inc()
		return &entity.PipelineResult{
			Outcome: entity.OutcomeConnectionFailure,
			Message: "Database connection failure",
		}
	}
	if count > 0 {
		return &entity.PipelineResult{
			Outcome: entity.OutcomeDuplicate,
			Message: fmt.Sprintf("Item %s already exists in tracking database", query.Identity()),
		}
	}

	raw := p.extract(ctx, query)
	record := p.transform(raw)
	return p.load(ctx, record)
}

// checkLine validates the carrier line code against the reference table.
// A missing reference database is not fatal to the create path.
func (p *TrackingPipeline) checkLine(ctx context.Context, query entity.ShipmentQuery) *entity.PipelineResult {
	_, err := p.lines.GetByCode(ctx, query.Line)
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &entity.PipelineResult{
			Outcome: entity.OutcomeNoData,
			Message: fmt.Sprintf("Unknown carrier line %s", query.Line),
		}
	}
	p.logger.Warn("Carrier line lookup unavailable", "line", query.Line, "error", err)
	return nil
}

// extract fetches the container record and its schedule events. The
// container lookup runs first because it supplies the internal cop
// number the schedule lookup needs.
func (p *TrackingPipeline) extract(ctx context.Context, query entity.ShipmentQuery) *entity.RawShipment {
	container, err := p.carrier.FetchContainer(ctx, query.Identity())
	if err != nil || container == nil {
		p.logger.Warn("Container data is missing", "identity", query.Identity(), "error", err)
		return nil
	}

	events, err := p.carrier.FetchSchedule(ctx, container.Field("cntrNo"), "", container.Field("copNo"))
	if err != nil || len(events) == 0 {
		p.logger.Warn("Schedule data is missing", "identity", query.Identity(), "error", err)
		return nil
	}

	return &entity.RawShipment{
		Container: container,
		Events:    events,
		Query:     query,
	}
}

// transform builds the canonical tracking record from a raw shipment.
func (p *TrackingPipeline) transform(raw *entity.RawShipment) *entity.TrackingRecord {
	if raw == nil {
		return nil
	}

	if !containerKeysPresent(raw.Container) {
		p.logger.Warn("Required container keys are missing in response data",
			"identity", raw.Query.Identity())
		return nil
	}
	if !eventKeysPresent(raw.Events[0]) {
		p.logger.Warn("Required schedule keys are missing in response data",
			"identity", raw.Query.Identity())
		return nil
	}

	timestamp := time.Now().Truncate(time.Second)
	derived := transformSchedule(raw.Events)

	return &entity.TrackingRecord{
		CntrNo:           raw.Container.Field("cntrNo"),
		CntrType:         raw.Container.Field("cntrTpszNm"),
		CopNo:            raw.Container.Field("copNo"),
		BkgNo:            raw.Container.Field("bkgNo"),
		BlNo:             raw.Container.Field("blNo"),
		Line:             raw.Query.Line,
		User:             raw.Query.User,
		RefID:            raw.Query.RefID,
		RequestedETA:     utils.ParseETADate(raw.Query.RequestedETA),
		TrackStart:       timestamp,
		RegularUpdate:    timestamp,
		RecordUpdate:     timestamp,
		TrackEnd:         nil,
		OutboundTerminal: derived.OutboundTerminal,
		DepartureDate:    derived.DepartureDate,
		InboundTerminal:  derived.InboundTerminal,
		ArrivalDate:      derived.ArrivalDate,
		Schedule:         derived.Events,
		InitSchedule:     copySchedule(derived.Events),
	}
}

// load inserts the canonical record and maps store failures to outcomes.
func (p *TrackingPipeline) load(ctx context.Context, record *entity.TrackingRecord) *entity.PipelineResult {
	if record == nil {
		return &entity.PipelineResult{
			Outcome: entity.OutcomeNoData,
			Message: "Requested data is not available yet",
		}
	}

	err := p.tracking.Insert(ctx, record)
	switch {
	case err == nil:
		p.metrics.RecordsCreated.Inc()
		return &entity.PipelineResult{
			Outcome: entity.OutcomeInserted,
			Message: "New record successfully added",
		}
	case errors.Is(err, entity.ErrStoreUnavailable):
		p.logger.Error("Database connection failure for write operation", "bkgNo", record.BkgNo)
		p.metrics.ErrorsCount.WithLabelValues("load").Inc()
		return &entity.PipelineResult{
			Outcome: entity.OutcomeConnectionFailure,
			Message: "Database connection failure",
		}
	case errors.Is(err, entity.ErrWriteNotAcknowledged):
		p.logger.Error("Record not loaded to tracking collection", "bkgNo", record.BkgNo)
		p.metrics.ErrorsCount.WithLabelValues("load").Inc()
		return &entity.PipelineResult{
			Outcome: entity.OutcomeWriteFailed,
			Message: "Database write operation failure",
		}
	default:
		p.logger.Error("Unexpected error for write operation", "bkgNo", record.BkgNo, "error", err)
		p.metrics.ErrorsCount.WithLabelValues("load").Inc()
		return &entity.PipelineResult{
			Outcome: entity.OutcomeUnexpectedError,
			Message: "Unexpected error",
		}
	}
}
