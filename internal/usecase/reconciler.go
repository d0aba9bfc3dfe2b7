package usecase

import (
	"context"
	"errors"
	"time"

	"seacargos-service/internal/domain/entity"
	"seacargos-service/internal/domain/repository"
	"seacargos-service/pkg/logger"
	"seacargos-service/pkg/metrics"
)

// ScheduleReconciler refreshes the schedules of existing tracking
// records and closes out records that reached their destination. The
// three entry points share one flow and differ only in candidate
// selection and in whether regularUpdate is touched: bulk and user
// updates are routine sweeps, a record update is user-requested.
type ScheduleReconciler struct {
	carrier  repository.CarrierClient
	tracking repository.TrackingRepository
	logger   logger.Logger
	metrics  *metrics.Metrics
}

// NewScheduleReconciler creates a new schedule reconciler
func NewScheduleReconciler(
	carrier repository.CarrierClient,
	tracking repository.TrackingRepository,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *ScheduleReconciler {
	return &ScheduleReconciler{
		carrier:  carrier,
		tracking: tracking,
		logger:   logger,
		metrics:  metrics,
	}
}

// RunBulkUpdate refreshes every active record, across all users, holding
// an estimated event whose time has passed, then closes arrived records.
func (r *ScheduleReconciler) RunBulkUpdate(ctx context.Context) error {
	now := time.Now().Truncate(time.Second)
	candidates, err := r.tracking.DueCandidates(ctx, now)
	if err != nil {
		r.logger.Error("Failed to select bulk update candidates", "error", err)
		r.metrics.ErrorsCount.WithLabelValues("bulk_select").Inc()
		return err
	}
	if len(candidates) == 0 {
		r.logger.Info("Nothing to update for bulk schedule update")
	}

	if err := r.refresh(ctx, candidates, true, now); err != nil {
		return err
	}
	return r.sweepArrived(ctx, "", now)
}

// RunUserUpdate refreshes every active record of one user, then closes
// the user's arrived records.
func (r *ScheduleReconciler) RunUserUpdate(ctx context.Context, user string) error {
	now := time.Now().Truncate(time.Second)
	candidates, err := r.tracking.UserCandidates(ctx, user)
	if err != nil {
		r.logger.Error("Failed to select user update candidates", "user", user, "error", err)
		r.metrics.ErrorsCount.WithLabelValues("user_select").Inc()
		return err
	}
	if len(candidates) == 0 {
		r.logger.Info("Nothing to update", "user", user)
	}

	if err := r.refresh(ctx, candidates, true, now); err != nil {
		return err
	}
	return r.sweepArrived(ctx, user, now)
}

// RunRecordUpdate refreshes exactly one active record. regularUpdate is
// left alone so routine sweeps stay distinguishable from user-requested
// touches; no arrival sweep runs on this path.
func (r *ScheduleReconciler) RunRecordUpdate(ctx context.Context, user, bkgNo string) error {
	now := time.Now().Truncate(time.Second)
	candidates, err := r.tracking.RecordCandidate(ctx, user, bkgNo)
	if err != nil {
		r.logger.Error("Failed to select record update candidate",
			"user", user, "bkgNo", bkgNo, "error", err)
		r.metrics.ErrorsCount.WithLabelValues("record_select").Inc()
		return err
	}
	if len(candidates) == 0 {
		r.logger.Info("Nothing to update", "user", user, "bkgNo", bkgNo)
		return nil
	}

	return r.refresh(ctx, candidates, false, now)
}

// refresh re-fetches and re-transforms the schedule of each candidate and
// merges the result back. A failed candidate is skipped, not fatal: the
// batch holds independently fetched shipments. Store connectivity loss
// aborts the batch.
func (r *ScheduleReconciler) refresh(ctx context.Context, candidates []entity.UpdateCandidate, touchRegular bool, now time.Time) error {
	started := time.Now()
	defer func() {
		r.metrics.RefreshDuration.Observe(time.Since(started).Seconds())
	}()

	for _, candidate := range candidates {
		events, err := r.carrier.FetchSchedule(ctx, "", candidate.BkgNo, candidate.CopNo)
		if err != nil || len(events) == 0 {
			r.logger.Warn("Record has not been updated, schedule data is missing",
				"bkgNo", candidate.BkgNo, "error", err)
			r.metrics.ErrorsCount.WithLabelValues("refresh_fetch").Inc()
			continue
		}
		if !eventKeysPresent(events[0]) {
			r.logger.Warn("Required schedule keys are missing in response data",
				"bkgNo", candidate.BkgNo)
			r.metrics.ErrorsCount.WithLabelValues("refresh_transform").Inc()
			continue
		}

		derived := transformSchedule(events)
		refresh := &entity.ScheduleRefresh{
			User:             candidate.User,
			BkgNo:            candidate.BkgNo,
			Schedule:         derived.Events,
			OutboundTerminal: derived.OutboundTerminal,
			DepartureDate:    derived.DepartureDate,
			InboundTerminal:  derived.InboundTerminal,
			ArrivalDate:      derived.ArrivalDate,
		}

		if err := r.tracking.ApplyRefresh(ctx, refresh, touchRegular, now); err != nil {
			if errors.Is(err, entity.ErrStoreUnavailable) {
				r.logger.Error("Database connection failure for update operation", "error", err)
				r.metrics.ErrorsCount.WithLabelValues("refresh_store").Inc()
				return err
			}
			r.logger.Warn("Failed to apply schedule refresh",
				"bkgNo", candidate.BkgNo, "user", candidate.User, "error", err)
			r.metrics.ErrorsCount.WithLabelValues("refresh_store").Inc()
			continue
		}
		r.metrics.SchedulesRefreshed.Inc()
	}
	return nil
}

// sweepArrived closes out records whose last schedule event is actual.
// Runs after the merge so a schedule refreshed this cycle is eligible
// the same cycle. An empty user sweeps all users.
func (r *ScheduleReconciler) sweepArrived(ctx context.Context, user string, now time.Time) error {
	bookings, err := r.tracking.ArrivedBookings(ctx, user)
	if err != nil {
		r.logger.Error("Failed to query arrived records", "error", err)
		r.metrics.ErrorsCount.WithLabelValues("arrival_sweep").Inc()
		return err
	}

	for _, bkgNo := range bookings {
		if err := r.tracking.CloseTracking(ctx, bkgNo, now); err != nil {
			if errors.Is(err, entity.ErrStoreUnavailable) {
				r.logger.Error("Database connection failure for arrival sweep", "error", err)
				r.metrics.ErrorsCount.WithLabelValues("arrival_sweep").Inc()
				return err
			}
			r.logger.Error("Failed to set trackEnd", "bkgNo", bkgNo, "error", err)
			r.metrics.ErrorsCount.WithLabelValues("arrival_sweep").Inc()
			continue
		}
		r.metrics.RecordsClosed.Inc()
	}
	return nil
}
