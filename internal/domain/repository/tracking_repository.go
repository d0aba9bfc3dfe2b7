package repository

import (
	"context"
	"time"

	"seacargos-service/internal/domain/entity"
)

// TrackingRepository defines the interface for tracking record operations.
// Candidate selection, refresh merge and arrival close-out mirror the
// three-phase reconciliation flow; the remaining methods serve the create
// path and the dashboard reads.
type TrackingRepository interface {
	// Insert creates a new tracking record.
	Insert(ctx context.Context, rec *entity.TrackingRecord) error

	// CountActive counts active records matching the query identity,
	// used as the duplicate pre-check before an insert.
	CountActive(ctx context.Context, q entity.ShipmentQuery) (int64, error)

	// DueCandidates selects every active record, across all users, with
	// at least one estimated event dated at or before now.
	DueCandidates(ctx context.Context, now time.Time) ([]entity.UpdateCandidate, error)

	// UserCandidates selects every active record of one user.
	UserCandidates(ctx context.Context, user string) ([]entity.UpdateCandidate, error)

	// RecordCandidate selects one active record by user and booking
	// number.
	RecordCandidate(ctx context.Context, user, bkgNo string) ([]entity.UpdateCandidate, error)

	// ApplyRefresh overwrites the schedule and derived fields of an
	// active record. recordUpdate is always touched; regularUpdate only
	// when touchRegular is set.
	ApplyRefresh(ctx context.Context, refresh *entity.ScheduleRefresh, touchRegular bool, now time.Time) error

	// ArrivedBookings returns booking numbers of active records whose
	// last schedule event is actual. An empty user widens the scope to
	// all users.
	ArrivedBookings(ctx context.Context, user string) ([]string, error)

	// CloseTracking sets trackEnd on an active record, ending its
	// reconciliation lifecycle.
	CloseTracking(ctx context.Context, bkgNo string, now time.Time) error

	// Summary returns per-user tracking counts and the latest regular
	// update timestamp.
	Summary(ctx context.Context, user string) (*entity.TrackingSummary, error)

	// ActiveRecords returns a user's active records, newest departure
	// first, without the schedule payloads.
	ActiveRecords(ctx context.Context, user string) ([]*entity.TrackingRecord, error)

	// FindActive returns one active record with full schedules, or nil
	// when no active record matches.
	FindActive(ctx context.Context, user, bkgNo string) (*entity.TrackingRecord, error)
}
