package repository

import (
	"context"
	"fmt"
	"time"

	"seacargos-service/internal/domain/entity"
	"seacargos-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoTrackingRepository implements TrackingRepository on the tracking
// collection. Every operation runs a connectivity pre-check first and
// reports failure as entity.ErrStoreUnavailable.
type MongoTrackingRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoTrackingRepository creates a new tracking repository
func NewMongoTrackingRepository(client *mongo.Client, db *mongo.Database) repository.TrackingRepository {
	collection := db.Collection("tracking")

	// Indexes support the reconciliation selections and dashboard reads.
	// Duplicate protection is a pre-write count, deliberately not a
	// unique index: closed records with the same booking number must
	// coexist with one active record.
	ctx := context.Background()
	activeIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "user", Value: 1},
			{Key: "trackEnd", Value: 1},
		},
	}
	bookingIndex := mongo.IndexModel{
		Keys: bson.M{"bkgNo": 1},
	}
	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{activeIndex, bookingIndex})

	return &MongoTrackingRepository{
		client:     client,
		collection: collection,
	}
}

func (r *MongoTrackingRepository) ping(ctx context.Context) error {
	if err := r.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrStoreUnavailable, err)
	}
	return nil
}

// Filter and projection builders, split out so selection correctness can
// be checked without a live server.

func activeIdentityFilter(q entity.ShipmentQuery) bson.M {
	filter := bson.M{
		"line":     q.Line,
		"user":     q.User,
		"trackEnd": nil,
	}
	if q.BkgNo != "" {
		filter["bkgNo"] = q.BkgNo
	} else {
		filter["cntrNo"] = q.CntrNo
	}
	return filter
}

func dueFilter(now time.Time) bson.M {
	return bson.M{
		"trackEnd": nil,
		"schedule": bson.M{
			"$elemMatch": bson.M{
				"status":    "E",
				"eventDate": bson.M{"$lte": now},
			},
		},
	}
}

func userFilter(user string) bson.M {
	return bson.M{"trackEnd": nil, "user": user}
}

func recordFilter(user, bkgNo string) bson.M {
	return bson.M{"trackEnd": nil, "user": user, "bkgNo": bkgNo}
}

func candidateProjection(withUser bool) bson.M {
	projection := bson.M{"bkgNo": 1, "copNo": 1, "_id": 0}
	if withUser {
		projection["user"] = 1
	}
	return projection
}

func refreshFilter(refresh *entity.ScheduleRefresh) bson.M {
	filter := bson.M{"bkgNo": refresh.BkgNo, "trackEnd": nil}
	if refresh.User != "" {
		filter["user"] = refresh.User
	}
	return filter
}

func refreshSet(refresh *entity.ScheduleRefresh, touchRegular bool, now time.Time) bson.M {
	set := bson.M{
		"schedule":     refresh.Schedule,
		"recordUpdate": now,
	}
	if touchRegular {
		set["regularUpdate"] = now
	}
	// Terminal fields are written only when the refreshed schedule
	// contained the matching sentinel event; otherwise the stored
	// values stay as they are.
	if refresh.OutboundTerminal != "" {
		set["outboundTerminal"] = refresh.OutboundTerminal
	}
	if refresh.DepartureDate != nil {
		set["departureDate"] = refresh.DepartureDate
	}
	if refresh.InboundTerminal != "" {
		set["inboundTerminal"] = refresh.InboundTerminal
	}
	if refresh.ArrivalDate != nil {
		set["arrivalDate"] = refresh.ArrivalDate
	}
	return set
}

func arrivedPipeline(user string) mongo.Pipeline {
	match := bson.M{"trackEnd": nil}
	if user != "" {
		match["user"] = user
	}
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.M{"last": bson.M{"$last": "$schedule"}}}},
		{{Key: "$match", Value: bson.M{"last.status": "A"}}},
		{{Key: "$project", Value: bson.M{"bkgNo": 1, "_id": 0}}},
	}
}

// Insert creates a new tracking record
func (r *MongoTrackingRepository) Insert(ctx context.Context, rec *entity.TrackingRecord) error {
	if err := r.ping(ctx); err != nil {
		return err
	}

	result, err := r.collection.InsertOne(ctx, rec)
	if err != nil {
		return fmt.Errorf("failed to insert tracking record: %w", err)
	}
	if result.InsertedID == nil {
		return entity.ErrWriteNotAcknowledged
	}
	return nil
}

// CountActive counts active records matching the query identity
func (r *MongoTrackingRepository) CountActive(ctx context.Context, q entity.ShipmentQuery) (int64, error) {
	if err := r.ping(ctx); err != nil {
		return 0, err
	}

	count, err := r.collection.CountDocuments(ctx, activeIdentityFilter(q))
	if err != nil {
		return 0, fmt.Errorf("failed to count active records: %w", err)
	}
	return count, nil
}

// DueCandidates selects active records with an estimated event whose time
// has passed, across all users
func (r *MongoTrackingRepository) DueCandidates(ctx context.Context, now time.Time) ([]entity.UpdateCandidate, error) {
	return r.findCandidates(ctx, dueFilter(now), candidateProjection(false))
}

// UserCandidates selects all active records of one user
func (r *MongoTrackingRepository) UserCandidates(ctx context.Context, user string) ([]entity.UpdateCandidate, error) {
	return r.findCandidates(ctx, userFilter(user), candidateProjection(true))
}

// RecordCandidate selects one active record by user and booking number
func (r *MongoTrackingRepository) RecordCandidate(ctx context.Context, user, bkgNo string) ([]entity.UpdateCandidate, error) {
	return r.findCandidates(ctx, recordFilter(user, bkgNo), candidateProjection(true))
}

func (r *MongoTrackingRepository) findCandidates(ctx context.Context, filter, projection bson.M) ([]entity.UpdateCandidate, error) {
	if err := r.ping(ctx); err != nil {
		return nil, err
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetProjection(projection))
	if err != nil {
		return nil, fmt.Errorf("failed to select update candidates: %w", err)
	}
	defer cursor.Close(ctx)

	var candidates []entity.UpdateCandidate
	if err := cursor.All(ctx, &candidates); err != nil {
		return nil, fmt.Errorf("failed to decode update candidates: %w", err)
	}
	return candidates, nil
}

// ApplyRefresh overwrites the schedule and derived fields of an active
// record
func (r *MongoTrackingRepository) ApplyRefresh(ctx context.Context, refresh *entity.ScheduleRefresh, touchRegular bool, now time.Time) error {
	if err := r.ping(ctx); err != nil {
		return err
	}

	result, err := r.collection.UpdateOne(
		ctx,
		refreshFilter(refresh),
		bson.M{"$set": refreshSet(refresh, touchRegular, now)},
	)
	if err != nil {
		return fmt.Errorf("failed to apply schedule refresh: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("no active record matched booking %s", refresh.BkgNo)
	}
	return nil
}

// ArrivedBookings returns booking numbers of active records whose last
// schedule event is actual
func (r *MongoTrackingRepository) ArrivedBookings(ctx context.Context, user string) ([]string, error) {
	if err := r.ping(ctx); err != nil {
		return nil, err
	}

	cursor, err := r.collection.Aggregate(ctx, arrivedPipeline(user))
	if err != nil {
		return nil, fmt.Errorf("failed to query arrived records: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		BkgNo string `bson:"bkgNo"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode arrived records: %w", err)
	}

	bookings := make([]string, 0, len(rows))
	for _, row := range rows {
		bookings = append(bookings, row.BkgNo)
	}
	return bookings, nil
}

// CloseTracking sets trackEnd on an active record
func (r *MongoTrackingRepository) CloseTracking(ctx context.Context, bkgNo string, now time.Time) error {
	if err := r.ping(ctx); err != nil {
		return err
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"bkgNo": bkgNo, "trackEnd": nil},
		bson.M{"$set": bson.M{"trackEnd": now}},
	)
	if err != nil {
		return fmt.Errorf("failed to close tracking for %s: %w", bkgNo, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("no active record matched booking %s", bkgNo)
	}
	return nil
}

// Summary returns per-user tracking counts and the latest regular update
// timestamp
func (r *MongoTrackingRepository) Summary(ctx context.Context, user string) (*entity.TrackingSummary, error) {
	if err := r.ping(ctx); err != nil {
		return nil, err
	}

	active, err := r.collection.CountDocuments(ctx, bson.M{"user": user, "trackEnd": nil})
	if err != nil {
		return nil, fmt.Errorf("failed to count active records: %w", err)
	}
	arrived, err := r.collection.CountDocuments(ctx, bson.M{"user": user, "trackEnd": bson.M{"$ne": nil}})
	if err != nil {
		return nil, fmt.Errorf("failed to count arrived records: %w", err)
	}
	total, err := r.collection.CountDocuments(ctx, bson.M{"user": user})
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	summary := &entity.TrackingSummary{
		Active:  active,
		Arrived: arrived,
		Total:   total,
	}

	cursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user": user, "trackEnd": nil}}},
		{{Key: "$sort", Value: bson.M{"regularUpdate": -1}}},
		{{Key: "$limit", Value: 1}},
		{{Key: "$project", Value: bson.M{"regularUpdate": 1, "_id": 0}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query last update: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		RegularUpdate time.Time `bson:"regularUpdate"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode last update: %w", err)
	}
	if len(rows) > 0 {
		summary.LastRegularUpdate = &rows[0].RegularUpdate
	}
	return summary, nil
}

// ActiveRecords returns a user's active records without schedule payloads,
// newest departure first
func (r *MongoTrackingRepository) ActiveRecords(ctx context.Context, user string) ([]*entity.TrackingRecord, error) {
	if err := r.ping(ctx); err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "departureDate", Value: -1}}).
		SetProjection(bson.M{"schedule": 0, "initSchedule": 0})
	cursor, err := r.collection.Find(ctx, bson.M{"user": user, "trackEnd": nil}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query active records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*entity.TrackingRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode active records: %w", err)
	}
	return records, nil
}

// FindActive returns one active record with full schedules, nil when no
// active record matches
func (r *MongoTrackingRepository) FindActive(ctx context.Context, user, bkgNo string) (*entity.TrackingRecord, error) {
	if err := r.ping(ctx); err != nil {
		return nil, err
	}

	var record entity.TrackingRecord
	err := r.collection.FindOne(ctx, bson.M{"bkgNo": bkgNo, "user": user, "trackEnd": nil}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find record %s: %w", bkgNo, err)
	}
	return &record, nil
}
