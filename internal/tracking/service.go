package tracking

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/Hardik-Kaushik/geotrackingFull/internal/db"
	"github.com/Hardik-Kaushik/geotrackingFull/internal/notify"
	"github.com/Hardik-Kaushik/geotrackingFull/internal/shared/geo"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidCounters    = errors.New("invalid counters")
	// ErrNoCompletedPass means finalize or present ran before the session
	// recorded both endpoints of a tracking pass.
	ErrNoCompletedPass = errors.New("no completed tracking pass for this session")
)

type Service struct {
	db         db.Querier
	store      Store
	dispatcher *notify.Dispatcher
	validate   *validator.Validate
}

func NewService(db db.Querier, store Store, dispatcher *notify.Dispatcher) *Service {
	return &Service{
		db:         db,
		store:      store,
		dispatcher: dispatcher,
		validate:   validator.New(),
	}
}

// StartPass resets the session aggregate so a new pass begins clean instead of
// inheriting endpoints from the previous one.
func (s *Service) StartPass(ctx context.Context, sessionID string) error {
	return s.store.Start(ctx, sessionID)
}

// Report durably logs the sample, then folds it into the session aggregate.
// The aggregate only ever reflects confirmed writes: a failed insert leaves it
// untouched.
func (s *Service) Report(ctx context.Context, userID, sessionID string, req ReportRequest) (Sample, error) {
	if err := s.validate.Struct(req); err != nil {
		return Sample{}, ErrInvalidCoordinates
	}

	sample := Sample{
		UserID:     userID,
		Lat:        req.Latitude,
		Lng:        req.Longitude,
		RecordedAt: time.Now(),
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO location_samples (user_id, latitude, longitude, recorded_at)
		VALUES ($1,$2,$3,$4)
		RETURNING id
	`, sample.UserID, sample.Lat, sample.Lng, sample.RecordedAt)
	if err := row.Scan(&sample.ID); err != nil {
		return Sample{}, err
	}

	if err := s.store.Report(ctx, sessionID, sample.Lat, sample.Lng); err != nil {
		return Sample{}, err
	}
	return sample, nil
}

// Finalize builds the pass result and hands the summary to the dispatcher.
// The notification outcome never reaches the caller.
func (s *Service) Finalize(ctx context.Context, sessionID, username, email string, counters Counters) (Result, error) {
	result, err := s.compose(ctx, sessionID, counters)
	if err != nil {
		return Result{}, err
	}

	if s.dispatcher != nil {
		s.dispatcher.Enqueue(notify.Job{
			To:             email,
			Username:       username,
			InitialLat:     result.InitialLat,
			InitialLng:     result.InitialLng,
			FinalLat:       result.FinalLat,
			FinalLng:       result.FinalLng,
			EnterCount:     result.EnterCount,
			ExitCount:      result.ExitCount,
			ElapsedSeconds: result.ElapsedSeconds,
			DistanceM:      result.DistanceM,
		})
	}
	return result, nil
}

// Results re-renders the pass summary from the still-resident aggregate.
// Idempotent: no state is touched and nothing is dispatched.
func (s *Service) Results(ctx context.Context, sessionID string, counters Counters) (Result, error) {
	return s.compose(ctx, sessionID, counters)
}

func (s *Service) compose(ctx context.Context, sessionID string, counters Counters) (Result, error) {
	state, err := s.store.Snapshot(ctx, sessionID)
	if err != nil {
		return Result{}, err
	}
	if !state.Complete() {
		return Result{}, ErrNoCompletedPass
	}

	return Result{
		InitialLat:     state.Initial.Lat,
		InitialLng:     state.Initial.Lng,
		FinalLat:       state.Final.Lat,
		FinalLng:       state.Final.Lng,
		EnterCount:     counters.Enter,
		ExitCount:      counters.Exit,
		ElapsedSeconds: counters.ElapsedSeconds,
		DistanceM:      geo.HaversineKm(state.Initial.Lat, state.Initial.Lng, state.Final.Lat, state.Final.Lng) * 1000,
	}, nil
}

// ClearSession drops the session aggregate, for logout teardown.
func (s *Service) ClearSession(ctx context.Context, sessionID string) error {
	return s.store.Clear(ctx, sessionID)
}

// ParseCounters validates the client-reported counters instead of letting
// malformed values propagate as NaN or zero into the result.
func ParseCounters(req CountersRequest) (Counters, error) {
	enter, err := strconv.Atoi(req.EnterCount)
	if err != nil || enter < 0 {
		return Counters{}, ErrInvalidCounters
	}
	exit, err := strconv.Atoi(req.ExitCount)
	if err != nil || exit < 0 {
		return Counters{}, ErrInvalidCounters
	}
	elapsed, err := strconv.ParseFloat(req.ElapsedTime, 64)
	if err != nil || math.IsNaN(elapsed) || math.IsInf(elapsed, 0) || elapsed < 0 {
		return Counters{}, ErrInvalidCounters
	}
	return Counters{Enter: enter, Exit: exit, ElapsedSeconds: elapsed}, nil
}
