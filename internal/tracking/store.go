package tracking

import (
	"context"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Store keeps the per-session coordinate aggregate. Implementations must be
// safe for concurrent use per session key; concurrent reports for one session
// resolve last-write-wins on the final coordinates.
type Store interface {
	// Start clears any prior pass so a new one begins from an unset aggregate.
	Start(ctx context.Context, sessionID string) error
	// Report records a sample: the first of a pass sets the initial
	// coordinates, every later one overwrites the final coordinates.
	Report(ctx context.Context, sessionID string, lat, lng float64) error
	Snapshot(ctx context.Context, sessionID string) (CoordinateState, error)
	Clear(ctx context.Context, sessionID string) error
}

// NewStore returns a Redis-backed store when a client is configured and an
// in-process store otherwise.
func NewStore(rdb *redis.Client) Store {
	if rdb == nil {
		return NewMemoryStore()
	}
	return &redisStore{rdb: rdb}
}

type memoryStore struct {
	mu     sync.Mutex
	states map[string]*CoordinateState
}

func NewMemoryStore() Store {
	return &memoryStore{states: map[string]*CoordinateState{}}
}

func (m *memoryStore) Start(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[sessionID] = &CoordinateState{}
	return nil
}

func (m *memoryStore) Report(_ context.Context, sessionID string, lat, lng float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.states[sessionID]
	if !ok {
		state = &CoordinateState{}
		m.states[sessionID] = state
	}
	if state.Initial == nil {
		state.Initial = &Coordinates{Lat: lat, Lng: lng}
	} else {
		state.Final = &Coordinates{Lat: lat, Lng: lng}
	}
	return nil
}

func (m *memoryStore) Snapshot(_ context.Context, sessionID string) (CoordinateState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.states[sessionID]
	if !ok {
		return CoordinateState{}, nil
	}
	snap := CoordinateState{}
	if state.Initial != nil {
		c := *state.Initial
		snap.Initial = &c
	}
	if state.Final != nil {
		c := *state.Final
		snap.Final = &c
	}
	return snap, nil
}

func (m *memoryStore) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, sessionID)
	return nil
}

type redisStore struct {
	rdb *redis.Client
}

func stateKey(sessionID string) string {
	return "tracking:state:" + sessionID
}

func (r *redisStore) Start(ctx context.Context, sessionID string) error {
	return r.rdb.Del(ctx, stateKey(sessionID)).Err()
}

func (r *redisStore) Report(ctx context.Context, sessionID string, lat, lng float64) error {
	key := stateKey(sessionID)

	// HSETNX is atomic, so exactly one concurrent report wins the initial slot.
	set, err := r.rdb.HSetNX(ctx, key, "initial_lat", lat).Result()
	if err != nil {
		return err
	}
	if set {
		return r.rdb.HSetNX(ctx, key, "initial_lng", lng).Err()
	}
	return r.rdb.HSet(ctx, key, "final_lat", lat, "final_lng", lng).Err()
}

func (r *redisStore) Snapshot(ctx context.Context, sessionID string) (CoordinateState, error) {
	fields, err := r.rdb.HGetAll(ctx, stateKey(sessionID)).Result()
	if err != nil {
		return CoordinateState{}, err
	}

	var state CoordinateState
	if initial, ok := parsePair(fields, "initial_lat", "initial_lng"); ok {
		state.Initial = initial
	}
	if final, ok := parsePair(fields, "final_lat", "final_lng"); ok {
		state.Final = final
	}
	return state, nil
}

func (r *redisStore) Clear(ctx context.Context, sessionID string) error {
	return r.rdb.Del(ctx, stateKey(sessionID)).Err()
}

func parsePair(fields map[string]string, latField, lngField string) (*Coordinates, bool) {
	latRaw, ok := fields[latField]
	if !ok {
		return nil, false
	}
	lngRaw, ok := fields[lngField]
	if !ok {
		return nil, false
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return nil, false
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return nil, false
	}
	return &Coordinates{Lat: lat, Lng: lng}, true
}
