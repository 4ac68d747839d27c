// Package store holds the WhereEat client state: travel plans, food
// favorites and search history, and scheduled trips.
//
// Stores are constructed explicitly and passed to their consumers; there is
// no package-level instance. Each mutation builds the next state from a copy,
// persists it, and only then swaps it in, so readers never observe a
// partially applied change and a failed write leaves the previous state in
// place.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pumpkinkking/whereeat/internal/domain"
)

// Storage keys. They match the keys used by the mobile client's local storage.
const (
	PlanStorageKey = "whereeat-plan-storage"
	FoodStorageKey = "whereeat-food-storage"
)

// snapshotVersion is the schema version written by this package.
// Version 0 is the unversioned layout written by the mobile client.
const snapshotVersion = 1

// envelope is the persisted wrapper around a store's state.
type envelope struct {
	Version int             `json:"version"`
	State   json.RawMessage `json:"state"`
}

func encodeSnapshot(state any) ([]byte, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Version: snapshotVersion, State: raw})
}

// decodeEnvelope unwraps raw and rejects versions newer than snapshotVersion.
func decodeEnvelope(raw []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return envelope{}, err
	}
	if env.Version < 0 || env.Version > snapshotVersion {
		return envelope{}, fmt.Errorf("%w: %d", domain.ErrUnsupportedVersion, env.Version)
	}
	if len(env.State) == 0 {
		env.State = json.RawMessage("{}")
	}
	return env, nil
}

type options struct {
	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

// Option configures a store.
type Option func(*options)

// WithClock replaces time.Now as the source of timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator replaces the default UUIDv7 id generator.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

// WithLogger sets the logger used for load and persistence messages.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func newOptions(opts []Option) options {
	o := options{
		now:    time.Now,
		newID:  newUUID,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// newUUID returns a version 7 UUID: a millisecond timestamp followed by
// random bits, unique for the lifetime of the process and roughly time-ordered.
func newUUID() string {
	return uuid.Must(uuid.NewV7()).String()
}
