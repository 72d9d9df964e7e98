package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/muharrempasbiyik/yoldancek/internal/domain/entities"
	"github.com/muharrempasbiyik/yoldancek/internal/domain/providers"
	"github.com/muharrempasbiyik/yoldancek/internal/infrastructure/observability"
	apperrors "github.com/muharrempasbiyik/yoldancek/pkg/errors"
)

// The four independently written session keys. Entries persist until
// explicitly cleared.
const (
	tokenKey    = "yd:auth-token"
	userKey     = "yd:user"
	profileKey  = "yd:profile"
	unitLocsKey = "yd:tow-loc"
)

// SessionService persists resolved names and session/profile state across
// restarts so that resolution does not need to be redone from scratch
// every visit. All writes are best-effort and independent per key; a
// failed write never rolls back the others.
type SessionService struct {
	store providers.CacheProvider

	mu     sync.RWMutex
	record entities.SessionRecord
}

// NewSessionService creates a session service over the given store.
func NewSessionService(store providers.CacheProvider) *SessionService {
	return &SessionService{
		store: store,
		record: entities.SessionRecord{
			UnitLocations: make(map[int64]entities.UnitLocation),
		},
	}
}

// Start replaces the in-memory session with a fresh login/registration
// result and persists it.
func (s *SessionService) Start(ctx context.Context, token string, user entities.UserSummary, profile entities.Profile) {
	s.mu.Lock()
	s.record.Token = token
	s.record.User = user
	s.record.Profile = profile
	if s.record.UnitLocations == nil {
		s.record.UnitLocations = make(map[int64]entities.UnitLocation)
	}
	s.mu.Unlock()
	s.Persist(ctx)
}

// UpdateProfile replaces the stored profile forms and persists.
func (s *SessionService) UpdateProfile(ctx context.Context, user entities.UserSummary, profile entities.Profile) {
	s.mu.Lock()
	s.record.User = user
	s.record.Profile = profile
	s.mu.Unlock()
	s.Persist(ctx)
}

// Persist writes the four session keys. Writes are independent; each
// failure is logged and the remaining keys are still attempted.
func (s *SessionService) Persist(ctx context.Context) {
	s.mu.RLock()
	record := s.snapshotLocked()
	s.mu.RUnlock()

	log := observability.LoggerFromContext(ctx)
	s.setString(ctx, tokenKey, record.Token, log)
	s.setJSON(ctx, userKey, record.User, log)
	s.setJSON(ctx, profileKey, record.Profile, log)
	s.setJSON(ctx, unitLocsKey, record.UnitLocations, log)
}

// Restore reads the four session keys into the in-memory record and
// returns it. A key whose stored value fails to parse is treated as
// absent; restoration of the other keys proceeds. A stored token whose
// exp claim has passed is likewise treated as absent.
func (s *SessionService) Restore(ctx context.Context) entities.SessionRecord {
	log := observability.LoggerFromContext(ctx)

	record := entities.SessionRecord{
		UnitLocations: make(map[int64]entities.UnitLocation),
	}

	if raw, err := s.store.Get(ctx, tokenKey); err == nil {
		token := string(raw)
		if tokenExpired(token) {
			log.Debug().Msg("stored session token expired, dropping")
		} else {
			record.Token = token
		}
	}
	if raw, err := s.store.Get(ctx, userKey); err == nil {
		var user entities.UserSummary
		if err := json.Unmarshal(raw, &user); err != nil {
			logCorrupt(log, userKey, err)
		} else {
			record.User = user
		}
	}
	if raw, err := s.store.Get(ctx, profileKey); err == nil {
		var profile entities.Profile
		if err := json.Unmarshal(raw, &profile); err != nil {
			logCorrupt(log, profileKey, err)
		} else {
			record.Profile = profile
		}
	}
	if raw, err := s.store.Get(ctx, unitLocsKey); err == nil {
		var locations map[int64]entities.UnitLocation
		if err := json.Unmarshal(raw, &locations); err != nil {
			logCorrupt(log, unitLocsKey, err)
		} else if locations != nil {
			record.UnitLocations = locations
		}
	}

	s.mu.Lock()
	s.record = record
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	return snapshot
}

// Clear removes all four keys and wipes the in-memory record.
func (s *SessionService) Clear(ctx context.Context) {
	log := observability.LoggerFromContext(ctx)
	for _, key := range []string{tokenKey, userKey, profileKey, unitLocsKey} {
		if err := s.store.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("session key delete failed")
		}
	}
	s.mu.Lock()
	s.record = entities.SessionRecord{
		UnitLocations: make(map[int64]entities.UnitLocation),
	}
	s.mu.Unlock()
}

// RecordUnitLocation upserts one unit's resolved label into the in-memory
// map, last-write-wins per unit id. The entry rides along on the next
// Persist.
func (s *SessionService) RecordUnitLocation(unitID int64, city, district string) {
	if unitID == 0 {
		return
	}
	s.mu.Lock()
	if s.record.UnitLocations == nil {
		s.record.UnitLocations = make(map[int64]entities.UnitLocation)
	}
	s.record.UnitLocations[unitID] = entities.UnitLocation{City: city, District: district}
	s.mu.Unlock()
}

// UnitLocation returns the previously recorded label for one unit.
func (s *SessionService) UnitLocation(unitID int64) (entities.UnitLocation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loc, ok := s.record.UnitLocations[unitID]
	return loc, ok
}

// Token returns the current session token, empty when logged out.
func (s *SessionService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record.Token
}

// Record returns a copy of the current in-memory session record.
func (s *SessionService) Record() entities.SessionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *SessionService) snapshotLocked() entities.SessionRecord {
	snapshot := s.record
	snapshot.UnitLocations = make(map[int64]entities.UnitLocation, len(s.record.UnitLocations))
	for id, loc := range s.record.UnitLocations {
		snapshot.UnitLocations[id] = loc
	}
	return snapshot
}

func (s *SessionService) setString(ctx context.Context, key, value string, log *zerolog.Logger) {
	if err := s.store.Set(ctx, key, []byte(value), 0); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("session key write failed")
	}
}

func (s *SessionService) setJSON(ctx context.Context, key string, value any, log *zerolog.Logger) {
	payload, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("session key encode failed")
		return
	}
	if err := s.store.Set(ctx, key, payload, 0); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("session key write failed")
	}
}

func logCorrupt(log *zerolog.Logger, key string, err error) {
	log.Warn().
		Err(apperrors.NewPersistenceError("stored session key is unparseable", err)).
		Str("key", key).
		Msg("dropping corrupt session key")
}

// tokenExpired reads the exp claim without verifying the signature;
// verification is the backend's job, this only avoids restoring a token
// the backend is guaranteed to reject. Opaque tokens pass through.
func tokenExpired(token string) bool {
	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
