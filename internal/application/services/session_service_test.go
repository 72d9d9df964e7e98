package services_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muharrempasbiyik/yoldancek/internal/adapters/cache"
	"github.com/muharrempasbiyik/yoldancek/internal/application/services"
	"github.com/muharrempasbiyik/yoldancek/internal/domain/entities"
)

// unsignedJWT builds a syntactically valid token with the given exp claim,
// signature left empty. Restore only reads claims, it never verifies.
func unsignedJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload, err := json.Marshal(map[string]any{"exp": exp.Unix()})
	require.NoError(t, err)
	claims := base64.RawURLEncoding.EncodeToString(payload)
	return fmt.Sprintf("%s.%s.", header, claims)
}

func TestSessionService_PersistRestore(t *testing.T) {
	store := cache.NewMemoryAdapter()
	session := services.NewSessionService(store)
	ctx := context.Background()

	user := entities.UserSummary{Name: "Yıldız Nakliyat", Email: "info@yildiz.example"}
	profile := entities.Profile{FirstName: "Ayşe", LastName: "Yıldız", Email: "info@yildiz.example"}

	session.Start(ctx, "opaque-token", user, profile)
	session.RecordUnitLocation(42, "Ankara", "Çankaya")
	session.Persist(ctx)

	restored := services.NewSessionService(store).Restore(ctx)
	assert.Equal(t, "opaque-token", restored.Token)
	assert.Equal(t, user, restored.User)
	assert.Equal(t, profile, restored.Profile)
	require.Contains(t, restored.UnitLocations, int64(42))
	assert.Equal(t, entities.UnitLocation{City: "Ankara", District: "Çankaya"}, restored.UnitLocations[42])
}

func TestSessionService_RestoreTolerance(t *testing.T) {
	ctx := context.Background()

	t.Run("one corrupt key does not block the rest", func(t *testing.T) {
		store := cache.NewMemoryAdapter()
		session := services.NewSessionService(store)
		session.Start(ctx, "opaque-token", entities.UserSummary{Name: "Test"}, entities.Profile{FirstName: "A"})
		session.RecordUnitLocation(1, "Ankara", "Çankaya")
		session.Persist(ctx)

		require.NoError(t, store.Set(ctx, "yd:profile", []byte("{not json"), 0))

		restored := services.NewSessionService(store).Restore(ctx)
		assert.Equal(t, "opaque-token", restored.Token)
		assert.Equal(t, "Test", restored.User.Name)
		assert.Equal(t, entities.Profile{}, restored.Profile)
		assert.Contains(t, restored.UnitLocations, int64(1))
	})

	t.Run("expired jwt is dropped, valid jwt survives", func(t *testing.T) {
		store := cache.NewMemoryAdapter()
		require.NoError(t, store.Set(ctx, "yd:auth-token", []byte(unsignedJWT(t, time.Now().Add(-time.Hour))), 0))
		restored := services.NewSessionService(store).Restore(ctx)
		assert.Empty(t, restored.Token)

		live := unsignedJWT(t, time.Now().Add(time.Hour))
		require.NoError(t, store.Set(ctx, "yd:auth-token", []byte(live), 0))
		restored = services.NewSessionService(store).Restore(ctx)
		assert.Equal(t, live, restored.Token)
	})

	t.Run("opaque token passes the expiry check", func(t *testing.T) {
		store := cache.NewMemoryAdapter()
		require.NoError(t, store.Set(ctx, "yd:auth-token", []byte("not-a-jwt"), 0))
		restored := services.NewSessionService(store).Restore(ctx)
		assert.Equal(t, "not-a-jwt", restored.Token)
	})

	t.Run("empty store restores an empty record", func(t *testing.T) {
		restored := services.NewSessionService(cache.NewMemoryAdapter()).Restore(ctx)
		assert.Empty(t, restored.Token)
		assert.NotNil(t, restored.UnitLocations)
		assert.Empty(t, restored.UnitLocations)
	})
}

func TestSessionService_UnitLocations(t *testing.T) {
	session := newSession()

	t.Run("last write wins per unit", func(t *testing.T) {
		session.RecordUnitLocation(7, "Ankara", "Çankaya")
		session.RecordUnitLocation(7, "İstanbul", "Kadıköy")

		loc, ok := session.UnitLocation(7)
		require.True(t, ok)
		assert.Equal(t, "İstanbul", loc.City)
		assert.Equal(t, "Kadıköy", loc.District)
	})

	t.Run("zero unit id is not recorded", func(t *testing.T) {
		session.RecordUnitLocation(0, "Ankara", "Çankaya")
		_, ok := session.UnitLocation(0)
		assert.False(t, ok)
	})
}

func TestSessionService_Clear(t *testing.T) {
	store := cache.NewMemoryAdapter()
	session := services.NewSessionService(store)
	ctx := context.Background()

	session.Start(ctx, "opaque-token", entities.UserSummary{Name: "Test"}, entities.Profile{})
	session.RecordUnitLocation(3, "Ankara", "Çankaya")
	session.Persist(ctx)

	session.Clear(ctx)

	assert.Empty(t, session.Token())
	restored := services.NewSessionService(store).Restore(ctx)
	assert.Empty(t, restored.Token)
	assert.Empty(t, restored.UnitLocations)
}
