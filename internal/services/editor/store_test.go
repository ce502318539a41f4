package editor

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/profile"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb, ttl), mr
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"redis": func(t *testing.T) Store {
			s, _ := newRedisStore(t, time.Hour)
			return s
		},
	}

	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			ctx := context.Background()
			uid := uuid.New()

			_, err := s.Load(ctx, uid)
			assert.ErrorIs(t, err, ErrNoDraft)

			d := Draft{}.
				WithPersonal(Personal{Biography: "Backend", Location: "Bandung"}).
				WithExperience(Experience{Skills: []profile.SkillInput{{TechnologyID: uuid.New()}}})
			require.NoError(t, s.Save(ctx, uid, d))

			got, err := s.Load(ctx, uid)
			require.NoError(t, err)
			assert.Equal(t, "Backend", got.Personal.Biography)
			assert.Equal(t, "Bandung", got.Personal.Location)
			assert.Equal(t, d.Experience.Skills, got.Experience.Skills)

			_, err = s.Load(ctx, uuid.New())
			assert.ErrorIs(t, err, ErrNoDraft, "drafts are per user")

			require.NoError(t, s.Delete(ctx, uid))
			_, err = s.Load(ctx, uid)
			assert.ErrorIs(t, err, ErrNoDraft)
		})
	}
}

func TestRedisStoreKeyAndTTL(t *testing.T) {
	s, mr := newRedisStore(t, 30*time.Minute)
	ctx := context.Background()
	uid := uuid.New()

	require.NoError(t, s.Save(ctx, uid, Draft{}.WithPersonal(Personal{Phone: "+62"})))

	key := "editor:draft:" + uid.String()
	require.True(t, mr.Exists(key))
	assert.Equal(t, 30*time.Minute, mr.TTL(key))

	got, err := s.Load(ctx, uid)
	require.NoError(t, err)
	assert.NotNil(t, got.Experience.Skills, "loaded drafts are normalized")

	mr.FastForward(31 * time.Minute)
	_, err = s.Load(ctx, uid)
	assert.ErrorIs(t, err, ErrNoDraft, "drafts expire")
}

func TestRedisStoreRejectsCorruptDraft(t *testing.T) {
	s, mr := newRedisStore(t, time.Hour)
	uid := uuid.New()
	require.NoError(t, mr.Set("editor:draft:"+uid.String(), "{not json"))

	_, err := s.Load(context.Background(), uid)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoDraft)
}
