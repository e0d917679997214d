package handler

import (
	"context"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/fitai/fitai/internal/config"
	"github.com/fitai/fitai/internal/ctxkeys"
	"github.com/fitai/fitai/internal/db"
	"github.com/fitai/fitai/internal/model"
	"github.com/fitai/fitai/internal/repository"
	"github.com/fitai/fitai/internal/service"
	"github.com/fitai/fitai/internal/storage"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	mu       sync.Mutex
	saved    map[string][]byte
	failSave error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{saved: map[string][]byte{}}
}

func (s *fakeStorage) Save(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave != nil {
		return s.failSave
	}
	if _, exists := s.saved[key]; exists {
		return storage.ErrObjectExists
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.saved[key] = data
	return nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.saved, key)
	return nil
}

func (s *fakeStorage) PublicURL(key string) string {
	return "https://blobs.test/" + key
}

type fakeNotifier struct{}

func (fakeNotifier) Notify(context.Context, *model.Video, string) error { return nil }

type testEnv struct {
	db           *sqlx.DB
	storage      *fakeStorage
	videoRepo    repository.VideoRepository
	favoriteRepo repository.FavoriteRepository
	profileRepo  repository.ProfileRepository
	videoService *service.VideoService
	cfg          *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := sqlx.Connect("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	database.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	store := newFakeStorage()
	videoRepo := repository.NewVideoRepository(database)

	return &testEnv{
		db:           database,
		storage:      store,
		videoRepo:    videoRepo,
		favoriteRepo: repository.NewFavoriteRepository(database),
		profileRepo:  repository.NewProfileRepository(database),
		videoService: service.NewVideoService(videoRepo, store, fakeNotifier{}, 3),
		cfg: &config.Config{
			UploadMaxBytes:        100 << 20,
			UploadMaxFiles:        3,
			AnalysisWebhookSecret: "hook-secret",
		},
	}
}

// asUser attaches an authenticated user to the request context, the way the
// auth middleware would.
func asUser(r *http.Request, userID string) *http.Request {
	ctx := ctxkeys.WithUserID(r.Context(), userID)
	ctx = ctxkeys.WithBearerToken(ctx, "test-token")
	return r.WithContext(ctx)
}
