package service

import (
	"sync"
	"testing"

	"github.com/fitai/fitai/internal/model"
	"github.com/fitai/fitai/internal/repository"
	"github.com/stretchr/testify/require"
)

type stubFavoriteRepo struct {
	mu        sync.Mutex
	rows      map[[2]string]bool
	knownVids map[string]bool

	afterDelete func() // test hook, runs after Delete releases the lock
}

func newStubFavoriteRepo(videoIDs ...string) *stubFavoriteRepo {
	known := map[string]bool{}
	for _, id := range videoIDs {
		known[id] = true
	}
	return &stubFavoriteRepo{rows: map[[2]string]bool{}, knownVids: known}
}

func (r *stubFavoriteRepo) Create(f *model.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.knownVids[f.VideoID] {
		return repository.ErrVideoNotFound
	}
	key := [2]string{f.UserID, f.VideoID}
	if r.rows[key] {
		return repository.ErrDuplicateFavorite
	}
	r.rows[key] = true
	return nil
}

func (r *stubFavoriteRepo) Delete(userID, videoID string) (bool, error) {
	r.mu.Lock()
	key := [2]string{userID, videoID}
	removed := r.rows[key]
	delete(r.rows, key)
	r.mu.Unlock()

	if r.afterDelete != nil {
		r.afterDelete()
	}
	return removed, nil
}

func (r *stubFavoriteRepo) VideoIDs(userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for key := range r.rows {
		if key[0] == userID {
			ids = append(ids, key[1])
		}
	}
	return ids, nil
}

func TestToggle(t *testing.T) {
	repo := newStubFavoriteRepo("v1")
	svc := NewFavoriteService(repo)

	result, err := svc.Toggle("u1", "v1")
	require.NoError(t, err)
	require.Equal(t, ToggleAdded, result.Status)
	require.True(t, result.Favorited)

	result, err = svc.Toggle("u1", "v1")
	require.NoError(t, err)
	require.Equal(t, ToggleRemoved, result.Status)
	require.False(t, result.Favorited)

	// Toggling back on works again
	result, err = svc.Toggle("u1", "v1")
	require.NoError(t, err)
	require.True(t, result.Favorited)
}

func TestToggleUnknownVideo(t *testing.T) {
	svc := NewFavoriteService(newStubFavoriteRepo())

	_, err := svc.Toggle("u1", "missing")
	require.ErrorIs(t, err, repository.ErrVideoNotFound)
}

func TestToggleIsPerUser(t *testing.T) {
	repo := newStubFavoriteRepo("v1")
	svc := NewFavoriteService(repo)

	_, err := svc.Toggle("u1", "v1")
	require.NoError(t, err)

	result, err := svc.Toggle("u2", "v1")
	require.NoError(t, err)
	require.Equal(t, ToggleAdded, result.Status, "another user's favorite is independent")

	ids, err := svc.VideoIDs("u1")
	require.NoError(t, err)
	require.Equal(t, []string{"v1"}, ids)
}

func TestToggleLostInsertRace(t *testing.T) {
	repo := newStubFavoriteRepo("v1")
	svc := NewFavoriteService(repo)

	// A concurrent toggle inserts between our delete and insert; losing the
	// insert still reports the favorite as present
	repo.afterDelete = func() {
		_ = repo.Create(&model.Favorite{UserID: "u1", VideoID: "v1"})
	}

	result, err := svc.Toggle("u1", "v1")
	require.NoError(t, err)
	require.Equal(t, ToggleAdded, result.Status)
	require.True(t, result.Favorited)
}
