package repository

import (
	"testing"
	"time"

	"github.com/fitai/fitai/internal/model"
	"github.com/stretchr/testify/require"
)

func seedVideo(t *testing.T, repo VideoRepository, id, ownerID string) *model.Video {
	t.Helper()
	video := &model.Video{
		ID:           id,
		OwnerID:      ownerID,
		StorageKey:   ownerID + "/" + id + ".mp4",
		PublicURL:    "https://blobs.test/" + ownerID + "/" + id + ".mp4",
		Title:        "Video " + id,
		ExerciseType: "squat",
		Status:       model.VideoStatusUploaded,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.Create(video))
	return video
}

func TestVideoCreateAndByID(t *testing.T) {
	repo := NewVideoRepository(testDB(t))

	created := seedVideo(t, repo, "v1", "u1")

	got, err := repo.ByID("v1")
	require.NoError(t, err)
	require.Equal(t, created.StorageKey, got.StorageKey)
	require.Equal(t, model.VideoStatusUploaded, got.Status)
	require.Nil(t, got.AnalysisResult)
	require.Nil(t, got.ErrorContext)

	_, err = repo.ByID("missing")
	require.ErrorIs(t, err, ErrVideoNotFound)
}

func TestVideoByOwnerOrdersNewestFirst(t *testing.T) {
	database := testDB(t)
	repo := NewVideoRepository(database)

	older := seedVideo(t, repo, "v1", "u1")
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	_, err := database.Exec(`UPDATE videos SET created_at = $1 WHERE id = $2`, older.CreatedAt, "v1")
	require.NoError(t, err)

	seedVideo(t, repo, "v2", "u1")
	seedVideo(t, repo, "v3", "other-user")

	videos, err := repo.ByOwner("u1")
	require.NoError(t, err)
	require.Len(t, videos, 2)
	require.Equal(t, "v2", videos[0].ID)
	require.Equal(t, "v1", videos[1].ID)

	count, err := repo.CountByOwner("u1")
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestVideoStatusTransitions(t *testing.T) {
	repo := NewVideoRepository(testDB(t))
	seedVideo(t, repo, "v1", "u1")

	require.NoError(t, repo.SetProcessing("v1"))
	got, err := repo.ByID("v1")
	require.NoError(t, err)
	require.Equal(t, model.VideoStatusProcessing, got.Status)

	require.NoError(t, repo.SetFailed("v1", "pose model timeout"))
	got, err = repo.ByID("v1")
	require.NoError(t, err)
	require.Equal(t, model.VideoStatusFailed, got.Status)
	require.NotNil(t, got.ErrorContext)
	require.Equal(t, "pose model timeout", *got.ErrorContext)

	// A late success clears the stale error context
	require.NoError(t, repo.SetAnalyzed("v1", `{"score":9}`))
	got, err = repo.ByID("v1")
	require.NoError(t, err)
	require.Equal(t, model.VideoStatusAnalyzed, got.Status)
	require.NotNil(t, got.AnalysisResult)
	require.Equal(t, `{"score":9}`, *got.AnalysisResult)
	require.Nil(t, got.ErrorContext)

	require.ErrorIs(t, repo.SetAnalyzed("missing", "{}"), ErrVideoNotFound)
	require.ErrorIs(t, repo.SetFailed("missing", "x"), ErrVideoNotFound)
}

func TestVideoDelete(t *testing.T) {
	repo := NewVideoRepository(testDB(t))
	seedVideo(t, repo, "v1", "u1")

	require.NoError(t, repo.Delete("v1"))
	_, err := repo.ByID("v1")
	require.ErrorIs(t, err, ErrVideoNotFound)

	require.ErrorIs(t, repo.Delete("v1"), ErrVideoNotFound)
}

func TestVideoDuplicateStorageKey(t *testing.T) {
	repo := NewVideoRepository(testDB(t))
	video := seedVideo(t, repo, "v1", "u1")

	dup := *video
	dup.ID = "v2"
	require.Error(t, repo.Create(&dup), "storage keys are unique")
}
