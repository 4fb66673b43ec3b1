package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certtrack/certtrack-api/internal/models"
)

func TestFileUserStateRepositoryLoadMissingIsEmpty(t *testing.T) {
	repo, err := NewFileUserStateRepository(t.TempDir())
	require.NoError(t, err)

	state, err := repo.Load("u1")
	require.NoError(t, err)
	assert.Empty(t, state.Favorites)
	assert.Empty(t, state.Applications)
	assert.Empty(t, state.Completed)
}

func TestFileUserStateRepositorySaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileUserStateRepository(dir)
	require.NoError(t, err)

	state := models.UserState{
		Favorites: []string{"c1", "c2"},
		Applications: []models.FundingApplication{
			{ID: "a1", UserID: "u1", CertificationID: "c1", Status: models.ApplicationPending, CreatedAt: time.Now().UTC()},
		},
		Completed: []models.CompletedCertification{
			{ID: "x1", CertificationName: "External Cert", IsExternal: true, CompletedAt: time.Now().UTC()},
		},
	}
	require.NoError(t, repo.Save("u1", state))

	loaded, err := repo.Load("u1")
	require.NoError(t, err)
	assert.Equal(t, state.Favorites, loaded.Favorites)
	require.Len(t, loaded.Applications, 1)
	assert.Equal(t, models.ApplicationPending, loaded.Applications[0].Status)
	require.Len(t, loaded.Completed, 1)
	assert.True(t, loaded.Completed[0].IsExternal)

	// No stray temp file left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "u1.json", entries[0].Name())
}

func TestFileUserStateRepositoryMutate(t *testing.T) {
	repo, err := NewFileUserStateRepository(t.TempDir())
	require.NoError(t, err)

	err = repo.Mutate("u1", func(s *models.UserState) (bool, error) {
		s.Favorites = append(s.Favorites, "c1")
		return true, nil
	})
	require.NoError(t, err)

	state, err := repo.Load("u1")
	require.NoError(t, err)
	assert.True(t, state.IsFavorite("c1"))

	// Unchanged mutations skip the write.
	err = repo.Mutate("u2", func(s *models.UserState) (bool, error) { return false, nil })
	require.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(repo.dir, "u2.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileUserStateRepositorySanitizesUserID(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileUserStateRepository(dir)
	require.NoError(t, err)

	require.NoError(t, repo.Save("../evil", models.UserState{Favorites: []string{"c1"}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "___evil.json", entries[0].Name())
}
