package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"parley/pkg/models"
)

var errTest = errors.New("boom")

func openTemp(t *testing.T) {
	t.Helper()
	require.NoError(t, Open(t.TempDir()))
	t.Cleanup(func() { require.NoError(t, Close()) })
}

func TestUpdatePersistsAcrossLoads(t *testing.T) {
	openTemp(t)

	require.NoError(t, Update(func(s *models.Snapshot) error {
		s.Users = append(s.Users, models.User{ID: 0, Email: "ada@example.com"})
		s.Channels = append(s.Channels, models.Channel{ID: s.NextID(), Name: "general"})
		return nil
	}))

	require.NoError(t, View(func(s *models.Snapshot) error {
		require.Len(t, s.Users, 1)
		require.Len(t, s.Channels, 1)
		require.Equal(t, int64(1), s.IDCounter)
		return nil
	}))
}

func TestUpdateErrorDiscardsMutation(t *testing.T) {
	openTemp(t)

	sentinel := require.New(t)
	err := Update(func(s *models.Snapshot) error {
		s.Users = append(s.Users, models.User{ID: 0})
		return errTest
	})
	sentinel.ErrorIs(err, errTest)

	require.NoError(t, View(func(s *models.Snapshot) error {
		require.Empty(t, s.Users)
		return nil
	}))
}

func TestFreshDatabaseIsEmpty(t *testing.T) {
	openTemp(t)
	require.NoError(t, View(func(s *models.Snapshot) error {
		require.Empty(t, s.Users)
		require.Empty(t, s.Channels)
		require.Empty(t, s.DMs)
		require.Zero(t, s.IDCounter)
		return nil
	}))
}

func TestReset(t *testing.T) {
	openTemp(t)
	require.NoError(t, Update(func(s *models.Snapshot) error {
		s.Users = append(s.Users, models.User{ID: 0})
		return nil
	}))
	require.NoError(t, Reset())
	require.NoError(t, View(func(s *models.Snapshot) error {
		require.Empty(t, s.Users)
		return nil
	}))
}

func TestVersionRoundTrip(t *testing.T) {
	openTemp(t)
	v, err := Version()
	require.NoError(t, err)
	require.Empty(t, v)

	require.NoError(t, SetVersion("1.2.3"))
	v, err = Version()
	require.NoError(t, err)
	require.Equal(t, "1.2.3", v)
}
