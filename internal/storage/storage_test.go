package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "sub", "svcview.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGetSetDelete(t *testing.T) {
	s := openTemp(t)

	_, err := s.Get(BucketState, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(BucketState, "k", []byte("v")))
	v, err := s.Get(BucketState, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	require.NoError(t, s.Delete(BucketState, "k"))
	_, err = s.Get(BucketState, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnknownBucket(t *testing.T) {
	s := openTemp(t)
	assert.Error(t, s.Set("nope", "k", nil))
	_, err := s.Get("nope", "k")
	assert.Error(t, err)
	_, err = s.Count("nope")
	assert.Error(t, err)
}

func TestJSONRoundTrip(t *testing.T) {
	s := openTemp(t)
	in := InputEntry{Input: "sshd", Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
	require.NoError(t, s.SetJSON(BucketState, "x", in))

	var out InputEntry
	require.NoError(t, s.GetJSON(BucketState, "x", &out))
	assert.Equal(t, in, out)
}

func TestLastInput(t *testing.T) {
	s := openTemp(t)

	_, err := s.LastInput()
	assert.ErrorIs(t, err, ErrNotFound)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveInput("sshd", base))
	require.NoError(t, s.SaveInput("cron, nginx", base.Add(time.Minute)))

	last, err := s.LastInput()
	require.NoError(t, err)
	assert.Equal(t, "cron, nginx", last.Input)
	assert.Equal(t, base.Add(time.Minute), last.Timestamp)
}

func TestRecentInputsNewestFirst(t *testing.T) {
	s := openTemp(t)
	base := time.Date(2024, 1, 1, 0, 0, 5, 100_000_000, time.UTC)

	require.NoError(t, s.SaveInput("a", base))
	require.NoError(t, s.SaveInput("b", base.Add(20*time.Millisecond)))
	require.NoError(t, s.SaveInput("c", base.Add(time.Second)))

	entries, err := s.RecentInputs(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].Input)
	assert.Equal(t, "b", entries[1].Input)

	all, err := s.RecentInputs(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSaveInputPrunesHistory(t *testing.T) {
	s := openTemp(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < DefaultHistorySize+5; i++ {
		require.NoError(t, s.SaveInput("svc", base.Add(time.Duration(i)*time.Second)))
	}

	n, err := s.Count(BucketHistory)
	require.NoError(t, err)
	assert.Equal(t, DefaultHistorySize, n)

	entries, err := s.RecentInputs(0)
	require.NoError(t, err)
	assert.Equal(t, base.Add(time.Duration(DefaultHistorySize+4)*time.Second), entries[0].Timestamp)
	assert.Equal(t, base.Add(5*time.Second), entries[len(entries)-1].Timestamp)
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svcview.db")
	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveInput(":all_services", time.Now()))
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()
	last, err := s.LastInput()
	require.NoError(t, err)
	assert.Equal(t, ":all_services", last.Input)
}

func TestClearHistory(t *testing.T) {
	s := openTemp(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveInput("sshd", base))
	require.NoError(t, s.SaveInput("cron", base.Add(time.Second)))

	n, err := s.HistoryLen()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, s.ClearHistory())

	n, err = s.HistoryLen()
	require.NoError(t, err)
	assert.Zero(t, n)
	_, err = s.LastInput()
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.ClearHistory(), "clearing an empty history is fine")
}
