package store

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vantage/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenSeedsDefaultSession(t *testing.T) {
	s := newTestStore(t)

	sessions := s.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, DefaultSessionName, sessions[0].Name)
	assert.NotEmpty(t, sessions[0].ID)
	assert.Equal(t, sessions[0].ID, s.Active().ID)
}

func TestNewSessionPrependsAndActivates(t *testing.T) {
	s := newTestStore(t)
	s.SetActiveLeads([]types.Lead{{Name: "Stale"}})

	sess, err := s.NewSession("Boston Sweep")
	require.NoError(t, err)

	sessions := s.Sessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, sess.ID, sessions[0].ID, "new session must appear first")
	assert.Equal(t, sess.ID, s.Active().ID)
	assert.Empty(t, s.ActiveLeads(), "creating a session clears the active lead set")
}

func TestNewSessionDefaultName(t *testing.T) {
	s := newTestStore(t)

	sess, err := s.NewSession("")
	require.NoError(t, err)
	assert.Equal(t, "Market Analysis 2", sess.Name)
}

func TestSelectClearsLeads(t *testing.T) {
	s := newTestStore(t)
	first := s.Active()
	second, err := s.NewSession("Second")
	require.NoError(t, err)

	s.SetActiveLeads([]types.Lead{{Name: "Ephemeral"}})
	s.Select(first.ID)

	assert.Equal(t, first.ID, s.Active().ID)
	assert.Empty(t, s.ActiveLeads())

	// Selecting the already-active session is a no-op on content and still
	// clears the lead set.
	s.SetActiveLeads([]types.Lead{{Name: "Again"}})
	s.Select(first.ID)
	assert.Empty(t, s.ActiveLeads())
	assert.Len(t, s.Sessions(), 2)
	_ = second
}

func TestSelectUnknownIDIsNoOp(t *testing.T) {
	s := newTestStore(t)
	active := s.Active().ID
	s.SetActiveLeads([]types.Lead{{Name: "Kept"}})

	s.Select("nope")

	assert.Equal(t, active, s.Active().ID)
	assert.Len(t, s.ActiveLeads(), 1)
}

func TestAppendUnknownSessionLeavesStoreUnchanged(t *testing.T) {
	s := newTestStore(t)
	before := s.Sessions()

	err := s.Append("does-not-exist", types.Message{ID: "m1", Role: types.RoleUser, Text: "hi"})
	require.NoError(t, err)

	if diff := cmp.Diff(before, s.Sessions()); diff != "" {
		t.Errorf("store changed (-before +after):\n%s", diff)
	}
}

func TestAppendOrderPreserved(t *testing.T) {
	s := newTestStore(t)
	id := s.Active().ID

	for _, text := range []string{"one", "two", "three"} {
		require.NoError(t, s.Append(id, types.Message{ID: text, Role: types.RoleUser, Text: text, Timestamp: time.Now()}))
	}

	msgs := s.Active().Messages
	require.Len(t, msgs, 3)
	assert.Equal(t, "one", msgs[0].Text)
	assert.Equal(t, "two", msgs[1].Text)
	assert.Equal(t, "three", msgs[2].Text)
}

func TestRoundTripPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")

	s, err := Open(path, nil)
	require.NoError(t, err)

	sess, err := s.NewSession("Roundtrip")
	require.NoError(t, err)
	msg := types.Message{
		ID:        "m1",
		Role:      types.RoleModel,
		Text:      "summary",
		Timestamp: time.Now().UTC(),
		GroundingSources: []types.GroundingSource{
			{Title: "Web Source", URI: "https://a.test"},
		},
		RelatedLeads: []types.Lead{{Name: "Acme", Rating: "4.5"}},
	}
	require.NoError(t, s.Append(sess.ID, msg))
	before := s.Sessions()
	require.NoError(t, s.Close())

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	if diff := cmp.Diff(before, reopened.Sessions()); diff != "" {
		t.Errorf("sessions did not round-trip (-before +after):\n%s", diff)
	}
	// Active lead set is ephemeral and never survives a restart.
	assert.Empty(t, reopened.ActiveLeads())
}

func TestSelectionSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")

	s, err := Open(path, nil)
	require.NoError(t, err)
	original := s.Active()
	_, err = s.NewSession("Newest")
	require.NoError(t, err)
	s.Select(original.ID)
	require.NoError(t, s.Close())

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	// The chosen session stays active even though it is no longer first.
	assert.Equal(t, original.ID, reopened.Active().ID)
	assert.Equal(t, "Newest", reopened.Sessions()[0].Name)
}

func TestCorruptSnapshotRecoversToDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")

	s, err := Open(path, nil)
	require.NoError(t, err)
	_, err = s.NewSession("Will be lost")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec("UPDATE snapshot SET payload = 'not json'")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	recovered, err := Open(path, nil)
	require.NoError(t, err)
	defer recovered.Close()

	sessions := recovered.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, DefaultSessionName, sessions[0].Name)
}
