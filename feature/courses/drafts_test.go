package courses

import (
	"sync"
	"testing"
	"time"

	"course-studio/core/reconcile"
	"course-studio/core/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = session.Session{UserID: "alice", Role: session.RoleAdmin}
	bob   = session.Session{UserID: "bob", Role: session.RoleAdmin}
)

func TestDrafts_OwnerOnly(t *testing.T) {
	d := NewDrafts(0)
	id := d.Open(alice, reconcile.NewEditor(nil, alice, nil, reconcile.ApplyOptions{}))

	assert.NoError(t, d.With(alice, id, func(*reconcile.Editor) error { return nil }))
	assert.ErrorIs(t, d.With(bob, id, func(*reconcile.Editor) error { return nil }), ErrDraftNotFound)
	assert.ErrorIs(t, d.Discard(bob, id), ErrDraftNotFound)

	require.NoError(t, d.Discard(alice, id))
	assert.ErrorIs(t, d.With(alice, id, func(*reconcile.Editor) error { return nil }), ErrDraftNotFound)
}

func TestDrafts_DuplicateSaveRejected(t *testing.T) {
	d := NewDrafts(0)
	id := d.Open(alice, reconcile.NewEditor(nil, alice, nil, reconcile.ApplyOptions{}))

	started := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = d.Save(alice, id, func(*reconcile.Editor) error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	err := d.Save(alice, id, func(*reconcile.Editor) error { return nil })
	assert.ErrorIs(t, err, ErrDraftBusy)

	close(release)
	wg.Wait()
	assert.NoError(t, d.Save(alice, id, func(*reconcile.Editor) error { return nil }))
}

func TestDrafts_TTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	d := NewDrafts(time.Minute)
	d.now = func() time.Time { return now }

	stale := d.Open(alice, reconcile.NewEditor(nil, alice, nil, reconcile.ApplyOptions{}))
	now = now.Add(30 * time.Second)
	fresh := d.Open(alice, reconcile.NewEditor(nil, alice, nil, reconcile.ApplyOptions{}))
	assert.Equal(t, 2, d.Len())

	now = now.Add(45 * time.Second)
	assert.Equal(t, 1, d.Len())
	assert.ErrorIs(t, d.With(alice, stale, func(*reconcile.Editor) error { return nil }), ErrDraftNotFound)

	// Access refreshes the idle timer.
	require.NoError(t, d.With(alice, fresh, func(*reconcile.Editor) error { return nil }))
	now = now.Add(50 * time.Second)
	assert.Equal(t, 1, d.Len())
}
