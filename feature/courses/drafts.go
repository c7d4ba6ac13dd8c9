package courses

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"course-studio/core/reconcile"
	"course-studio/core/session"

	"github.com/google/uuid"
)

var (
	// ErrDraftNotFound is returned for unknown, expired or foreign drafts.
	ErrDraftNotFound = errors.New("draft not found")
	// ErrDraftBusy is returned when a save is already running on the draft.
	ErrDraftBusy = errors.New("draft is being saved")
)

type draftEntry struct {
	mu      sync.Mutex
	editor  *reconcile.Editor
	owner   string
	saving  atomic.Bool
	touched atomic.Int64
}

// Drafts keeps the open editing sessions. Each draft is owned by the user that
// opened it and requests against one draft are serialized.
type Drafts struct {
	mu      sync.Mutex
	entries map[string]*draftEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewDrafts creates a registry that drops drafts idle for longer than ttl.
// A ttl of zero keeps drafts until they are discarded.
func NewDrafts(ttl time.Duration) *Drafts {
	return &Drafts{
		entries: make(map[string]*draftEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Open registers editor for s and returns the draft id.
func (d *Drafts) Open(s session.Session, editor *reconcile.Editor) string {
	id := uuid.NewString()
	entry := &draftEntry{editor: editor, owner: s.UserID}
	entry.touched.Store(d.now().UnixNano())

	d.mu.Lock()
	defer d.mu.Unlock()
	d.sweepLocked()
	d.entries[id] = entry
	return id
}

// With runs fn on the draft's editor while holding the draft lock.
func (d *Drafts) With(s session.Session, id string, fn func(*reconcile.Editor) error) error {
	entry, err := d.lookup(s, id)
	if err != nil {
		return err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.touched.Store(d.now().UnixNano())
	return fn(entry.editor)
}

// Save is With for saves: a second save while one is running fails with
// ErrDraftBusy instead of waiting.
func (d *Drafts) Save(s session.Session, id string, fn func(*reconcile.Editor) error) error {
	entry, err := d.lookup(s, id)
	if err != nil {
		return err
	}
	if !entry.saving.CompareAndSwap(false, true) {
		return ErrDraftBusy
	}
	defer entry.saving.Store(false)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.touched.Store(d.now().UnixNano())
	return fn(entry.editor)
}

// Discard drops a draft without saving it.
func (d *Drafts) Discard(s session.Session, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	entry, ok := d.entries[id]
	if !ok || entry.owner != s.UserID {
		return ErrDraftNotFound
	}
	delete(d.entries, id)
	return nil
}

// Len returns the number of open drafts.
func (d *Drafts) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sweepLocked()
	return len(d.entries)
}

func (d *Drafts) lookup(s session.Session, id string) (*draftEntry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sweepLocked()
	entry, ok := d.entries[id]
	if !ok || entry.owner != s.UserID {
		return nil, ErrDraftNotFound
	}
	return entry, nil
}

// sweepLocked drops idle drafts. Drafts in the middle of a save are kept.
func (d *Drafts) sweepLocked() {
	if d.ttl <= 0 {
		return
	}
	cutoff := d.now().Add(-d.ttl).UnixNano()
	for id, entry := range d.entries {
		if entry.touched.Load() < cutoff && !entry.saving.Load() {
			delete(d.entries, id)
		}
	}
}
