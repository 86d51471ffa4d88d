package tasks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"todo/internal/debounce"
	"todo/internal/storage"
)

const (
	// StorageKey is the storage slot holding the serialized list.
	StorageKey = "tasks"

	// DefaultSaveDelay is the quiescence window before a write.
	DefaultSaveDelay = 300 * time.Millisecond

	// WriteTimeout bounds a background write.
	WriteTimeout = 5 * time.Second
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithClock sets the clock driving the save debounce.
func WithClock(c debounce.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithSaveDelay sets the quiescence window.
func WithSaveDelay(d time.Duration) Option {
	return func(s *Store) { s.delay = d }
}

// WithNow sets the wall clock used to mint task ids.
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store owns the task list.
// Every successful mutation schedules a debounced write of the whole list
// to StorageKey. Storage failures are logged and never surface to callers
// of mutations; the in-memory list stays authoritative.
type Store struct {
	mu      sync.Mutex
	writeMu sync.Mutex

	kv    storage.Storage
	log   zerolog.Logger
	clock debounce.Clock
	delay time.Duration
	now   func() time.Time

	saver *debounce.Debouncer

	tasks  []Task
	lastID int64
	edit   EditState
	del    DeleteState

	version uint64 // bumped on every mutation
	settled uint64 // last version whose write completed
	closed  bool
}

// New creates a Store persisting to kv. Call Initialize before use.
func New(kv storage.Storage, opts ...Option) *Store {
	s := &Store{
		kv:    kv,
		log:   zerolog.Nop(),
		delay: DefaultSaveDelay,
		now:   time.Now,
		tasks: []Task{},
		edit:  EditIdle{},
		del:   DeleteIdle{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.saver = debounce.New(s.delay, s.clock)
	return s
}

// Initialize seeds the list from storage.
// A missing slot, a read failure or an undecodable value all yield an
// empty list. Only a done context is reported.
func (s *Store) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	list := []Task{}
	data, err := s.kv.Get(ctx, StorageKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.log.Debug().Msg("no stored tasks")
	case err != nil:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		s.log.Warn().Err(err).Msg("failed to read stored tasks, starting empty")
	default:
		decoded, err := Decode(data)
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to decode stored tasks, starting empty")
		} else {
			list = decoded
			s.log.Debug().Int("tasks", len(list)).Msg("restored tasks")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = list
	s.lastID = 0
	for _, t := range list {
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}
	s.edit = EditIdle{}
	s.del = DeleteIdle{}
	return nil
}

// Tasks returns a copy of the list in insertion order.
func (s *Store) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get returns the task with the given id.
func (s *Store) Get(id int64) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i], true
}

// Counts returns the number of open and completed tasks.
func (s *Store) Counts() (remaining, completed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.Completed {
			completed++
		} else {
			remaining++
		}
	}
	return remaining, completed
}

// IsSaving reports whether a write is scheduled or in flight.
func (s *Store) IsSaving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settled != s.version
}

// AddTask appends a new open task with trimmed text.
func (s *Store) AddTask(raw string) (Task, error) {
	text, err := NormalizeText(raw)
	if err != nil {
		return Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := Task{ID: s.nextIDLocked(), Text: text}
	s.tasks = append(s.tasks, t)
	s.changedLocked()
	return t, nil
}

// DeleteTask removes the task with the given id.
// An edit or pending deletion of that task is discarded.
func (s *Store) DeleteTask(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(id)
}

func (s *Store) deleteLocked(id int64) error {
	if e, ok := s.edit.(Editing); ok && e.ID == id {
		s.edit = EditIdle{}
	}
	if p, ok := s.del.(DeletePending); ok && p.ID == id {
		s.del = DeleteIdle{}
	}

	i := s.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	s.changedLocked()
	return nil
}

// ToggleComplete flips the completed flag of the task with the given id.
func (s *Store) ToggleComplete(id int64) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.changedLocked()
	return s.tasks[i], nil
}

// EditTask replaces the text of the task with the given id, keeping its id
// and completed flag. An open edit session on that task is closed.
func (s *Store) EditTask(id int64, newText string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editLocked(id, newText)
}

func (s *Store) editLocked(id int64, newText string) (Task, error) {
	text, err := NormalizeText(newText)
	if err != nil {
		return Task{}, err
	}

	i := s.indexLocked(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	s.tasks[i].Text = text
	if e, ok := s.edit.(Editing); ok && e.ID == id {
		s.edit = EditIdle{}
	}
	s.changedLocked()
	return s.tasks[i], nil
}

// StartEdit opens an edit session on id with draft text, replacing any
// open session. A deletion pending on the same task is withdrawn.
func (s *Store) StartEdit(id int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(id) < 0 {
		return ErrNotFound
	}
	if p, ok := s.del.(DeletePending); ok && p.ID == id {
		s.del = DeleteIdle{}
	}
	s.edit = Editing{ID: id, Draft: text}
	return nil
}

// SetDraft replaces the draft of the open edit session.
func (s *Store) SetDraft(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.edit.(Editing)
	if !ok {
		return ErrNoEditSession
	}
	e.Draft = text
	s.edit = e
	return nil
}

// SaveEdit commits newText to the task under edit and closes the session.
// Invalid text leaves the session open with newText as its draft.
func (s *Store) SaveEdit(newText string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.edit.(Editing)
	if !ok {
		return Task{}, ErrNoEditSession
	}

	t, err := s.editLocked(e.ID, newText)
	switch {
	case errors.Is(err, ErrNotFound):
		s.edit = EditIdle{}
	case err != nil:
		s.edit = Editing{ID: e.ID, Draft: newText}
	}
	return t, err
}

// CancelEdit discards the draft and closes the session.
func (s *Store) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edit = EditIdle{}
}

// EditState returns the current edit session state.
func (s *Store) EditState() EditState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edit
}

// RequestDelete marks id as awaiting confirmation, replacing any previous
// request. An edit session on the same task is discarded.
func (s *Store) RequestDelete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(id) < 0 {
		return ErrNotFound
	}
	if e, ok := s.edit.(Editing); ok && e.ID == id {
		s.edit = EditIdle{}
	}
	s.del = DeletePending{ID: id}
	return nil
}

// ConfirmDelete deletes the pending task and clears the request.
func (s *Store) ConfirmDelete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.del.(DeletePending)
	if !ok {
		return ErrNoPendingDelete
	}
	s.del = DeleteIdle{}
	err := s.deleteLocked(p.ID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// CancelDelete clears the pending request without deleting.
func (s *Store) CancelDelete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.del = DeleteIdle{}
}

// DeleteState returns the current delete confirmation state.
func (s *Store) DeleteState() DeleteState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.del
}

// Flush writes immediately if a write is scheduled, instead of waiting for
// the quiescence window.
func (s *Store) Flush(ctx context.Context) error {
	s.saver.Cancel()

	s.mu.Lock()
	dirty := !s.closed && s.settled != s.version
	s.mu.Unlock()
	if !dirty {
		return nil
	}
	return s.write(ctx)
}

// Close releases the pending write timer. Nothing is written afterwards.
// A write already in flight is allowed to finish.
func (s *Store) Close() {
	s.saver.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.settled = s.version
}

func (s *Store) changedLocked() {
	s.version++
	if s.closed {
		// no write will follow
		s.settled = s.version
		return
	}
	s.saver.Schedule(s.persist)
}

// persist is the debounced write; failures are logged only.
func (s *Store) persist() {
	ctx, cancel := context.WithTimeout(context.Background(), WriteTimeout)
	defer cancel()
	_ = s.write(ctx)
}

// write stores the latest list. Writes are serialized so an older snapshot
// can never land after a newer one.
func (s *Store) write(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	version := s.version
	if s.settled == version {
		s.mu.Unlock()
		return nil
	}
	data, err := Encode(s.tasks)
	count := len(s.tasks)
	s.mu.Unlock()

	if err == nil {
		err = s.kv.Set(ctx, StorageKey, data)
	}

	s.mu.Lock()
	if version > s.settled {
		s.settled = version
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Warn().Err(err).Msg("failed to persist tasks")
		return err
	}
	s.log.Debug().Int("tasks", count).Msg("persisted tasks")
	return nil
}

func (s *Store) indexLocked(id int64) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// nextIDLocked mints a millisecond timestamp id, bumped past the largest id
// seen so ids stay unique when the clock stalls or steps back.
func (s *Store) nextIDLocked() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
