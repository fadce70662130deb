package controllers

import (
	"context"
	"errors"
	"fmt"
	"pocketblog/db"
	"pocketblog/metrics"
	"pocketblog/models"
	"pocketblog/pagination"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	SiteName    = "Name TBD"
	WelcomeText = "Welcome to my new blog!"
)

// Status is the lifecycle state of the screen's collection.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusCorrupt Status = "corrupt"
)

var (
	ErrRejected     = errors.New("post rejected")
	ErrNotReady     = errors.New("posts are still loading")
	ErrStoreCorrupt = errors.New("post store is corrupt, reset it to continue")
	ErrStoreHealthy = errors.New("post store is not corrupt")
	ErrClosed       = errors.New("screen is closed")
)

// PostStore is the persistence the screen needs.
type PostStore interface {
	Load(ctx context.Context) (models.Collection, error)
	Save(ctx context.Context, c models.Collection) error
	Reset(ctx context.Context) error
}

// View is an immutable snapshot of everything a front end renders.
type View struct {
	Status      Status          `json:"status"`
	Error       string          `json:"error,omitempty"`
	SaveError   string          `json:"save_error,omitempty"`
	SiteName    string          `json:"site_name"`
	Welcome     string          `json:"welcome"`
	Posts       []models.Post   `json:"posts"`
	Page        pagination.Page `json:"page"`
	PostCount   int             `json:"post_count"`
	Theme       Theme           `json:"theme"`
	ThemeToggle string          `json:"theme_toggle"`
	Title       string          `json:"title"`
	Text        string          `json:"text"`
}

// Screen is the blog screen: the post collection, the current page, the
// new-post form and the theme. All methods are safe for concurrent use; the
// screen lock serializes events the way a UI thread would.
type Screen struct {
	store    PostStore
	logger   *zap.Logger
	now      func() time.Time
	onChange func()

	mu        sync.Mutex
	posts     models.Collection
	page      int
	status    Status
	loadErr   error
	saveErr   error
	title     string
	text      string
	theme     themeState
	mountOnce sync.Once
	loaded    *Task[Status]
	saves     *saver
	closed    bool
}

type Option func(*Screen)

// WithClock sets the source of "today" for new posts.
func WithClock(now func() time.Time) Option {
	return func(s *Screen) { s.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Screen) { s.logger = logger }
}

// WithOnChange registers a callback run after state changes that did not come
// from a method call, such as the load settling or a save failing.
func WithOnChange(fn func()) Option {
	return func(s *Screen) { s.onChange = fn }
}

// WithSystemTheme sets the color scheme reported by the host.
func WithSystemTheme(t Theme) Option {
	return func(s *Screen) { s.theme.system = t }
}

// WithFollowSystemTheme drops the initial dark override.
func WithFollowSystemTheme() Option {
	return func(s *Screen) { s.theme.override = nil }
}

func NewScreen(store PostStore, opts ...Option) *Screen {
	dark := ThemeDark
	s := &Screen{
		store:  store,
		logger: zap.NewNop(),
		now:    time.Now,
		posts:  models.Collection{},
		page:   1,
		status: StatusLoading,
		theme:  themeState{system: ThemeLight, override: &dark},
		loaded: NewTask[Status](),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.saves = newSaver(store.Save, s.logger, s.recordSaveError)
	return s
}

// Mount starts loading the stored posts. Only the first call loads; the load
// is not cancelled by ctx ending.
func (s *Screen) Mount(ctx context.Context) *Task[Status] {
	s.mountOnce.Do(func() {
		load := Go(context.WithoutCancel(ctx), s.store.Load)
		go s.awaitLoad(load)
	})
	return s.loaded
}

func (s *Screen) awaitLoad(load *Task[models.Collection]) {
	posts, err := load.Wait(context.Background())

	s.mu.Lock()
	switch {
	case err == nil:
		s.posts = posts
		s.status = StatusReady
		if len(posts) == 0 {
			metrics.StoreLoads.WithLabelValues(metrics.LoadEmpty).Inc()
		} else {
			metrics.StoreLoads.WithLabelValues(metrics.LoadOK).Inc()
		}
		s.logger.Info("posts loaded", zap.Int("posts", len(posts)))
	case errors.Is(err, db.ErrCorruptStore):
		s.status = StatusCorrupt
		s.loadErr = err
		metrics.StoreLoads.WithLabelValues(metrics.LoadCorrupt).Inc()
		s.logger.Error("post store is corrupt", zap.Error(err))
	default:
		// Unreadable backend: treat like corruption so nothing overwrites
		// data that may still be there.
		s.status = StatusCorrupt
		s.loadErr = err
		metrics.StoreLoads.WithLabelValues(metrics.LoadError).Inc()
		s.logger.Error("failed to load posts", zap.Error(err))
	}
	metrics.PostsStored.Set(float64(len(s.posts)))
	status := s.status
	s.mu.Unlock()

	s.loaded.Settle(status, nil)
	s.changed()
}

// Loaded settles once the mount load has been applied.
func (s *Screen) Loaded() *Task[Status] { return s.loaded }

// Snapshot renders the current state.
func (s *Screen) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Screen) viewLocked() View {
	page := pagination.New(len(s.posts), s.page, pagination.PageSize)
	visible := pagination.Slice(s.posts, page.Current, pagination.PageSize)
	posts := make([]models.Post, len(visible))
	copy(posts, visible)

	theme := s.theme.current()
	v := View{
		Status:      s.status,
		SiteName:    SiteName,
		Welcome:     WelcomeText,
		Posts:       posts,
		Page:        page,
		PostCount:   len(s.posts),
		Theme:       theme,
		ThemeToggle: theme.ToggleLabel(),
		Title:       s.title,
		Text:        s.text,
	}
	if s.loadErr != nil {
		v.Error = s.loadErr.Error()
	}
	if s.saveErr != nil {
		v.SaveError = s.saveErr.Error()
	}
	return v
}

// Collection returns a copy of every post, newest first.
func (s *Screen) Collection() models.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.posts.Clone()
}

func (s *Screen) PreviousPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = pagination.Previous(s.page)
	return s.page
}

func (s *Screen) NextPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = pagination.Next(s.page, pagination.TotalPages(len(s.posts), pagination.PageSize))
	return s.page
}

// GoToPage selects page n, clamped to the existing pages.
func (s *Screen) GoToPage(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = pagination.Clamp(n, pagination.TotalPages(len(s.posts), pagination.PageSize))
	return s.page
}

func (s *Screen) SetTitle(title string) {
	s.mu.Lock()
	s.title = title
	s.mu.Unlock()
}

func (s *Screen) SetText(text string) {
	s.mu.Lock()
	s.text = text
	s.mu.Unlock()
}

// SubmitForm submits the form fields. A rejected draft changes nothing and is
// not an error. It does not wait for loading to finish.
func (s *Screen) SubmitForm() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writableLocked(); err != nil {
		return false, err
	}

	next, accepted := Submit(s.title, s.text, s.now(), s.posts)
	if !accepted {
		metrics.Submissions.WithLabelValues("rejected").Inc()
		return false, nil
	}
	s.acceptLocked(next)
	return true, nil
}

// Post composes a post from title and text, waiting for the mount load if it
// is still running. Rejections wrap ErrRejected and the validation error.
func (s *Screen) Post(ctx context.Context, title, text string) (models.Post, error) {
	s.Mount(ctx)
	if _, err := s.loaded.Wait(ctx); err != nil {
		return models.Post{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writableLocked(); err != nil {
		return models.Post{}, err
	}

	post, err := Compose(title, text, s.now())
	if err != nil {
		metrics.Submissions.WithLabelValues("rejected").Inc()
		return models.Post{}, fmt.Errorf("%w: %w", ErrRejected, err)
	}
	s.acceptLocked(s.posts.Prepend(post))
	return post, nil
}

func (s *Screen) writableLocked() error {
	switch {
	case s.closed:
		return ErrClosed
	case s.status == StatusLoading:
		return ErrNotReady
	case s.status == StatusCorrupt:
		return ErrStoreCorrupt
	}
	return nil
}

func (s *Screen) acceptLocked(next models.Collection) {
	s.posts = next
	s.page = 1
	s.title, s.text = "", ""
	s.saves.enqueue(next)
	metrics.Submissions.WithLabelValues("accepted").Inc()
	metrics.PostsStored.Set(float64(len(next)))
	s.logger.Info("post accepted", zap.Int("posts", len(next)))
}

// ResetStore replaces a corrupt store with an empty collection and makes the
// screen writable again.
func (s *Screen) ResetStore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.status != StatusCorrupt {
		return ErrStoreHealthy
	}
	if err := s.store.Reset(ctx); err != nil {
		return err
	}
	s.posts = models.Collection{}
	s.page = 1
	s.status = StatusReady
	s.loadErr = nil
	metrics.PostsStored.Set(0)
	return nil
}

// ToggleTheme switches between light and dark and returns the new theme.
func (s *Screen) ToggleTheme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme.toggle()
	return s.theme.current()
}

// SetSystemTheme records a change of the host color scheme.
func (s *Screen) SetSystemTheme(t Theme) {
	s.mu.Lock()
	s.theme.system = t
	s.mu.Unlock()
}

// Flush waits for queued saves to be written.
func (s *Screen) Flush(ctx context.Context) error {
	return s.saves.flush(ctx)
}

// Close stops accepting posts and writes out queued saves.
func (s *Screen) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.saves.close(ctx)
}

func (s *Screen) recordSaveError(err error) {
	s.mu.Lock()
	s.saveErr = err
	s.mu.Unlock()
	s.changed()
}

func (s *Screen) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}
