package discovery

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/pders01/folio/internal/catalog"
	"github.com/pders01/folio/internal/debuglog"
	"github.com/pders01/folio/internal/metrics"
)

// SessionConfig holds the per-deployment knobs of a session.
type SessionConfig struct {
	PageSize        int
	FetchCap        int
	DefaultLanguage string
	DefaultSort     SortMode
	InitialQuery    string
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.PageSize <= 0 {
		c.PageSize = 5
	}
	if c.FetchCap <= 0 {
		c.FetchCap = 50
	}
	if c.DefaultSort == "" {
		c.DefaultSort = SortRelevance
	}
	return c
}

// Ticket identifies one submission. It is handed from Begin to Execute.
type Ticket struct {
	Generation uint64
	Query      string
	Directives Directives
	fetchCap   int
	ctx        context.Context
}

// Outcome is the result of Execute, delivered back to Complete.
type Outcome struct {
	Generation uint64
	Collection *Collection
	Err        error
}

// Session is the explorer state of one UI session. Every method except
// Execute must be called from the goroutine that owns the session. Execute
// only reads the generation counter and may run anywhere.
type Session struct {
	cfg     SessionConfig
	fetcher *Fetcher
	owned   Ownership
	presets *PresetRegistry

	query       string
	criteria    FilterCriteria
	sort        SortMode
	window      PageWindow
	collection  *Collection
	hasSearched bool
	loading     bool
	err         error

	generation atomic.Uint64
	cancel     context.CancelFunc

	log *debuglog.FieldLogger
}

// NewSession builds a session. owned and presets may be nil.
func NewSession(cfg SessionConfig, fetcher *Fetcher, owned Ownership, presets *PresetRegistry) *Session {
	cfg = cfg.withDefaults()
	if presets == nil {
		presets = &PresetRegistry{byID: map[string]int{}}
	}
	return &Session{
		cfg:        cfg,
		fetcher:    fetcher,
		owned:      owned,
		presets:    presets,
		query:      cfg.InitialQuery,
		criteria:   DefaultCriteria(),
		sort:       cfg.DefaultSort,
		window:     PageWindow{Size: cfg.PageSize},
		collection: EmptyCollection(cfg.FetchCap),
		log:        debuglog.WithFields(map[string]any{"component": "session"}),
	}
}

// SetQuery updates the query text without submitting it.
func (s *Session) SetQuery(q string) {
	s.query = q
}

// Begin registers a new submission of query. Any in-flight run is canceled
// and becomes stale. A blank query clears the results and returns false;
// nothing needs to be executed then.
func (s *Session) Begin(query string) (Ticket, bool) {
	s.query = query
	gen := s.generation.Add(1)
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.window.Index = 0
	s.err = nil

	d := ParseDirectives(query).WithDefaultLanguage(s.cfg.DefaultLanguage)
	if d.Blank() {
		s.collection = EmptyCollection(s.cfg.FetchCap)
		s.hasSearched = false
		s.loading = false
		metrics.SearchesTotal.WithLabelValues(metrics.SearchEmpty).Inc()
		s.log.Debugf("blank query, results cleared (generation %d)", gen)
		return Ticket{Generation: gen, Query: query, Directives: d}, false
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.loading = true
	s.log.Debugf("search %q lang=%q order=%q (generation %d)", d.Text, d.Language, d.OrderBy, gen)

	return Ticket{
		Generation: gen,
		Query:      query,
		Directives: d,
		fetchCap:   s.cfg.FetchCap,
		ctx:        ctx,
	}, true
}

// Execute runs the fetch for t. It is safe to call from a goroutine other
// than the owner's. The run ends early when ctx or the ticket is canceled.
func (s *Session) Execute(ctx context.Context, t Ticket) Outcome {
	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	if t.ctx != nil {
		release := context.AfterFunc(t.ctx, stop)
		defer release()
	}

	live := func() bool { return s.generation.Load() == t.Generation }
	coll, err := s.fetcher.Run(runCtx, t.Directives, t.fetchCap, live)
	return Outcome{Generation: t.Generation, Collection: coll, Err: err}
}

// Complete commits o if it belongs to the latest submission and reports
// whether it did. Stale outcomes are dropped without touching any state.
// A failed run keeps the previous collection and records its error.
func (s *Session) Complete(o Outcome) bool {
	if o.Generation != s.generation.Load() || errors.Is(o.Err, ErrSuperseded) {
		metrics.SearchesTotal.WithLabelValues(metrics.SearchSuperseded).Inc()
		s.log.Debugf("discarding stale outcome (generation %d)", o.Generation)
		return false
	}

	s.loading = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	if o.Err != nil {
		s.err = o.Err
		metrics.SearchesTotal.WithLabelValues(metrics.SearchError).Inc()
		s.log.Errorf("search failed: %v", o.Err)
		return true
	}

	coll := o.Collection
	if coll == nil {
		coll = EmptyCollection(s.cfg.FetchCap)
	}
	s.collection = coll
	s.hasSearched = true
	s.err = nil
	s.window.Index = 0
	metrics.SearchesTotal.WithLabelValues(metrics.SearchOK).Inc()
	metrics.ItemsFetchedTotal.Add(float64(coll.Len()))
	s.log.Infof("search committed: %d items, remote total %d", coll.Len(), coll.ReportedTotal)
	return true
}

// Search submits query and waits for the result. It returns the transport
// error of this submission, if any.
func (s *Session) Search(ctx context.Context, query string) error {
	t, ok := s.Begin(query)
	if !ok {
		return nil
	}
	return s.finish(ctx, t)
}

// BeginPreset applies a preset's query and sort and registers the
// submission like Begin.
func (s *Session) BeginPreset(id string) (Ticket, bool, error) {
	query, mode, ok := s.presets.Select(id)
	if !ok {
		return Ticket{}, false, fmt.Errorf("%w: %s", ErrUnknownPreset, id)
	}
	if mode != nil {
		s.sort = *mode
	}
	t, run := s.Begin(query)
	return t, run, nil
}

// SelectPreset is BeginPreset followed by a synchronous run.
func (s *Session) SelectPreset(ctx context.Context, id string) error {
	t, run, err := s.BeginPreset(id)
	if err != nil || !run {
		return err
	}
	return s.finish(ctx, t)
}

func (s *Session) finish(ctx context.Context, t Ticket) error {
	o := s.Execute(ctx, t)
	if !s.Complete(o) {
		return nil
	}
	return o.Err
}

func (s *Session) SetLength(b LengthBucket) {
	s.criteria.Length = b
	s.window.Index = 0
}

func (s *Session) SetPeriod(b PeriodBucket) {
	s.criteria.Period = b
	s.window.Index = 0
}

func (s *Session) SetHideOwned(hide bool) {
	s.criteria.HideOwned = hide
	s.window.Index = 0
}

// SetCriteria replaces all filters at once.
func (s *Session) SetCriteria(c FilterCriteria) {
	s.criteria = c
	s.window.Index = 0
}

func (s *Session) SetSort(m SortMode) {
	s.sort = m
	s.window.Index = 0
}

// SetPageSize changes the page size and returns to the first page.
func (s *Session) SetPageSize(size int) {
	if size > 0 {
		s.window.Size = size
		s.window.Index = 0
	}
}

// GoToPage jumps to a zero-based page, clamped to the available range.
func (s *Session) GoToPage(index int) {
	s.window.Index = index
	s.window = s.window.Clamp(s.totalPages())
}

func (s *Session) NextPage() {
	s.window = s.window.Clamp(s.totalPages()).Next(s.totalPages())
}

func (s *Session) PreviousPage() {
	s.window = s.window.Clamp(s.totalPages()).Previous()
}

func (s *Session) totalPages() int {
	return TotalPages(len(s.filtered()), s.window.Size)
}

func (s *Session) filtered() []catalog.Item {
	return Apply(s.collection.Items, s.criteria, s.owned)
}

// View derives the current page from the collection and criteria. It never
// changes session state.
func (s *Session) View() View {
	filtered := s.filtered()
	ordered := Order(filtered, s.sort)
	page := Paginate(ordered, s.window)
	raw := s.collection.Len()

	return View{
		State:         stateFor(s.hasSearched, len(filtered), raw),
		Query:         s.query,
		Criteria:      s.criteria,
		Sort:          s.sort,
		Page:          page,
		Filtered:      len(filtered),
		Raw:           raw,
		ReportedTotal: s.collection.ReportedTotal,
		Label:         Label(s.hasSearched, page, len(filtered), raw),
		Loading:       s.loading,
		Err:           s.err,
	}
}

// Collection returns the committed working set.
func (s *Session) Collection() *Collection {
	return s.collection
}

// Err is the failure of the latest submission, or nil.
func (s *Session) Err() error {
	return s.err
}

// ClearErr dismisses the current error.
func (s *Session) ClearErr() {
	s.err = nil
}

func (s *Session) Query() string { return s.query }
func (s *Session) Criteria() FilterCriteria { return s.criteria }
func (s *Session) Sort() SortMode { return s.sort }
func (s *Session) Window() PageWindow { return s.window }
func (s *Session) Loading() bool { return s.loading }
func (s *Session) HasSearched() bool { return s.hasSearched }
func (s *Session) Generation() uint64 { return s.generation.Load() }
func (s *Session) Presets() *PresetRegistry { return s.presets }
func (s *Session) Config() SessionConfig { return s.cfg }
