package search

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/montrey/notenav/logger"
)

// Entry is a rankable note: a hierarchical path plus a display title.
type Entry struct {
	Path  string
	Title string
	// Exists is false for placeholders implied by the hierarchy.
	Exists bool
}

// Collection is a group of entries, such as one vault.
type Collection interface {
	// FlattenEntries yields every entry in a stable order.
	FlattenEntries() []Entry
}

// Candidate is an entry paired with the index of its owning collection in
// the slice passed to Resolve.
type Candidate struct {
	Entry
	Collection int
}

// Result is one element of a resolution: Found or CreatePlaceholder.
type Result interface {
	isResult()
}

// Found is an existing or placeholder entry.
type Found struct {
	Candidate
}

// CreatePlaceholder offers creating a new entry at the typed path.
type CreatePlaceholder struct{}

func (Found) isResult()             {}
func (CreatePlaceholder) isResult() {}

// Mode is the strategy selected for a query.
type Mode int

const (
	ModeBrowse Mode = iota
	ModePath
	ModeTitle
)

func (m Mode) String() string {
	switch m {
	case ModePath:
		return "path"
	case ModeTitle:
		return "title"
	default:
		return "browse"
	}
}

// Query is the classified form of what the user typed.
type Query struct {
	Raw string
	// Normalized is lower-cased and trimmed.
	Normalized string
	// Match is the text compared against keys: the untrimmed lower-cased
	// query in path mode, the marker-stripped query in title mode.
	Match string
	Mode  Mode
}

// Resolver turns a raw query and a set of collections into ordered results.
type Resolver struct {
	separator   string
	titleMarker string
	ranker      Ranker
	logger      *zap.SugaredLogger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSeparator sets the hierarchy separator.
func WithSeparator(sep string) Option {
	return func(r *Resolver) { r.separator = sep }
}

// WithTitleMarker sets the leading character that selects title mode.
func WithTitleMarker(marker string) Option {
	return func(r *Resolver) { r.titleMarker = marker }
}

// WithMaxDistance sets the edit distance bound used for tie-breaks.
func WithMaxDistance(d int) Option {
	return func(r *Resolver) { r.ranker = NewRanker(d) }
}

// WithLogger sets the debug logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver returns a resolver with the given options applied over defaults.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		separator:   ".",
		titleMarker: "?",
		ranker:      NewRanker(DefaultMaxDistance),
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultResolver = NewResolver()

// Resolve ranks the entries of collections against rawQuery with defaults.
func Resolve(rawQuery string, collections []Collection) []Result {
	return defaultResolver.Resolve(rawQuery, collections)
}

// Separator returns the hierarchy separator.
func (r *Resolver) Separator() string { return r.separator }

// Classify decides how rawQuery is matched.
func (r *Resolver) Classify(rawQuery string) Query {
	lowered := strings.ToLower(rawQuery)
	q := Query{Raw: rawQuery, Normalized: strings.TrimSpace(lowered)}
	switch {
	case r.titleMarker != "" && strings.HasPrefix(q.Normalized, r.titleMarker):
		q.Mode = ModeTitle
		q.Match = strings.TrimPrefix(q.Normalized, r.titleMarker)
	case q.Normalized == "":
		q.Mode = ModeBrowse
	default:
		q.Mode = ModePath
		q.Match = lowered
	}
	return q
}

// Resolve ranks the entries of collections against rawQuery. A
// CreatePlaceholder, when offered, is always the first element.
func (r *Resolver) Resolve(rawQuery string, collections []Collection) []Result {
	start := time.Now()
	candidates := Flatten(collections)
	q := r.Classify(rawQuery)

	var ranked []Candidate
	switch q.Mode {
	case ModeTitle:
		ranked = r.ranker.RankTitles(candidates, q.Match)
	case ModePath:
		ranked = r.ranker.RankPaths(candidates, q.Match)
	default:
		ranked = TopLevel(candidates, r.separator)
	}

	results := make([]Result, 0, len(ranked)+1)
	if r.offerCreate(q, ranked) {
		results = append(results, CreatePlaceholder{})
	}
	for _, c := range ranked {
		results = append(results, Found{Candidate: c})
	}

	r.logger.Debugw("lookup resolved",
		logger.FieldQuery, rawQuery,
		logger.FieldMode, q.Mode.String(),
		"candidates", len(candidates),
		logger.FieldCount, len(results),
		"time_us", time.Since(start).Microseconds(),
	)
	return results
}

func (r *Resolver) offerCreate(q Query, ranked []Candidate) bool {
	if q.Mode != ModePath || q.Normalized == "" {
		return false
	}
	if strings.HasSuffix(q.Normalized, r.separator) {
		return false
	}
	if len(ranked) == 0 {
		return true
	}
	return strings.ToLower(ranked[0].Path) != q.Normalized
}

// Flatten concatenates the entries of collections, tagging each with the
// index of its collection.
func Flatten(collections []Collection) []Candidate {
	var out []Candidate
	for i, c := range collections {
		if c == nil {
			continue
		}
		for _, e := range c.FlattenEntries() {
			out = append(out, Candidate{Entry: e, Collection: i})
		}
	}
	return out
}
