package search

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/montrey/notenav/logger"
)

type staticCollection []Entry

func (s staticCollection) FlattenEntries() []Entry { return s }

func notes(paths ...string) staticCollection {
	out := make(staticCollection, len(paths))
	for i, p := range paths {
		out[i] = Entry{Path: p, Title: p, Exists: true}
	}
	return out
}

// describe renders results as "+" for the create placeholder and the path
// otherwise.
func describe(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		switch v := r.(type) {
		case CreatePlaceholder:
			out[i] = "+"
		case Found:
			out[i] = v.Path
		}
	}
	return out
}

func TestResolveOffersCreateForUnknownPath(t *testing.T) {
	vault := notes("existing", "proj", "proj.alpha")

	got := Resolve("newnote", []Collection{vault})

	require.NotEmpty(t, got)
	assert.IsType(t, CreatePlaceholder{}, got[0])
	assert.Equal(t, []string{"+"}, describe(got))
}

func TestResolveExactMatchSuppressesCreate(t *testing.T) {
	vault := notes("existing", "existing.child", "proj")

	tests := []struct {
		name  string
		query string
	}{
		{"plain", "existing"},
		{"upper case", "EXISTING"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.query, []Collection{vault})
			assert.Equal(t, []string{"existing", "existing.child"}, describe(got))
		})
	}
}

func TestResolveCreateComesFirst(t *testing.T) {
	vault := notes("proj.alpha", "proj.beta", "old.proj")

	got := Resolve("proj", []Collection{vault})

	assert.Equal(t, []string{"+", "proj.beta", "proj.alpha", "old.proj"}, describe(got))
}

func TestResolveTrailingSeparatorNeverCreates(t *testing.T) {
	vault := notes("proj.alpha", "inbox")

	assert.Equal(t, []string{"proj.alpha"}, describe(Resolve("proj.", []Collection{vault})))
	assert.Empty(t, Resolve("nothing.", []Collection{vault}))
}

func TestResolveTitleMode(t *testing.T) {
	vault := staticCollection{
		{Path: "proj.notes", Title: "Notes", Exists: true},
		{Path: "c", Title: "My projects", Exists: true},
		{Path: "a.b", Title: "Project Plan", Exists: false},
	}

	for _, q := range []string{"?proj", "  ?PROJ  "} {
		got := Resolve(q, []Collection{vault})
		assert.Equal(t, []string{"a.b", "c"}, describe(got), "query %q", q)
	}
}

func TestResolveEmptyQueryListsTopLevel(t *testing.T) {
	vault := notes("proj", "proj.alpha", "daily", "daily.2024", "inbox")

	for _, q := range []string{"", "   "} {
		got := Resolve(q, []Collection{vault})
		assert.Equal(t, []string{"proj", "daily", "inbox"}, describe(got), "query %q", q)
	}
}

// Surrounding spaces are trimmed only for classification and the create
// decision, never for matching.
func TestResolveMatchesUntrimmedQuery(t *testing.T) {
	vault := notes("foo", "foo bar")

	t.Run("leading space", func(t *testing.T) {
		got := Resolve(" foo", []Collection{vault})
		assert.Equal(t, []string{"+"}, describe(got))
	})

	t.Run("trailing space", func(t *testing.T) {
		got := Resolve("foo ", []Collection{vault})
		assert.Equal(t, []string{"+", "foo bar"}, describe(got))
	})
}

func TestResolveAcrossCollections(t *testing.T) {
	work := notes("dup", "work.todo")
	home := notes("dup", "home.todo")

	got := Resolve("dup", []Collection{work, nil, home})

	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].(Found).Collection)
	assert.Equal(t, 2, got[1].(Found).Collection)

	todo := Resolve("todo", []Collection{work, home})
	assert.Equal(t, []string{"+", "work.todo", "home.todo"}, describe(todo))
}

func TestResolveEmptyInputs(t *testing.T) {
	assert.Empty(t, Resolve("", nil))
	assert.Empty(t, Resolve("?x", nil))
	assert.Equal(t, []string{"+"}, describe(Resolve("x", nil)))
}

func TestResolverOptions(t *testing.T) {
	vault := notes("proj", "proj/alpha", "proj.beta")
	r := NewResolver(WithSeparator("/"), WithTitleMarker("#"), WithMaxDistance(1))

	assert.Equal(t, []string{"proj", "proj.beta"}, describe(r.Resolve("", []Collection{vault})))
	assert.Equal(t, []string{"proj/alpha"}, describe(r.Resolve("proj/", []Collection{vault})))
	assert.Equal(t, []string{"proj.beta"}, describe(r.Resolve("#beta", []Collection{vault})))
}

func TestClassify(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		raw   string
		mode  Mode
		match string
	}{
		{"", ModeBrowse, ""},
		{"  ", ModeBrowse, ""},
		{"Proj.Alpha", ModePath, "proj.alpha"},
		{" proj ", ModePath, " proj "},
		{"?Plan", ModeTitle, "plan"},
		{" ?plan ", ModeTitle, "plan"},
		{"?", ModeTitle, ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			q := r.Classify(tt.raw)
			assert.Equal(t, tt.mode, q.Mode)
			assert.Equal(t, tt.match, q.Match)
		})
	}
}

func TestResolveConcurrent(t *testing.T) {
	vault := notes("proj", "proj.alpha", "proj.beta", "inbox", "daily.2024.01")
	want := describe(Resolve("proj.a", []Collection{vault}))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, describe(Resolve("proj.a", []Collection{vault})))
		}()
	}
	wg.Wait()
}

func TestResolveLogsWithStandardFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := NewResolver(WithLogger(zap.New(core).Sugar()))

	r.Resolve("proj", []Collection{notes("proj", "proj.alpha")})

	entries := logs.FilterMessage("lookup resolved").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "proj", fields[logger.FieldQuery])
	assert.Equal(t, "path", fields[logger.FieldMode])
	assert.EqualValues(t, 2, fields[logger.FieldCount])
}
