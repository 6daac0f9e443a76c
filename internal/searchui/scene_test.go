package searchui

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/stage"
)

// fakeSearcher records queries and answers with fixed results.
type fakeSearcher struct {
	res     Results
	err     error
	queries []string
	types   []QueryType
}

func (f *fakeSearcher) Search(_ context.Context, text string, qt QueryType, _ int) (Results, error) {
	f.queries = append(f.queries, text)
	f.types = append(f.types, qt)
	return f.res, f.err
}

func hits(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf(" transcript %d", i)
	}
	return out
}

func newTestMain(t *testing.T, opts Options) (*stage.EngineContext, *Main, *stage.Scene) {
	t.Helper()
	ctx, err := stage.NewEngineContext(stage.DefaultConfig())
	require.NoError(t, err)
	m, s := NewMain(ctx, opts)
	ctx.Scenes.Create(s)
	return ctx, m, s
}

func click(ctx *stage.EngineContext, n *stage.Node) {
	p := image.Pt(n.X()+3, n.Y()+3)
	ctx.Tick(stage.InputState{LeftDown: true, Pointer: p})
	ctx.Tick(stage.InputState{Pointer: p})
}

func TestMainBuild(t *testing.T) {
	_, m, s := newTestMain(t, Options{})
	for _, name := range []string{nameField, nameSearch, nameCount, nameUp, nameDown,
		"union_button", "intersection_button", "phrase_button"} {
		assert.NotNil(t, s.Find(name), name)
	}
	assert.Nil(t, s.Find(nameSave), "no save button without a picker")
	assert.Nil(t, s.Find(nameLoad), "no load button without a picker")
	assert.Equal(t, QueryIntersection, m.QueryType())
	assert.Equal(t, stage.ColorBlue, s.Find("intersection_button").Visual.Color)
	assert.Equal(t, "^", s.Find(nameUp).SourceText(), "missing arrow images fall back to text")
}

func TestMainToggleQueryType(t *testing.T) {
	ctx, m, s := newTestMain(t, Options{})
	phrase := s.Find("phrase_button")
	click(ctx, phrase)
	assert.Equal(t, QueryPhrase, m.QueryType())
	assert.Equal(t, stage.ColorBlue, phrase.Visual.Color)
	assert.Equal(t, stage.ColorGrey, s.Find("intersection_button").Visual.Color)
}

func TestMainSearchFromField(t *testing.T) {
	fs := &fakeSearcher{res: Results{Total: 2, Hits: hits(2)}}
	ctx, m, s := newTestMain(t, Options{Searcher: fs})
	m.SetQueryType(QueryUnion)

	click(ctx, s.Find(nameField))
	ctx.Tick(stage.InputState{Text: "fox"})
	ctx.Tick(stage.InputState{Pressed: []stage.Key{stage.KeyReturn}})

	require.Equal(t, []string{"fox"}, fs.queries)
	assert.Equal(t, []QueryType{QueryUnion}, fs.types)
	require.Len(t, m.ResultButtons(), 2)
	assert.Equal(t, "transcript 0", m.ResultButtons()[0].SourceText())
	assert.Equal(t, "Number of results: 2", s.Find(nameCount).SourceText())
}

func TestMainSearchError(t *testing.T) {
	fs := &fakeSearcher{err: errors.New("index offline")}
	ctx, m, s := newTestMain(t, Options{Searcher: fs})
	click(ctx, s.Find(nameSearch))
	assert.Len(t, fs.queries, 1)
	assert.Empty(t, m.ResultButtons())
}

func TestMainShowResultsAndScroll(t *testing.T) {
	_, m, s := newTestMain(t, Options{})
	m.ShowResults(Results{Total: 15, Hits: hits(15)})
	buttons := m.ResultButtons()
	require.Len(t, buttons, shownResults)
	assert.Equal(t, "transcript 9", buttons[9].SourceText())

	m.Scroll(3)
	assert.Equal(t, 3, m.Start())
	assert.Equal(t, "transcript 3", buttons[0].SourceText())

	m.Scroll(10)
	assert.Equal(t, 5, m.Start(), "scrolling stops at the last page")
	m.Scroll(-20)
	assert.Equal(t, 0, m.Start())

	old := buttons[0]
	m.ShowResults(Results{Total: HitCap, Hits: hits(3)})
	assert.True(t, old.Destroyed())
	assert.Len(t, m.ResultButtons(), 3)
	m.Scroll(1)
	assert.Equal(t, 0, m.Start(), "a short list does not scroll")
	assert.Equal(t, "Number of results: 10000+", s.Find(nameCount).SourceText())
}

func TestMainArrowButtonsScroll(t *testing.T) {
	ctx, m, s := newTestMain(t, Options{})
	m.ShowResults(Results{Total: 12, Hits: hits(12)})
	click(ctx, s.Find(nameDown))
	assert.Equal(t, 1, m.Start())
	click(ctx, s.Find(nameUp))
	assert.Equal(t, 0, m.Start())
}

func TestMainShowDetail(t *testing.T) {
	ctx, m, s := newTestMain(t, Options{})
	m.ShowResults(Results{Total: 12, Hits: hits(12)})
	m.Scroll(2)
	ctx.Tick(stage.InputState{})

	click(ctx, m.ResultButtons()[1])
	o := s.Find(nameDetail)
	require.NotNil(t, o)
	assert.Equal(t, "transcript 3", stage.OverlayBox(o).SourceText())

	m.ShowDetail(99)
	ctx.Tick(stage.InputState{Pressed: []stage.Key{stage.KeyEscape}})
	assert.Nil(t, s.Find(nameDetail), "escape closes the detail overlay")
}

func TestMainSaveButton(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	cancelled := false
	ctx, _, s := newTestMain(t, Options{
		PickSave: func() (string, error) { return path, nil },
		PickLoad: func() (string, error) { cancelled = true; return "", nil },
	})
	save, load := s.Find(nameSave), s.Find(nameLoad)
	require.NotNil(t, save)
	require.NotNil(t, load)
	assert.Less(t, save.X(), load.X(), "load sits at the right edge")

	click(ctx, save)
	_, err := os.Stat(path)
	assert.NoError(t, err, "save writes a snapshot")

	click(ctx, load)
	assert.True(t, cancelled)
}
