package searchui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/phanxgames/stage"
)

// SceneName is the name the main scene registers under.
const SceneName = "main"

// Layout of the main scene.
const (
	space        = 10
	fieldWidth   = 500
	fieldHeight  = 30
	searchWidth  = 110
	toggleY      = 30
	fieldY       = 110
	countY       = 150
	countWidth   = 194
	resultsY     = 200
	resultWidth  = 800
	resultHeight = 40
	resultGap    = 5
	shownResults = 10
	arrowSize    = 40
	searchLimit  = 1000
	searchTime   = 2 * time.Second
)

// Names of the nodes the scene looks up again after building.
const (
	nameField  = "search_field"
	nameSearch = "search_button"
	nameCount  = "number_box"
	nameUp     = "scroll_up_button"
	nameDown   = "scroll_down_button"
	nameSave   = "save_button"
	nameLoad   = "load_button"
	nameDetail = "result_overlay"
)

// PathPicker asks the user for a file path. An empty path with a nil error
// means the user cancelled.
type PathPicker func() (string, error)

// Options configures the main scene.
type Options struct {
	Searcher Searcher

	// PickSave and PickLoad choose snapshot files. The save and load buttons
	// are omitted when nil.
	PickSave PathPicker
	PickLoad PathPicker
}

// Main holds the state of the search scene.
type Main struct {
	ctx   *stage.EngineContext
	opts  Options
	scene *stage.Scene

	queryType QueryType
	results   Results
	start     int
	buttons   []*stage.Node
}

// NewMain creates the search scene. Hand the returned scene to the scene
// manager's Create to build it.
func NewMain(ctx *stage.EngineContext, opts Options) (*Main, *stage.Scene) {
	m := &Main{ctx: ctx, opts: opts, queryType: QueryIntersection}
	s := stage.NewScene(SceneName)
	s.Background = stage.ColorWhite
	s.Build = func(_ *stage.EngineContext, s *stage.Scene) { m.build(s) }
	m.scene = s
	return m, s
}

// QueryType returns the selected query type.
func (m *Main) QueryType() QueryType { return m.queryType }

// Results returns the last search's results.
func (m *Main) Results() Results { return m.results }

// Start returns the index of the first shown result.
func (m *Main) Start() int { return m.start }

// ResultButtons returns the live result buttons, top to bottom.
func (m *Main) ResultButtons() []*stage.Node { return m.buttons }

func (m *Main) build(s *stage.Scene) {
	ctx := m.ctx
	w := ctx.Config.Width

	field := stage.DefaultTextInputOptions(ctx)
	field.Name = nameField
	field.X = w/2 - (fieldWidth+searchWidth)/2
	field.Y = fieldY
	field.Width, field.Height = fieldWidth, fieldHeight
	field.OnReturn = stage.Do(m.search)
	fieldNode := stage.NewTextInput(ctx, field)

	btn := m.textButton(nameSearch, "Search", fieldNode.X()+fieldNode.Width()+space, fieldY)
	btn.Width = searchWidth
	btn.LeftClick = stage.Do(m.search)
	s.Add(fieldNode, stage.NewButton(ctx, btn))

	x := field.X
	for _, qt := range []QueryType{QueryUnion, QueryIntersection, QueryPhrase} {
		label := strings.ToUpper(string(qt[:1])) + string(qt[1:]) + " Search"
		opts := m.textButton(toggleName(qt), label, x, toggleY)
		if qt == m.queryType {
			opts.Color = stage.ColorBlue
		}
		opts.LeftClick = stage.Call(func(args ...any) { m.SetQueryType(args[0].(QueryType)) }, qt)
		b := stage.NewButton(ctx, opts)
		s.Add(b)
		x = b.X() + b.Width() + space
	}

	count := stage.DefaultBoxOptions(ctx)
	count.Name = nameCount
	count.X, count.Y = w/2-countWidth/2, countY
	count.Width, count.Height = countWidth, fieldHeight
	count.Color = stage.ColorGrey
	count.Text = "Number of results:"
	count.FontSize = 15
	count.TextAlignX = stage.AnchorLeading
	count.Border = true
	s.Add(stage.NewBox(ctx, count))

	arrowX := w/2 + resultWidth/2 + space
	s.Add(
		m.arrowButton(nameUp, "up_arrow.png", "^", arrowX, resultsY, -1),
		m.arrowButton(nameDown, "down_arrow.png", "v", arrowX, resultsY+shownResults*(resultHeight+resultGap)-arrowSize, 1),
	)

	x = w - space
	if m.opts.PickLoad != nil {
		b := m.fileButton(nameLoad, "Load", x, m.opts.PickLoad, ctx.LoadState)
		s.Add(b)
		x = b.X() - space
	}
	if m.opts.PickSave != nil {
		s.Add(m.fileButton(nameSave, "Save", x, m.opts.PickSave, ctx.SaveState))
	}
}

func toggleName(qt QueryType) string { return string(qt) + "_button" }

func (m *Main) textButton(name, text string, x, y int) stage.ButtonOptions {
	opts := stage.DefaultButtonOptions(m.ctx)
	opts.Name = name
	opts.X, opts.Y = x, y
	opts.Width, opts.Height = 0, 0
	opts.Text = text
	opts.FontSize = 20
	opts.ResizeToFitText = true
	return opts
}

func (m *Main) arrowButton(name, file, fallback string, x, y, step int) *stage.Node {
	opts := stage.DefaultButtonOptions(m.ctx)
	opts.Name = name
	opts.X, opts.Y = x, y
	opts.Width, opts.Height = arrowSize, arrowSize
	opts.FontSize = 20
	id, err := m.ctx.Cache.LoadImage(filepath.Join(m.ctx.Config.ImageDir, file))
	if err != nil {
		m.ctx.Log.Debug("arrow image unavailable", "file", file, "err", err)
		opts.Text = fallback
	} else {
		opts.Image = id
	}
	opts.LeftClick = stage.Call(func(args ...any) { m.Scroll(args[0].(int)) }, step)
	return stage.NewButton(m.ctx, opts)
}

// fileButton creates a button at the top right, ending at right, that asks
// pick for a path and hands it to use.
func (m *Main) fileButton(name, text string, right int, pick PathPicker, use func(string)) *stage.Node {
	opts := m.textButton(name, text, 0, space)
	b := stage.NewButton(m.ctx, opts)
	b.SetX(float64(right - b.Width()))
	b.Button.LeftClick = stage.Do(func() {
		path, err := pick()
		if err != nil {
			m.ctx.Log.Error("pick file", "action", text, "err", err)
			return
		}
		if path != "" {
			use(path)
		}
	})
	return b
}

// SetQueryType selects qt and highlights its toggle.
func (m *Main) SetQueryType(qt QueryType) {
	for _, t := range []QueryType{QueryUnion, QueryIntersection, QueryPhrase} {
		b := m.scene.Find(toggleName(t))
		if b == nil {
			continue
		}
		if t == qt {
			b.SetColor(stage.ColorBlue)
		} else {
			b.SetColor(stage.ColorGrey)
		}
	}
	m.queryType = qt
}

// search runs the query in the search field and rebuilds the result list.
func (m *Main) search() {
	field := m.scene.Find(nameField)
	if field == nil || m.opts.Searcher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), searchTime)
	defer cancel()
	text := field.Editor.Buffer()
	res, err := m.opts.Searcher.Search(ctx, text, m.queryType, searchLimit)
	if err != nil {
		m.ctx.Log.Error("search failed", "query", text, "type", m.queryType, "err", err)
		return
	}
	m.ctx.Log.Debug("search", "query", text, "type", m.queryType, "total", res.Total)
	m.ShowResults(res)
}

// ShowResults replaces the result list with res, scrolled to the top.
func (m *Main) ShowResults(res Results) {
	for _, b := range m.buttons {
		b.Destroy()
	}
	m.buttons = nil
	m.results = res

	y := resultsY
	for i := range min(len(res.Hits), shownResults) {
		opts := stage.DefaultButtonOptions(m.ctx)
		opts.Name = fmt.Sprintf("result%d_button", i)
		opts.X, opts.Y = m.ctx.Config.Width/2-resultWidth/2, y
		opts.Width, opts.Height = resultWidth, resultHeight
		opts.Color = stage.ColorLightGrey
		opts.FontSize = 15
		opts.TextAlignX = stage.AnchorLeading
		opts.Wrap = true
		opts.LeftClick = stage.Call(func(args ...any) { m.ShowDetail(args[0].(int)) }, i)
		b := stage.NewButton(m.ctx, opts)
		m.scene.Add(b)
		m.buttons = append(m.buttons, b)
		y += resultHeight + resultGap
	}
	m.ScrollTo(0)

	if count := m.scene.Find(nameCount); count != nil {
		count.SetText("Number of results: " + res.TotalLabel())
	}
}

// Scroll moves the shown window of results by delta.
func (m *Main) Scroll(delta int) { m.ScrollTo(m.start + delta) }

// ScrollTo shows results starting at start, clamped so the buttons stay
// filled.
func (m *Main) ScrollTo(start int) {
	start = min(start, len(m.results.Hits)-len(m.buttons))
	start = max(start, 0)
	m.start = start
	for i, b := range m.buttons {
		b.SetText(strings.TrimLeft(m.results.Hits[start+i], " "))
	}
}

// ShowDetail opens an overlay with the full text of the i-th shown result.
func (m *Main) ShowDetail(i int) {
	if i < 0 || m.start+i >= len(m.results.Hits) {
		return
	}
	opts := stage.DefaultOverlayOptions(m.ctx)
	opts.Name = nameDetail
	opts.X = m.ctx.Config.Width/2 - 200
	opts.Y = space
	opts.Z = 1
	opts.Width, opts.Height = 400, 400
	o := stage.NewOverlay(m.ctx, opts)

	box := stage.OverlayBox(o)
	box.SetFontSize(20)
	box.SetWrap(true)
	box.Visual.TextAlignX = stage.AnchorLeading
	box.SetText(strings.TrimLeft(m.results.Hits[m.start+i], " "))
	m.scene.Add(o)
}
