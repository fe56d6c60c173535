package engine

import (
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/inkwell/internal/engine/activeline"
	"github.com/dshills/inkwell/internal/engine/commands"
	"github.com/dshills/inkwell/internal/engine/decoration"
	"github.com/dshills/inkwell/internal/engine/history"
	"github.com/dshills/inkwell/internal/engine/lines"
	"github.com/dshills/inkwell/internal/engine/model"
	"github.com/dshills/inkwell/internal/engine/schema"
	"github.com/dshills/inkwell/internal/engine/search"
	"github.com/dshills/inkwell/internal/engine/state"
	"github.com/dshills/inkwell/internal/markup"
)

// Engine is the main facade for the note editing engine.
// It holds the current editor state, runs commands by identifier, and
// notifies the host of content and selection changes.
//
// All operations are safe for concurrent use. Commands are serialized:
// each runs to completion and dispatches at most one transaction before
// the next starts.
type Engine struct {
	mu sync.RWMutex

	// Core components
	state    *state.EditorState
	schema   *model.Schema
	commands map[string]state.Command
	smart    *lines.SmartSelect

	parser     *markup.Parser
	serializer *markup.Serializer
	logger     Logger
	metrics    *Metrics
	scheduler  FrameScheduler
	now        func() time.Time

	// Configuration
	selectAllTimeout time.Duration
	historyDepth     int
	minify           bool
	readOnly         bool

	// Initialization
	initContent string

	// Macro grouping
	group any

	// Persistence
	flushPending  bool
	lastPersisted string

	contentListeners   []func(markup string)
	selectionListeners []func(Status)
}

// New creates a new engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:           nopLogger{},
		now:              time.Now,
		selectAllTimeout: DefaultSelectAllTimeout,
		historyDepth:     DefaultHistoryDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.schema == nil {
		e.schema = schema.Default()
	}
	if e.scheduler == nil {
		e.scheduler = NewTickScheduler()
	}

	e.parser = markup.NewParser(e.schema)
	e.serializer = markup.NewSerializer(markup.WithMinify(e.minify))
	e.smart = lines.NewSmartSelect(lines.WithTimeout(e.selectAllTimeout), lines.WithClock(e.now))
	e.commands = e.defaultCommands()

	e.state = e.newState(e.load(e.initContent))
	e.lastPersisted, _ = e.serializer.Serialize(e.state.Doc)
	e.initContent = ""
	return e
}

// NewFromReader creates an engine with markup read from r.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return New(append(opts, WithContent(string(data)))...), nil
}

// load parses markup, substituting an empty document when it is malformed.
func (e *Engine) load(content string) *model.Node {
	if content == "" {
		return e.parser.Empty()
	}
	doc, err := e.parser.ParseString(content)
	if err != nil {
		e.logger.Warn("parse note markup: %v; opening an empty document", err)
		return e.parser.Empty()
	}
	return doc
}

func (e *Engine) newState(doc *model.Node) *state.EditorState {
	st, err := state.New(state.Config{
		Doc: doc,
		Plugins: []*state.Plugin{
			history.New(history.WithMaxEntries(e.historyDepth)),
			search.New(search.WithRescanHook(func(string, int) { e.metrics.rescan() })),
			activeline.New(),
		},
	})
	if err != nil {
		// The plugin set is fixed, so this is a programming error.
		panic(fmt.Errorf("engine: create state: %w", err))
	}
	return st
}

// ============================================================================
// Commands
// ============================================================================

// Run invokes the command registered under id. It reports whether the
// command applied. An inapplicable command is not an error.
func (e *Engine) Run(id string) (bool, error) {
	cmd, err := e.command(id)
	if err != nil {
		return false, err
	}
	return e.exec(id, cmd, "")
}

// CanRun reports whether the command registered under id would apply.
func (e *Engine) CanRun(id string) bool {
	cmd, err := e.command(id)
	if err != nil {
		return false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return state.CanRun(cmd, e.state)
}

// Exec runs an unregistered command. Name labels it in logs and metrics.
func (e *Engine) Exec(name string, cmd state.Command) (bool, error) {
	return e.exec(name, cmd, "")
}

// InsertText types text at the selection, replacing any selected content.
// Consecutive typing is grouped into one undo step.
func (e *Engine) InsertText(text string) (bool, error) {
	return e.exec("insertText", commands.InsertText(text), "input")
}

// SetSelection replaces the selection.
func (e *Engine) SetSelection(anchor, head int) error {
	e.mu.RLock()
	size := e.state.Doc.Content().Size()
	e.mu.RUnlock()
	if anchor < 0 || head < 0 || anchor > size || head > size {
		return fmt.Errorf("%w: %d..%d (size %d)", ErrOffsetOutOfRange, anchor, head, size)
	}
	_, err := e.exec("setSelection", func(s *state.EditorState, dispatch state.Dispatch) bool {
		if dispatch != nil {
			sel := state.NewTextSelection(anchor, head)
			if anchor == head {
				sel = state.Near(s.Doc, head, 1)
			}
			dispatch(s.Tr().SetSelection(sel))
		}
		return true
	}, "")
	return err
}

// Search sets the search query and returns the number of matches.
func (e *Engine) Search(query string) (int, error) {
	if _, err := e.exec("search", search.SetQuery(query), ""); err != nil {
		return 0, err
	}
	return len(e.SearchState().Matches), nil
}

// Undo reverts the most recent change.
func (e *Engine) Undo() error {
	ok, err := e.Run(CmdUndo)
	if err == nil && !ok {
		return history.ErrNothingToUndo
	}
	return err
}

// Redo reapplies the most recently undone change.
func (e *Engine) Redo() error {
	ok, err := e.Run(CmdRedo)
	if err == nil && !ok {
		return history.ErrNothingToRedo
	}
	return err
}

// Macro runs fn with every transaction it dispatches recorded as a single
// undo step. Nested calls join the outer group.
func (e *Engine) Macro(fn func() error) error {
	e.mu.Lock()
	outer := e.group == nil
	if outer {
		e.group = uuid.New()
	}
	e.mu.Unlock()

	if outer {
		defer func() {
			e.mu.Lock()
			e.group = nil
			e.mu.Unlock()
		}()
	}
	return fn()
}

func (e *Engine) exec(name string, cmd state.Command, event string) (bool, error) {
	var (
		notify []func()
		err    error
	)

	e.mu.Lock()
	ok := cmd(e.state, func(tr *state.Transaction) {
		if e.readOnly && tr.DocChanged() {
			err = ErrReadOnly
			return
		}
		notify = e.applyLocked(tr, event)
	})
	e.mu.Unlock()

	if err != nil {
		ok = false
	}
	e.metrics.command(name, ok)
	if !ok && err == nil {
		e.logger.Debug("command %s not applicable", name)
	}
	for _, fn := range notify {
		fn()
	}
	return ok, err
}

// applyLocked applies tr and returns the notifications to deliver once the
// lock is released.
func (e *Engine) applyLocked(tr *state.Transaction, event string) []func() {
	tr.Time = e.now()
	if event != "" && tr.Meta(state.MetaUIEvent) == nil {
		tr.SetMeta(state.MetaUIEvent, event)
	}
	if e.group != nil && tr.Meta(history.MetaGroup) == nil {
		tr.SetMeta(history.MetaGroup, e.group)
	}

	prev := e.state
	e.state = prev.Apply(tr)
	e.metrics.transaction()

	var notify []func()
	if tr.DocChanged() && !e.flushPending {
		e.flushPending = true
		notify = append(notify, func() { e.scheduler.Schedule(e.flush) })
	}
	if tr.DocChanged() || !prev.Selection.Eq(e.state.Selection) {
		st := StatusOf(e.state)
		listeners := slices.Clone(e.selectionListeners)
		notify = append(notify, func() {
			for _, fn := range listeners {
				fn(st)
			}
		})
	}
	return notify
}

// ============================================================================
// Persistence
// ============================================================================

// OnContentChange registers fn to receive the serialized document after
// content changes. Changes made within one frame are delivered once.
func (e *Engine) OnContentChange(fn func(markup string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.contentListeners = append(e.contentListeners, fn)
}

// OnSelectionChange registers fn to receive the status after the
// selection or the document changes.
func (e *Engine) OnSelectionChange(fn func(Status)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selectionListeners = append(e.selectionListeners, fn)
}

// Tick runs pending frame callbacks when the engine uses a TickScheduler.
// It returns the number of callbacks run.
func (e *Engine) Tick() int {
	if ts, ok := e.scheduler.(*TickScheduler); ok {
		return ts.Tick()
	}
	return 0
}

// flush serializes the latest document and delivers it to the content
// listeners unless it matches the last delivered markup.
func (e *Engine) flush() {
	e.mu.Lock()
	e.flushPending = false
	doc := e.state.Doc
	e.mu.Unlock()

	if _, err := e.persist(doc); err != nil {
		e.logger.Error("serialize note: %v", err)
	}
}

// Flush delivers the current document to the content listeners now if it
// changed since the last delivery, and returns its markup.
func (e *Engine) Flush() (string, error) {
	e.mu.RLock()
	doc := e.state.Doc
	e.mu.RUnlock()
	return e.persist(doc)
}

func (e *Engine) persist(doc *model.Node) (string, error) {
	out, err := e.serializer.Serialize(doc)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	changed := out != e.lastPersisted
	e.lastPersisted = out
	listeners := slices.Clone(e.contentListeners)
	e.mu.Unlock()

	if changed {
		for _, fn := range listeners {
			fn(out)
		}
	}
	return out, nil
}

// Markup serializes the current document.
func (e *Engine) Markup() (string, error) {
	return e.serializer.Serialize(e.Doc())
}

// SetContent replaces the document with parsed markup and clears history.
// Malformed markup opens an empty document.
func (e *Engine) SetContent(content string) {
	doc := e.load(content)
	out, _ := e.serializer.Serialize(doc)

	e.mu.Lock()
	e.state = e.newState(doc)
	e.lastPersisted = out
	st := StatusOf(e.state)
	listeners := slices.Clone(e.selectionListeners)
	e.mu.Unlock()

	e.smart.Reset()
	for _, fn := range listeners {
		fn(st)
	}
}

// ============================================================================
// Queries
// ============================================================================

// State returns the current editor state.
func (e *Engine) State() *state.EditorState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Doc returns the current document.
func (e *Engine) Doc() *model.Node {
	return e.State().Doc
}

// Selection returns the current selection.
func (e *Engine) Selection() state.Selection {
	return e.State().Selection
}

// Schema returns the document vocabulary.
func (e *Engine) Schema() *model.Schema {
	return e.schema
}

// Text returns the document text with blocks separated by newlines.
func (e *Engine) Text() string {
	doc := e.Doc()
	return doc.TextBetween(0, doc.Content().Size(), "\n", "")
}

// Status returns the current selection status.
func (e *Engine) Status() Status {
	return StatusOf(e.State())
}

// Stats returns word and character counts of the current document.
func (e *Engine) Stats() Stats {
	return StatsOf(e.Doc())
}

// IsMarkActive reports whether the named mark is active at the selection.
func (e *Engine) IsMarkActive(name string) bool {
	return commands.IsMarkActive(e.State(), name)
}

// MarkAttr returns an attribute of the named mark at the selection.
func (e *Engine) MarkAttr(name, attr string) (any, bool) {
	return commands.MarkAttr(e.State(), name, attr)
}

// SearchState returns the current search state.
func (e *Engine) SearchState() *search.State {
	return search.Get(e.State())
}

// Decorations returns the overlays of the current state.
func (e *Engine) Decorations() *decoration.Set {
	return e.State().Decorations()
}

// UndoDepth returns the number of undoable changes.
func (e *Engine) UndoDepth() int {
	return history.UndoDepth(e.State())
}

// RedoDepth returns the number of redoable changes.
func (e *Engine) RedoDepth() int {
	return history.RedoDepth(e.State())
}

// ReadOnly reports whether the engine rejects content changes.
func (e *Engine) ReadOnly() bool {
	return e.readOnly
}
