package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/galx/internal/album"
	"github.com/desertthunder/galx/internal/dragdrop"
	"github.com/desertthunder/galx/internal/gallery"
	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/selection"
	"github.com/desertthunder/galx/internal/services"
	"github.com/desertthunder/galx/internal/shared"
	"github.com/desertthunder/galx/internal/state"
	"github.com/desertthunder/galx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	BrowseView ViewState = iota
	ConfirmView
	MoveView
	EditorView
	AddPhotosView
	ViewerView
	ProgressView
)

// Journal records remote mutation attempts.
type Journal interface {
	Record(ctx context.Context, action models.Action, targetID, detail string, err error)
}

// Deps bundles what the TUI needs to host the engine. API and Folder are required.
type Deps struct {
	API      services.Gallery
	Folder   string
	Unlocked []string
	Sink     tasks.ArchiveSink
	Journal  Journal
	Unlocker album.Unlocker
	Logger   *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	logger  *log.Logger
	surface *Surface
	state   *state.AppState
	grid    *gallery.Grid
	drag    *dragdrop.GridDrag
	editor  *album.Editor
	nav     *album.Navigator
	batch   *tasks.BatchCoordinator

	width  int
	height int
	browse list.Model
	strip  list.Model
	picker list.Model
	input  textinput.Model

	hover       string
	reordering  string
	confirmOne  *models.Item
	confirmText string

	progressChan chan tasks.ProgressUpdate
	doneChan     chan Msg
	progress     tasks.ProgressUpdate
	batchTitle   string

	notice string
	failed bool
	err    error
	help   help.Model
	keys   keyMap
}

// NewModel wires the engine components to a fresh [Surface] and returns the model hosting them.
func NewModel(ctx context.Context, deps Deps) *Model {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	surface := NewSurface()
	sel := selection.NewStore(surface)
	st := state.New(deps.Folder, sel, deps.Unlocked)
	grid := gallery.NewGrid(deps.API, st, surface, shared.WithLogger(logger, "component", "grid"))
	nav := album.NewNavigator(deps.API, surface, st.IsUnlocked, deps.Unlocker, shared.WithLogger(logger, "component", "navigator"))

	var journal Journal = nopJournal{}
	if deps.Journal != nil {
		journal = deps.Journal
	}

	editor := album.NewEditor(album.EditorDeps{
		API:       deps.API,
		State:     st,
		View:      surface,
		Back:      surface,
		Notifier:  surface,
		Refresher: grid,
		Display:   nav,
		Journal:   journal,
		Logger:    shared.WithLogger(logger, "component", "editor"),
	})
	batch := tasks.NewBatchCoordinator(tasks.Deps{
		API:       deps.API,
		Selection: sel,
		Sink:      deps.Sink,
		Refresher: grid,
		Notifier:  surface,
		Controls:  surface,
		Journal:   journal,
		Logger:    shared.WithLogger(logger, "component", "batch"),
	})

	input := textinput.New()
	input.Placeholder = "target folder id"
	input.CharLimit = 128

	return &Model{
		ctx:     ctx,
		view:    BrowseView,
		logger:  logger,
		surface: surface,
		state:   st,
		grid:    grid,
		drag:    dragdrop.NewGridDrag(deps.API, surface, journal, shared.WithLogger(logger, "component", "drag")),
		editor:  editor,
		nav:     nav,
		batch:   batch,
		browse:  newList(fmt.Sprintf("Folder %s", deps.Folder)),
		strip:   newList("Album"),
		picker:  newList("Add photos"),
		input:   input,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

type nopJournal struct{}

func (nopJournal) Record(context.Context, models.Action, string, string, error) {}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	return l
}

// Surface exposes the render surface the engine draws on.
func (m *Model) Surface() *Surface {
	return m.surface
}

// State returns the active view.
func (m *Model) State() ViewState {
	return m.view
}

// Init loads the working folder.
func (m *Model) Init() tea.Cmd {
	return m.loadFolder()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.browse, &m.strip, &m.picker} {
			l.SetSize(msg.Width-4, msg.Height-8)
		}
		m.help.Width = msg.Width

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.view != ProgressView {
			m.notice, m.failed = "", false
		}
		switch m.view {
		case BrowseView:
			cmd = m.handleBrowseKeys(msg)
		case ConfirmView:
			cmd = m.handleConfirmKeys(msg)
		case MoveView:
			cmd = m.handleMoveKeys(msg)
		case EditorView:
			cmd = m.handleEditorKeys(msg)
		case AddPhotosView:
			cmd = m.handleAddPhotosKeys(msg)
		case ViewerView:
			cmd = m.handleViewerKeys(msg)
		}

	case Msg:
		cmd = m.handleMsg(msg)
	}

	m.drainNotices()
	m.reconcileView()
	m.syncLists()
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) tea.Cmd {
	switch msg.kind {
	case MsgFolderLoaded:
		if o := msg.data.(outcome); o.err != nil {
			m.err = o.err
		}

	case MsgActionDone:
		m.applyOutcome(msg.data.(outcome))

	case MsgAlbumOpened:
		data := msg.data.(struct {
			gate album.Gate
			err  error
		})
		switch {
		case data.err != nil:
			m.setNotice(fmt.Sprintf("Could not open album: %v", data.err), true)
		case data.gate == album.GateOpened:
			m.view = ViewerView
		case data.gate == album.GateDenied:
			m.setNotice("You do not have access to this album", true)
		case data.gate == album.GateLocked:
			m.setNotice("Album is locked. Finish unlocking in the browser, then open it again.", false)
		case data.gate == album.GateEmpty:
			m.setNotice("Album is empty", false)
		}

	case MsgEditorOpened:
		if o := msg.data.(outcome); o.err != nil {
			m.setNotice(fmt.Sprintf("Could not open album: %v", o.err), true)
			return nil
		}
		m.view = EditorView
		m.strip.Select(0)

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return waitForProgress(m.progressChan, m.doneChan)

	case MsgBatchComplete:
		m.progressChan, m.doneChan = nil, nil
		m.progress = tasks.ProgressUpdate{}
		m.view = BrowseView
		m.applyOutcome(msg.data.(outcome))
	}
	return nil
}

func (m *Model) applyOutcome(o outcome) {
	switch {
	case o.err == nil:
		if o.note != "" {
			m.setNotice(o.note, false)
		}
	case errors.Is(o.err, shared.ErrStaleSession):
	case errors.Is(o.err, shared.ErrBusy):
		m.setNotice("Another batch action is still running", true)
	case errors.Is(o.err, shared.ErrNoSelection):
		m.setNotice("Nothing selected", false)
	default:
		m.setNotice(o.err.Error(), true)
	}
}

func (m *Model) setNotice(text string, failed bool) {
	m.notice, m.failed = text, failed
}

// drainNotices moves engine notifications into the status line.
func (m *Model) drainNotices() {
	if notices := m.surface.DrainNotices(); len(notices) > 0 {
		m.setNotice(notices[len(notices)-1], true)
	}
}

// reconcileView leaves views whose engine session has ended underneath them.
func (m *Model) reconcileView() {
	switch m.view {
	case AddPhotosView:
		if m.editor.Phase() == album.PhaseClosed {
			m.view = BrowseView
		} else if !m.editor.Snapshot().AddOpen {
			m.view = EditorView
		}
	case EditorView:
		if m.editor.Phase() == album.PhaseClosed {
			m.view = BrowseView
			m.reordering = ""
		} else if m.editor.Snapshot().AddOpen {
			m.view = AddPhotosView
			m.picker.Select(0)
		}
	}
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) tea.Cmd {
	current, hasCurrent := m.currentGridItem()

	switch {
	case key.Matches(msg, m.keys.quit):
		return tea.Quit
	case key.Matches(msg, m.keys.up):
		m.browse.CursorUp()
		m.dragOver()
	case key.Matches(msg, m.keys.down):
		m.browse.CursorDown()
		m.dragOver()
	case key.Matches(msg, m.keys.back):
		if m.drag.State() != dragdrop.GridIdle {
			m.drag.Cancel()
			m.hover = ""
			return nil
		}
		return m.run(func() (string, error) {
			m.surface.Back()
			return "", nil
		})
	case key.Matches(msg, m.keys.toggle):
		if hasCurrent && current.Kind.Selectable() {
			if _, err := m.state.Selection.Toggle(current.Kind, current.ID); err != nil {
				m.setNotice(err.Error(), true)
			}
		}
	case key.Matches(msg, m.keys.selectAll):
		m.state.Selection.SelectAll(m.grid.Items())
	case key.Matches(msg, m.keys.clear):
		m.state.Selection.Clear()
	case key.Matches(msg, m.keys.remove):
		if n := m.state.Selection.Count(); n > 0 {
			m.confirmOne = nil
			m.confirmText = fmt.Sprintf("Delete %d selected item(s)?", n)
			m.view = ConfirmView
		} else if hasCurrent && current.Kind.Selectable() {
			item := current
			m.confirmOne = &item
			m.confirmText = fmt.Sprintf("Delete %s %q?", item.Kind, shared.SanitizeLabel(item.Label()))
			m.view = ConfirmView
		}
	case key.Matches(msg, m.keys.move):
		if len(m.state.Selection.Snapshot().Photos) == 0 {
			m.setNotice("Select photos to move", false)
			return nil
		}
		m.input.Reset()
		m.input.Focus()
		m.view = MoveView
		return textinput.Blink
	case key.Matches(msg, m.keys.save):
		return m.startBatch("Saving selected photos", func(prog chan<- tasks.ProgressUpdate) (string, error) {
			path, err := m.batch.Download(m.ctx, prog)
			if err != nil || path == "" {
				return "", err
			}
			return fmt.Sprintf("Saved %s", path), nil
		})
	case key.Matches(msg, m.keys.grab):
		if !hasCurrent {
			return nil
		}
		if m.drag.State() == dragdrop.GridIdle {
			if err := m.drag.Start(current); err != nil {
				m.setNotice("Only photos can be dragged", false)
			}
			return nil
		}
		return m.dropOn(current)
	case key.Matches(msg, m.keys.enter):
		if !hasCurrent {
			return nil
		}
		if m.drag.State() != dragdrop.GridIdle {
			return m.dropOn(current)
		}
		if current.Kind == models.KindAlbum {
			return m.openAlbum(current)
		}
	case key.Matches(msg, m.keys.edit):
		if hasCurrent && current.Kind == models.KindAlbum {
			if current.Access == models.AccessDenied {
				m.setNotice("You do not have access to this album", true)
				return nil
			}
			id := current.ID
			return func() tea.Msg { return editorOpenedMsg(m.editor.Open(m.ctx, id)) }
		}
	case key.Matches(msg, m.keys.refresh):
		return m.run(func() (string, error) { return "", m.grid.Refresh(m.ctx) })
	}
	return nil
}

// dragOver moves the drop target to the item under the cursor.
func (m *Model) dragOver() {
	if m.drag.State() == dragdrop.GridIdle {
		return
	}
	if m.hover != "" {
		m.drag.Leave(m.hover)
		m.hover = ""
	}
	if item, ok := m.currentGridItem(); ok && m.drag.Enter(item) {
		m.hover = item.ID
	}
}

func (m *Model) dropOn(target models.Item) tea.Cmd {
	m.hover = ""
	label := shared.SanitizeLabel(target.Label())
	return m.run(func() (string, error) {
		added, err := m.drag.Drop(m.ctx, target)
		if err != nil || !added {
			return "", err
		}
		return fmt.Sprintf("Added to %s", label), nil
	})
}

func (m *Model) openAlbum(item models.Item) tea.Cmd {
	return func() tea.Msg {
		gate, err := m.nav.OpenEntry(m.ctx, item)
		return albumOpenedMsg(gate, err)
	}
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.yes):
		if item := m.confirmOne; item != nil {
			m.confirmOne = nil
			m.view = BrowseView
			target := *item
			return m.run(func() (string, error) {
				if err := m.batch.DeleteSingle(m.ctx, target); err != nil {
					return "", err
				}
				return fmt.Sprintf("Deleted %s", shared.SanitizeLabel(target.Label())), nil
			})
		}
		return m.startBatch("Deleting selected items", func(prog chan<- tasks.ProgressUpdate) (string, error) {
			result, err := m.batch.Delete(m.ctx, prog)
			if err != nil {
				return "", err
			}
			return deleteSummary(result), nil
		})
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.confirmOne = nil
		m.view = BrowseView
	}
	return nil
}

func deleteSummary(r *tasks.DeleteResult) string {
	if r == nil || r.Cancelled {
		return "Delete cancelled"
	}
	if len(r.Failed) == 0 {
		return fmt.Sprintf("Deleted %d item(s)", len(r.Deleted))
	}
	return fmt.Sprintf("Deleted %d of %d item(s), %d failed (see galx journal)", len(r.Deleted), r.Attempted, len(r.Failed))
}

func (m *Model) handleMoveKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.back):
		m.input.Blur()
		m.view = BrowseView
		return nil
	case msg.Type == tea.KeyEnter:
		target := strings.TrimSpace(m.input.Value())
		if target == "" {
			m.setNotice("Enter a target folder id", false)
			return nil
		}
		m.input.Blur()
		count := len(m.state.Selection.Snapshot().Photos)
		return m.startBatch("Moving selected photos", func(prog chan<- tasks.ProgressUpdate) (string, error) {
			if err := m.batch.Move(m.ctx, target, prog); err != nil {
				return "", err
			}
			return fmt.Sprintf("Moved %d photo(s) to %s", count, target), nil
		})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) handleEditorKeys(msg tea.KeyMsg) tea.Cmd {
	entries := m.editor.ReorderEntries()
	idx := m.strip.Index()
	var current dragdrop.Entry
	if idx >= 0 && idx < len(entries) {
		current = entries[idx]
	}

	if m.reordering != "" {
		switch {
		case key.Matches(msg, m.keys.up), key.Matches(msg, m.keys.left):
			m.stepReorder(entries, -1)
		case key.Matches(msg, m.keys.down), key.Matches(msg, m.keys.right):
			m.stepReorder(entries, 1)
		case key.Matches(msg, m.keys.grab), key.Matches(msg, m.keys.enter), key.Matches(msg, m.keys.back):
			m.reordering = ""
			return m.run(func() (string, error) {
				result, err := m.editor.EndReorder(m.ctx)
				if err != nil || result.Seq == 0 {
					return "", err
				}
				return "Order saved", nil
			})
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return tea.Quit
	case key.Matches(msg, m.keys.up):
		m.strip.CursorUp()
	case key.Matches(msg, m.keys.down):
		m.strip.CursorDown()
	case key.Matches(msg, m.keys.back):
		return m.run(func() (string, error) {
			m.surface.Back()
			return "", nil
		})
	case key.Matches(msg, m.keys.add):
		return m.openAddPhotos()
	case key.Matches(msg, m.keys.enter):
		if current.Control {
			return m.openAddPhotos()
		}
		if current.ID != "" {
			id := current.ID
			return m.run(func() (string, error) { return "Cover updated", m.editor.SetCover(m.ctx, id) })
		}
	case key.Matches(msg, m.keys.remove):
		if current.ID != "" && !current.Control {
			id := current.ID
			return m.run(func() (string, error) { return "Removed from album", m.editor.RemoveItem(m.ctx, id) })
		}
	case key.Matches(msg, m.keys.grab):
		if current.ID == "" || current.Control {
			return nil
		}
		if err := m.editor.StartReorder(current.ID); err != nil {
			m.setNotice(err.Error(), true)
			return nil
		}
		m.reordering = current.ID
	}
	return nil
}

// stepReorder drags the grabbed member past its neighbor in dir. Strip slots are one unit wide, so the
// pointer lands a quarter slot inside the neighbor on the far side of its midpoint.
func (m *Model) stepReorder(entries []dragdrop.Entry, dir int) {
	from := slices.IndexFunc(entries, func(e dragdrop.Entry) bool { return e.ID == m.reordering })
	over := from + dir
	if from < 0 || over < 0 || over >= len(entries) {
		return
	}
	left := float64(over)
	pointer := left + 0.25
	if dir > 0 {
		pointer = left + 0.75
	}
	if m.editor.MoveReorder(entries[over].ID, pointer, left, 1) {
		m.strip.Select(over)
	}
}

func (m *Model) openAddPhotos() tea.Cmd {
	return m.run(func() (string, error) {
		if err := m.editor.OpenAddPhotos(m.ctx); err != nil {
			return "", err
		}
		return "", nil
	})
}

func (m *Model) handleAddPhotosKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.up):
		m.picker.CursorUp()
	case key.Matches(msg, m.keys.down):
		m.picker.CursorDown()
	case key.Matches(msg, m.keys.toggle):
		if item, ok := m.picker.SelectedItem().(candidateItem); ok {
			if _, err := m.editor.ToggleCandidate(item.item.ID); err != nil {
				m.setNotice(err.Error(), true)
			}
		}
	case key.Matches(msg, m.keys.enter):
		return m.run(func() (string, error) {
			if err := m.editor.CommitAddPhotos(m.ctx); err != nil {
				return "", err
			}
			return "Photos added", nil
		})
	case key.Matches(msg, m.keys.back):
		m.surface.Back()
	}
	return nil
}

func (m *Model) handleViewerKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.left):
		m.nav.Navigate(-1)
	case key.Matches(msg, m.keys.right):
		m.nav.Navigate(1)
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.nav.Close()
		m.surface.HideViewer()
		m.view = BrowseView
	}
	return nil
}

// currentGridItem resolves the list cursor against the grid's rendered items.
func (m *Model) currentGridItem() (models.Item, bool) {
	if it, ok := m.browse.SelectedItem().(gridItem); ok {
		return it.item, true
	}
	return models.Item{}, false
}

// syncLists rebuilds the list items from the surface frame.
func (m *Model) syncLists() {
	frame := m.surface.Frame()
	dragged := m.drag.Dragged()

	gridItems := make([]list.Item, 0, len(frame.Content.Items))
	for _, item := range frame.Content.Items {
		gridItems = append(gridItems, gridItem{
			item:     item,
			selected: frame.Selected[item.ID],
			target:   frame.Target == item.ID,
			dimmed:   frame.Dimmed[item.ID],
			grabbed:  dragged == item.ID,
		})
	}
	m.browse.SetItems(gridItems)

	if frame.EditorShown {
		m.strip.Title = shared.SanitizeLabel(frame.EditorAlbum.Name)
		members := make(map[string]models.Item, len(frame.EditorAlbum.Items))
		for _, item := range frame.EditorAlbum.Items {
			members[item.ID] = item
		}
		entries := m.editor.ReorderEntries()
		stripItems := make([]list.Item, 0, len(entries))
		for _, e := range entries {
			item, ok := members[e.ID]
			if !ok {
				item = models.Item{ID: e.ID}
			}
			stripItems = append(stripItems, memberItem{
				item:    item,
				control: e.Control,
				cover:   !e.Control && e.ID == frame.EditorCover,
				grabbed: e.ID == m.reordering,
			})
		}
		m.strip.SetItems(stripItems)
	}

	pickerItems := make([]list.Item, 0, len(frame.Candidates))
	for _, item := range frame.Candidates {
		pickerItems = append(pickerItems, candidateItem{item: item, chosen: frame.Chosen[item.ID]})
	}
	m.picker.SetItems(pickerItems)
}

func (m *Model) loadFolder() tea.Cmd {
	folder := m.state.Folder()
	return func() tea.Msg {
		return folderLoadedMsg(m.grid.Open(m.ctx, folder))
	}
}

// run executes fn off the update loop and reports its outcome as [MsgActionDone].
func (m *Model) run(fn func() (string, error)) tea.Cmd {
	return func() tea.Msg {
		note, err := fn()
		return actionDoneMsg(note, err)
	}
}

// startBatch runs fn in the background and streams its progress updates until it completes.
func (m *Model) startBatch(title string, fn func(chan<- tasks.ProgressUpdate) (string, error)) tea.Cmd {
	prog := make(chan tasks.ProgressUpdate, 50)
	done := make(chan Msg, 1)
	m.progressChan, m.doneChan = prog, done
	m.progress = tasks.ProgressUpdate{Message: "Starting..."}
	m.batchTitle = title
	m.view = ProgressView

	go func() {
		note, err := fn(prog)
		done <- batchCompleteMsg(note, err)
		close(prog)
	}()

	return waitForProgress(prog, done)
}

// waitForProgress yields the next progress update, or the completion message once the channel is closed.
func waitForProgress(prog <-chan tasks.ProgressUpdate, done <-chan Msg) tea.Cmd {
	return func() tea.Msg {
		if prog == nil {
			return nil
		}
		if update, ok := <-prog; ok {
			return progressUpdateMsg(update)
		}
		return <-done
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	var body string
	switch m.view {
	case BrowseView:
		body = m.renderBrowse()
	case ConfirmView:
		body = m.renderConfirm()
	case MoveView:
		body = m.renderMove()
	case EditorView:
		body = m.renderEditor()
	case AddPhotosView:
		body = m.renderAddPhotos()
	case ViewerView:
		body = m.renderViewer()
	case ProgressView:
		body = m.renderProgress()
	}
	return body + m.renderStatus()
}

func (m *Model) renderStatus() string {
	var b strings.Builder
	frame := m.surface.Frame()
	if frame.Toolbar && (m.view == BrowseView || m.view == ConfirmView || m.view == MoveView) {
		b.WriteString("\n")
		b.WriteString(styles.toolbar.Render(fmt.Sprintf("%d selected", frame.Count)))
	}
	if m.notice != "" {
		b.WriteString("\n")
		if m.failed {
			b.WriteString(styles.err.Render(m.notice))
		} else {
			b.WriteString(styles.ok.Render(m.notice))
		}
	}
	return b.String()
}

func (m *Model) renderBrowse() string {
	keys := []key.Binding{m.keys.toggle, m.keys.selectAll, m.keys.remove, m.keys.move, m.keys.save, m.keys.grab, m.keys.edit, m.keys.quit}
	if m.drag.State() != dragdrop.GridIdle {
		drop := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter/g", "drop"))
		keys = []key.Binding{m.keys.up, m.keys.down, drop, m.keys.back}
	}
	return fmt.Sprintf("%s\n\n%s", m.browse.View(), m.help.ShortHelpView(keys))
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(m.confirmText)
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no})
	return fmt.Sprintf("%s\n%s", title, helpView)
}

func (m *Model) renderMove() string {
	title := styles.title.Render(fmt.Sprintf("Move %d photo(s) to folder", len(m.state.Selection.Snapshot().Photos)))
	confirm := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "move"))
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.input.View(), m.help.ShortHelpView([]key.Binding{confirm, m.keys.back}))
}

func (m *Model) renderEditor() string {
	keys := []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "set cover")),
		m.keys.remove, m.keys.grab, m.keys.add, m.keys.back,
	}
	if m.reordering != "" {
		drop := key.NewBinding(key.WithKeys("g"), key.WithHelp("g/enter", "drop"))
		keys = []key.Binding{m.keys.up, m.keys.down, drop}
	}
	return fmt.Sprintf("%s\n\n%s", m.strip.View(), m.help.ShortHelpView(keys))
}

func (m *Model) renderAddPhotos() string {
	commit := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add"))
	keys := []key.Binding{m.keys.toggle, m.keys.back}
	if len(m.surface.Frame().Chosen) > 0 {
		keys = []key.Binding{m.keys.toggle, commit, m.keys.back}
	}
	return fmt.Sprintf("%s\n\n%s", m.picker.View(), m.help.ShortHelpView(keys))
}

func (m *Model) renderViewer() string {
	frame := m.surface.Frame()
	title := styles.title.Render(shared.SanitizeLabel(frame.ViewerItem.Label()))
	indicator := fmt.Sprintf("%d / %d", frame.ViewerIndex+1, frame.ViewerTotal)
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.left, m.keys.right, m.keys.back})
	return fmt.Sprintf("%s\n%s\n\n%s", title, styles.help.Render(indicator), helpView)
}

func (m *Model) renderProgress() string {
	title := styles.title.Render(m.batchTitle)
	var counter string
	if m.progress.Total > 0 {
		counter = fmt.Sprintf("(%d/%d) ", m.progress.Step, m.progress.Total)
	}
	return fmt.Sprintf("%s\n\n%s%s", title, counter, m.progress.Message)
}
