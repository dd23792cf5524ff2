package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/shared"
)

var (
	_ list.Item = gridItem{}
	_ list.Item = memberItem{}
	_ list.Item = candidateItem{}
)

// gridItem wraps a folder [models.Item] with its rendered marks to implement [list.Item].
type gridItem struct {
	item     models.Item
	selected bool
	target   bool
	dimmed   bool
	grabbed  bool
}

func (i gridItem) FilterValue() string { return i.item.Label() }

func (i gridItem) Title() string {
	mark := "[ ]"
	if !i.item.Kind.Selectable() {
		mark = "   "
	} else if i.selected {
		mark = "[x]"
	}
	title := fmt.Sprintf("%s %s", mark, shared.SanitizeLabel(i.item.Label()))
	switch {
	case i.dimmed:
		return styles.dim.Render(title)
	case i.target:
		return styles.target.Render(title)
	case i.grabbed:
		return styles.warn.Render(title)
	case i.selected:
		return styles.selected.Render(title)
	}
	return title
}

func (i gridItem) Description() string {
	desc := string(i.item.Kind)
	switch i.item.Access {
	case models.AccessDenied:
		desc += " • no access"
	case models.AccessLocked:
		desc += " • locked"
	}
	if i.item.Attached {
		desc += " • in album"
	}
	return desc
}

// memberItem is one slot of the album strip in the editing session.
type memberItem struct {
	item    models.Item
	control bool
	cover   bool
	grabbed bool
}

func (i memberItem) FilterValue() string { return i.item.ID }

func (i memberItem) Title() string {
	if i.control {
		return styles.help.Render("+ add photos")
	}
	title := shared.SanitizeLabel(i.item.Label())
	if i.cover {
		title = "★ " + title
	}
	if i.grabbed {
		return styles.warn.Render(title)
	}
	return title
}

func (i memberItem) Description() string {
	if i.control {
		return "choose unattached media from this folder"
	}
	if i.cover {
		return "cover"
	}
	return ""
}

// candidateItem is one unattached photo in the add-photos sub-flow.
type candidateItem struct {
	item   models.Item
	chosen bool
}

func (i candidateItem) FilterValue() string { return i.item.Label() }

func (i candidateItem) Title() string {
	mark := "[ ]"
	if i.chosen {
		mark = "[x]"
	}
	return fmt.Sprintf("%s %s", mark, shared.SanitizeLabel(i.item.Label()))
}

func (i candidateItem) Description() string { return i.item.ID }
