// Package navigation holds the rendered sidebar menu of the client shell.
package navigation

// PlaceholderLabel is shown for entries whose descriptor carries no name.
const PlaceholderLabel = "Untitled"

// Entry represents a single menu link.
type Entry struct {
	Label  string `json:"label"`
	Icon   string `json:"icon"`
	Color  string `json:"color,omitempty"`
	Target string `json:"target,omitempty"`
	// Unresolved is set when the icon name matched no registry and the default icon is shown.
	Unresolved bool `json:"unresolved,omitempty"`
}

// Menu is the ordered list of entries plus the currently active target.
type Menu struct {
	Entries []Entry `json:"entries"`
	Active  string  `json:"active,omitempty"`
}

// NewMenu creates a new, empty menu.
func NewMenu() *Menu {
	return &Menu{
		Entries: make([]Entry, 0),
	}
}

// Add appends an entry to the menu. A blank label is replaced by PlaceholderLabel.
func (m *Menu) Add(e Entry) *Menu {
	if e.Label == "" {
		e.Label = PlaceholderLabel
	}

	m.Entries = append(m.Entries, e)

	return m
}

// SetActive marks the entry with the given target as active.
func (m *Menu) SetActive(target string) *Menu {
	m.Active = target
	return m
}

// IsActive checks if the given target is the active one.
func (m *Menu) IsActive(target string) bool {
	return target != "" && m.Active == target
}

// Unresolved returns the entries rendered with the default icon.
func (m *Menu) Unresolved() []Entry {
	var out []Entry

	for _, e := range m.Entries {
		if e.Unresolved {
			out = append(out, e)
		}
	}

	return out
}

// Len returns the number of entries.
func (m *Menu) Len() int {
	return len(m.Entries)
}
