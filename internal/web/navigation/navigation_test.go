package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMenu(t *testing.T) {
	m := NewMenu()

	assert.NotNil(t, m.Entries)
	assert.Empty(t, m.Entries)
	assert.Empty(t, m.Active)
	assert.Equal(t, 0, m.Len())
}

func TestMenu_Add(t *testing.T) {
	m := NewMenu()

	m.Add(Entry{Label: "Clients", Icon: "users", Target: "/clients"})
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, "Clients", m.Entries[0].Label)
	assert.Equal(t, "/clients", m.Entries[0].Target)

	// blank label gets the placeholder
	m.Add(Entry{Icon: "box"})
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, PlaceholderLabel, m.Entries[1].Label)
}

func TestMenu_Add_Chaining(t *testing.T) {
	m := NewMenu().
		Add(Entry{Label: "Home", Target: "/"}).
		Add(Entry{Label: "Budgets", Target: "/budgets"}).
		Add(Entry{Label: "Reports", Target: "/reports"})

	assert.Equal(t, []string{"Home", "Budgets", "Reports"}, []string{
		m.Entries[0].Label, m.Entries[1].Label, m.Entries[2].Label,
	})
}

func TestMenu_IsActive(t *testing.T) {
	m := NewMenu().Add(Entry{Label: "Budgets", Target: "/budgets"}).SetActive("/budgets")

	assert.True(t, m.IsActive("/budgets"))
	assert.False(t, m.IsActive("/clients"))
	assert.False(t, NewMenu().IsActive(""))
}

func TestMenu_Unresolved(t *testing.T) {
	m := NewMenu().
		Add(Entry{Label: "Clients", Icon: "users"}).
		Add(Entry{Label: "Mystery", Icon: "circle", Unresolved: true})

	unresolved := m.Unresolved()
	assert.Len(t, unresolved, 1)
	assert.Equal(t, "Mystery", unresolved[0].Label)

	assert.Empty(t, NewMenu().Unresolved())
}
