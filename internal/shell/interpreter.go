package shell

import (
	"github.com/rs/zerolog/log"

	"github.com/caredesk/caredesk/internal/db/models"
	"github.com/caredesk/caredesk/internal/web/navigation"
)

// Panel is one rendered dashboard widget.
type Panel struct {
	Type      string         `json:"type"`
	Component string         `json:"component"`
	Title     string         `json:"title"`
	Options   map[string]any `json:"options,omitempty"`
	// Unknown is set when no component is registered for Type.
	Unknown bool `json:"unknown,omitempty"`
}

// Interpreter turns stored documents into renderable structures.
type Interpreter struct {
	icons      *IconResolver
	components *ComponentRegistry
}

// NewInterpreter creates an interpreter using the given registries.
func NewInterpreter(icons *IconResolver, components *ComponentRegistry) *Interpreter {
	return &Interpreter{icons: icons, components: components}
}

// Menu interprets a sidebar. Every item yields an entry, in document order;
// unknown icons are replaced by the default icon and flagged.
func (i *Interpreter) Menu(sidebar models.Sidebar) *navigation.Menu {
	menu := navigation.NewMenu()

	for _, item := range sidebar {
		handle, ok := i.icons.Resolve(item.Icon)
		if !ok {
			log.Warn().Str("icon", item.Icon).Str("entry", item.Name).Msg("unknown sidebar icon, using default")
		}

		menu.Add(navigation.Entry{
			Label:      item.Name,
			Icon:       handle.Set + ":" + handle.Name,
			Color:      item.Color,
			Target:     item.Target,
			Unresolved: !ok,
		})
	}

	return menu
}

// Panels interprets a dashboard. Hidden widgets are skipped; widgets of an
// unregistered type become a visible unknown-component panel.
func (i *Interpreter) Panels(dashboard models.Dashboard) []Panel {
	widgets := dashboard.VisibleWidgets()
	panels := make([]Panel, 0, len(widgets))

	for _, w := range widgets {
		c, ok := i.components.Lookup(w.Type)
		if !ok {
			log.Warn().Str("type", w.Type).Msg("no component registered for dashboard widget")

			panels = append(panels, Panel{
				Type:      w.Type,
				Component: UnknownComponent,
				Title:     "Unknown component: " + w.Type,
				Options:   w.Options,
				Unknown:   true,
			})

			continue
		}

		panels = append(panels, Panel{
			Type:      w.Type,
			Component: c.Name,
			Title:     c.Title,
			Options:   w.Options,
		})
	}

	return panels
}
