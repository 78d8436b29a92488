package shell

import "maps"

// UnknownComponent is the component rendered for widget types nobody registered.
const UnknownComponent = "unknown-component"

// Component describes how a dashboard widget type is rendered.
type Component struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// ComponentRegistry maps widget types to components. It is immutable once built.
type ComponentRegistry struct {
	components map[string]Component
}

// NewComponentRegistry builds a registry from a widget type -> component map.
func NewComponentRegistry(components map[string]Component) *ComponentRegistry {
	return &ComponentRegistry{components: maps.Clone(components)}
}

// Lookup returns the component registered for widgetType.
func (r *ComponentRegistry) Lookup(widgetType string) (Component, bool) {
	c, ok := r.components[widgetType]
	return c, ok
}

// DefaultComponents registers the dashboard widgets the back office ships with.
func DefaultComponents() *ComponentRegistry {
	return NewComponentRegistry(map[string]Component{
		"clients":   {Name: "client-list", Title: "Clients"},
		"services":  {Name: "service-schedule", Title: "Services"},
		"budgets":   {Name: "budget-summary", Title: "Budgets"},
		"reports":   {Name: "report-overview", Title: "Reports"},
		"messages":  {Name: "message-inbox", Title: "Messages"},
		"courses":   {Name: "course-progress", Title: "Courses"},
		"shifts":    {Name: "shift-roster", Title: "Shifts"},
		"approvals": {Name: "approval-queue", Title: "Approvals"},
	})
}
