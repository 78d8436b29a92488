package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var documentValidator = validator.New() //nolint:gochecknoglobals

// Widget is one descriptor of a dashboard document.
// Keys other than type and enabled are kept in Options and written back unchanged.
type Widget struct {
	// Type selects the dashboard component (e.g. "clients", "budgets").
	Type string `validate:"required,min=1,max=100"`
	// Enabled is required on write; a nil value is treated as disabled on read.
	Enabled *bool `validate:"required"`
	// Options holds the remaining free-form keys of the descriptor.
	Options map[string]any
}

// Bool returns a pointer to b, handy for building widgets.
func Bool(b bool) *bool {
	return &b
}

// IsEnabled reports whether the widget's own flag is set.
func (w Widget) IsEnabled() bool {
	return w.Enabled != nil && *w.Enabled
}

// MarshalJSON flattens Options next to type and enabled.
func (w Widget) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(w.Options)+2) //nolint:mnd
	for k, v := range w.Options {
		out[k] = v
	}

	out["type"] = w.Type
	if w.Enabled != nil {
		out["enabled"] = *w.Enabled
	}

	return json.Marshal(out)
}

// UnmarshalJSON reads a flat descriptor object.
func (w *Widget) UnmarshalJSON(data []byte) error {
	// numbers stay json.Number so large integers round trip exactly
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	if raw == nil {
		return errors.New("widget descriptor must be an object")
	}

	*w = Widget{}

	if v, ok := raw["type"]; ok {
		s, isString := v.(string)
		if !isString {
			return errors.New("widget type must be a string")
		}

		w.Type = s

		delete(raw, "type")
	}

	if v, ok := raw["enabled"]; ok {
		b, isBool := v.(bool)
		if !isBool {
			return errors.New("widget enabled must be a boolean")
		}

		w.Enabled = Bool(b)

		delete(raw, "enabled")
	}

	if len(raw) > 0 {
		w.Options = raw
	}

	return nil
}

// Dashboard is the ordered widget layout of a role's landing page.
type Dashboard struct {
	Widgets []Widget `validate:"dive"`
	// Toggles are document-level switches per widget type; a missing key means on.
	Toggles map[string]bool
}

type dashboardObject struct {
	Widgets []Widget        `json:"widgets"`
	Toggles map[string]bool `json:"toggles,omitempty"`
}

// Visible reports whether w is shown: its own flag and the type toggle must both be on.
func (d Dashboard) Visible(w Widget) bool {
	if !w.IsEnabled() {
		return false
	}

	if on, ok := d.Toggles[w.Type]; ok && !on {
		return false
	}

	return true
}

// VisibleWidgets returns the widgets to render, in document order.
func (d Dashboard) VisibleWidgets() []Widget {
	out := make([]Widget, 0, len(d.Widgets))
	for _, w := range d.Widgets {
		if d.Visible(w) {
			out = append(out, w)
		}
	}

	return out
}

// IsEmpty reports whether the document carries nothing.
func (d Dashboard) IsEmpty() bool {
	return len(d.Widgets) == 0 && len(d.Toggles) == 0
}

// Validate checks the structural rules enforced on write.
func (d Dashboard) Validate() error {
	return documentValidator.Struct(d)
}

// MarshalJSON writes the array form unless toggles are set.
func (d Dashboard) MarshalJSON() ([]byte, error) {
	widgets := d.Widgets
	if widgets == nil {
		widgets = []Widget{}
	}

	if len(d.Toggles) == 0 {
		return json.Marshal(widgets)
	}

	return json.Marshal(dashboardObject{Widgets: widgets, Toggles: d.Toggles})
}

// UnmarshalJSON accepts both the array and the object form.
func (d *Dashboard) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*d = Dashboard{}

	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		return nil
	case trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &d.Widgets); err != nil {
			return err
		}
	case trimmed[0] == '{':
		var obj dashboardObject
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}

		d.Widgets = obj.Widgets
		d.Toggles = obj.Toggles
	default:
		return fmt.Errorf("dashboard document must be an array or object, got %q", trimmed[0])
	}

	if len(d.Widgets) == 0 {
		d.Widgets = nil
	}

	if len(d.Toggles) == 0 {
		d.Toggles = nil
	}

	return nil
}

// Value implements driver.Valuer; documents are stored as JSON text.
func (d Dashboard) Value() (driver.Value, error) {
	out, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}

	return string(out), nil
}

// Scan implements sql.Scanner. It never fails, see ParseDashboard.
func (d *Dashboard) Scan(src any) error {
	*d = ParseDashboard(src)
	return nil
}

// SidebarItem is one navigation descriptor.
type SidebarItem struct {
	Name   string `json:"name"             validate:"required,max=100"`
	Icon   string `json:"icon"             validate:"required,max=100"`
	Color  string `json:"color,omitempty"  validate:"max=50"`
	Target string `json:"target,omitempty" validate:"max=255"`
}

// Sidebar is the ordered navigation menu of a role. Order is significant.
type Sidebar []SidebarItem

// Validate checks the structural rules enforced on write.
func (s Sidebar) Validate() error {
	for i, item := range s {
		if err := documentValidator.Struct(item); err != nil {
			return errors.Wrapf(err, "sidebar item %d", i)
		}
	}

	return nil
}

// MarshalJSON writes an array, never null.
func (s Sidebar) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}

	return json.Marshal([]SidebarItem(s))
}

// UnmarshalJSON reads an array of items; null and [] both give an empty sidebar.
func (s *Sidebar) UnmarshalJSON(data []byte) error {
	var items []SidebarItem
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}

	if len(items) == 0 {
		items = nil
	}

	*s = items

	return nil
}

// Value implements driver.Valuer.
func (s Sidebar) Value() (driver.Value, error) {
	out, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}

	return string(out), nil
}

// Scan implements sql.Scanner. It never fails, see ParseSidebar.
func (s *Sidebar) Scan(src any) error {
	*s = ParseSidebar(src)
	return nil
}

// ParseDashboard turns a stored value into a Dashboard.
// Unreadable input is logged and yields an empty document.
func ParseDashboard(raw any) Dashboard {
	d, err := parseDocument[Dashboard](raw)
	if err != nil {
		log.Warn().Err(err).Msg("unreadable dashboard document, using empty document")
		return Dashboard{}
	}

	return d
}

// ParseSidebar turns a stored value into a Sidebar.
// Unreadable input is logged and yields an empty document.
func ParseSidebar(raw any) Sidebar {
	s, err := parseDocument[Sidebar](raw)
	if err != nil {
		log.Warn().Err(err).Msg("unreadable sidebar document, using empty document")
		return nil
	}

	return s
}

// parseDocument decodes raw as JSON; if that fails and raw is a JSON string literal,
// the string content is decoded instead.
func parseDocument[T any, PT interface {
	*T
	json.Unmarshaler
}](raw any) (T, error) {
	var zero T

	data, err := documentBytes(raw)
	if err != nil {
		return zero, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return zero, nil
	}

	var doc T

	errDirect := PT(&doc).UnmarshalJSON(data)
	if errDirect == nil {
		return doc, nil
	}

	inner, ok := decodeString(data)
	if !ok {
		return zero, errors.Wrap(errDirect, "decode document")
	}

	doc = zero
	if err = PT(&doc).UnmarshalJSON([]byte(inner)); err != nil {
		return zero, errors.Wrap(err, "decode serialized document")
	}

	return doc, nil
}

func decodeString(data []byte) (string, bool) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", false
	}

	if len(bytes.TrimSpace([]byte(s))) == 0 {
		return "null", true
	}

	return s, true
}

func documentBytes(raw any) ([]byte, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case json.RawMessage:
		return v, nil
	default:
		// already structured, e.g. a driver returning decoded JSON
		out, err := json.Marshal(v)
		if err != nil {
			return nil, errors.Wrapf(err, "encode structured document of type %T", raw)
		}

		return out, nil
	}
}
