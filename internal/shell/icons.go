package shell

// IconHandle identifies a renderable icon within an icon set.
type IconHandle struct {
	Set  string `json:"set"`
	Name string `json:"name"`
}

// DefaultIcon is shown when no registry knows the requested icon.
var DefaultIcon = IconHandle{Set: "builtin", Name: "unknown"} //nolint:gochecknoglobals

// IconRegistry resolves an icon reference.
type IconRegistry interface {
	Resolve(name string) (IconHandle, bool)
}

// IconSet is a fixed set of icon names.
type IconSet struct {
	name  string
	icons map[string]struct{}
}

// NewIconSet creates a set called name holding icons.
func NewIconSet(name string, icons ...string) *IconSet {
	s := &IconSet{name: name, icons: make(map[string]struct{}, len(icons))}
	for _, icon := range icons {
		s.icons[icon] = struct{}{}
	}

	return s
}

// Resolve implements IconRegistry.
func (s *IconSet) Resolve(name string) (IconHandle, bool) {
	if _, ok := s.icons[name]; !ok {
		return IconHandle{}, false
	}

	return IconHandle{Set: s.name, Name: name}, true
}

// IconResolver queries its registries in a fixed order and falls back to a default icon.
type IconResolver struct {
	tiers    []IconRegistry
	fallback IconHandle
}

// NewIconResolver creates a resolver trying primary before secondary.
func NewIconResolver(primary, secondary IconRegistry) *IconResolver {
	r := &IconResolver{fallback: DefaultIcon}

	for _, tier := range []IconRegistry{primary, secondary} {
		if tier != nil {
			r.tiers = append(r.tiers, tier)
		}
	}

	return r
}

// Resolve returns the handle for name and whether a registry knew it.
// Unknown names get the default icon and false.
func (r *IconResolver) Resolve(name string) (IconHandle, bool) {
	for _, tier := range r.tiers {
		if h, ok := tier.Resolve(name); ok {
			return h, true
		}
	}

	return r.fallback, false
}

// PrimaryIcons is the back-office line icon set.
func PrimaryIcons() *IconSet {
	return NewIconSet("line",
		"home", "dashboard", "users", "user", "calendar", "wallet", "chart",
		"mail", "book", "clipboard", "settings", "shield", "bell", "heart",
	)
}

// SecondaryIcons is the legacy glyph set some stored sidebars still reference.
func SecondaryIcons() *IconSet {
	return NewIconSet("glyph",
		"fa-home", "fa-users", "fa-user", "fa-calendar", "fa-money", "fa-bar-chart",
		"fa-envelope", "fa-graduation-cap", "fa-cog", "fa-lock",
	)
}
