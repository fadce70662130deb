package controllers

// Theme is the color scheme the screen renders with.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ToggleLabel is the caption of the button that switches away from t.
func (t Theme) ToggleLabel() string {
	if t == ThemeDark {
		return "Light Mode"
	}
	return "Dark Mode"
}

// themeState keeps the system scheme and the user's explicit choice apart.
// An override of nil means "follow the system".
type themeState struct {
	system   Theme
	override *Theme
}

func (s themeState) current() Theme {
	if s.override != nil {
		return *s.override
	}
	if s.system == "" {
		return ThemeLight
	}
	return s.system
}

func (s *themeState) toggle() {
	next := s.current().Opposite()
	s.override = &next
}
