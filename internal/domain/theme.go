package domain

// Theme preferences carried in the persisted slice.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// ValidTheme reports whether t is one of the accepted preference values.
func ValidTheme(t string) bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeSystem
}
