package ui

// Theme defines a complete color palette for the application.
type Theme struct {
	// Name is the display name of the theme
	Name string

	Primary   string // Focus, highlights, header gradient start
	Secondary string // Key hints, secondary accents

	Bg         string // Main background, header gradient end
	BgSelected string // Selected sidebar entry (defaults to Primary)

	Text        string
	TextMuted   string
	TextInverse string // Text on colored backgrounds

	User      string // User bubble border and label
	Assistant string // Assistant bubble border and label
	Warning   string
	Error     string
	Success   string
	Info      string

	Border      string
	BorderFocus string // Defaults to Primary

	// Draft preview block
	DraftBorder string
	DraftBg     string

	MarkdownH1       string
	MarkdownH2       string
	MarkdownH3       string
	MarkdownCode     string
	MarkdownCodeBg   string
	MarkdownLink     string
	MarkdownListItem string

	// CodeStyle is the chroma style used for fenced code blocks
	CodeStyle string
}

// GetBgSelected returns the selected background color, defaulting to Primary
func (t Theme) GetBgSelected() string {
	if t.BgSelected != "" {
		return t.BgSelected
	}
	return t.Primary
}

// GetBorderFocus returns the focused border color, defaulting to Primary
func (t Theme) GetBorderFocus() string {
	if t.BorderFocus != "" {
		return t.BorderFocus
	}
	return t.Primary
}

// ThemeName is a type for theme identifiers
type ThemeName string

// Available theme names
const (
	ThemeSaffron ThemeName = "saffron"
	ThemeMonsoon ThemeName = "monsoon"
	ThemeNord    ThemeName = "nord"
	ThemeDracula ThemeName = "dracula"
	ThemeLight   ThemeName = "light"
)

// DefaultTheme is the default theme name
const DefaultTheme = ThemeSaffron

// BuiltinThemes contains all built-in themes
var BuiltinThemes = map[ThemeName]Theme{
	ThemeSaffron: {
		Name:             "Saffron",
		Primary:          "#F97316",
		Secondary:        "#22C55E",
		Bg:               "#1C1917",
		BgSelected:       "#C2410C",
		Text:             "#FAFAF9",
		TextMuted:        "#A8A29E",
		TextInverse:      "#1C1917",
		User:             "#FDBA74",
		Assistant:        "#4ADE80",
		Warning:          "#FACC15",
		Error:            "#EF4444",
		Success:          "#22C55E",
		Info:             "#38BDF8",
		Border:           "#44403C",
		DraftBorder:      "#FACC15",
		DraftBg:          "#292524",
		MarkdownH1:       "#FB923C",
		MarkdownH2:       "#FDBA74",
		MarkdownH3:       "#4ADE80",
		MarkdownCode:     "#86EFAC",
		MarkdownCodeBg:   "#292524",
		MarkdownLink:     "#38BDF8",
		MarkdownListItem: "#F97316",
		CodeStyle:        "monokai",
	},
	ThemeMonsoon: {
		Name:             "Monsoon",
		Primary:          "#0EA5E9",
		Secondary:        "#A78BFA",
		Bg:               "#0F172A",
		Text:             "#E2E8F0",
		TextMuted:        "#94A3B8",
		TextInverse:      "#0F172A",
		User:             "#7DD3FC",
		Assistant:        "#C4B5FD",
		Warning:          "#FBBF24",
		Error:            "#F87171",
		Success:          "#34D399",
		Info:             "#38BDF8",
		Border:           "#334155",
		DraftBorder:      "#34D399",
		DraftBg:          "#1E293B",
		MarkdownH1:       "#38BDF8",
		MarkdownH2:       "#7DD3FC",
		MarkdownH3:       "#C4B5FD",
		MarkdownCode:     "#A5F3FC",
		MarkdownCodeBg:   "#1E293B",
		MarkdownLink:     "#A78BFA",
		MarkdownListItem: "#0EA5E9",
		CodeStyle:        "github-dark",
	},
	ThemeNord: {
		Name:             "Nord",
		Primary:          "#88C0D0",
		Secondary:        "#81A1C1",
		Bg:               "#2E3440",
		Text:             "#ECEFF4",
		TextMuted:        "#D8DEE9",
		TextInverse:      "#2E3440",
		User:             "#A3BE8C",
		Assistant:        "#88C0D0",
		Warning:          "#EBCB8B",
		Error:            "#BF616A",
		Success:          "#A3BE8C",
		Info:             "#81A1C1",
		Border:           "#4C566A",
		DraftBorder:      "#EBCB8B",
		DraftBg:          "#3B4252",
		MarkdownH1:       "#88C0D0",
		MarkdownH2:       "#81A1C1",
		MarkdownH3:       "#5E81AC",
		MarkdownCode:     "#A3BE8C",
		MarkdownCodeBg:   "#242933",
		MarkdownLink:     "#88C0D0",
		MarkdownListItem: "#81A1C1",
		CodeStyle:        "nord",
	},
	ThemeDracula: {
		Name:             "Dracula",
		Primary:          "#BD93F9",
		Secondary:        "#8BE9FD",
		Bg:               "#282A36",
		Text:             "#F8F8F2",
		TextMuted:        "#6272A4",
		TextInverse:      "#282A36",
		User:             "#FF79C6",
		Assistant:        "#8BE9FD",
		Warning:          "#FFB86C",
		Error:            "#FF5555",
		Success:          "#50FA7B",
		Info:             "#8BE9FD",
		Border:           "#44475A",
		DraftBorder:      "#FFB86C",
		DraftBg:          "#21222C",
		MarkdownH1:       "#BD93F9",
		MarkdownH2:       "#FF79C6",
		MarkdownH3:       "#8BE9FD",
		MarkdownCode:     "#50FA7B",
		MarkdownCodeBg:   "#21222C",
		MarkdownLink:     "#8BE9FD",
		MarkdownListItem: "#BD93F9",
		CodeStyle:        "dracula",
	},
	ThemeLight: {
		Name:             "Light",
		Primary:          "#C2410C",
		Secondary:        "#0369A1",
		Bg:               "#FFFFFF",
		BgSelected:       "#FED7AA",
		Text:             "#1C1917",
		TextMuted:        "#57534E",
		TextInverse:      "#FFFFFF",
		User:             "#9A3412",
		Assistant:        "#15803D",
		Warning:          "#B45309",
		Error:            "#B91C1C",
		Success:          "#15803D",
		Info:             "#0369A1",
		Border:           "#D6D3D1",
		DraftBorder:      "#B45309",
		DraftBg:          "#FAFAF9",
		MarkdownH1:       "#C2410C",
		MarkdownH2:       "#9A3412",
		MarkdownH3:       "#15803D",
		MarkdownCode:     "#0F766E",
		MarkdownCodeBg:   "#F5F5F4",
		MarkdownLink:     "#0369A1",
		MarkdownListItem: "#C2410C",
		CodeStyle:        "github",
	},
}

// ThemeNames returns all theme names in display order
func ThemeNames() []ThemeName {
	return []ThemeName{
		ThemeSaffron,
		ThemeMonsoon,
		ThemeNord,
		ThemeDracula,
		ThemeLight,
	}
}

// IsKnownTheme reports whether name is a built-in theme.
func IsKnownTheme(name string) bool {
	_, ok := BuiltinThemes[ThemeName(name)]
	return ok
}

// GetTheme returns a theme by name, defaulting to DefaultTheme if not found
func GetTheme(name ThemeName) Theme {
	if theme, ok := BuiltinThemes[name]; ok {
		return theme
	}
	return BuiltinThemes[DefaultTheme]
}

var (
	currentTheme     = BuiltinThemes[DefaultTheme]
	currentThemeName = DefaultTheme
)

// CurrentTheme returns the active theme
func CurrentTheme() Theme {
	return currentTheme
}

// CurrentThemeName returns the name of the active theme
func CurrentThemeName() ThemeName {
	return currentThemeName
}

// SetTheme sets the active theme and regenerates all styles.
// Unknown names fall back to DefaultTheme.
func SetTheme(name ThemeName) {
	if _, ok := BuiltinThemes[name]; !ok {
		name = DefaultTheme
	}
	currentTheme = BuiltinThemes[name]
	currentThemeName = name
	regenerateStyles()
}

// SetThemeByName sets the active theme by string name
func SetThemeByName(name string) {
	SetTheme(ThemeName(name))
}
