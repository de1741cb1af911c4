package config

// UIConfig configures the terminal UI.
type UIConfig struct {
	Theme     string `yaml:"theme"` // auto, light, dark
	AltScreen bool   `yaml:"alt_screen"`
}
