package ui

import "testing"

func TestDetectTheme(t *testing.T) {
	t.Setenv("COLORFGBG", "")

	t.Setenv("STOREFRONT_DARK_MODE", "1")
	dark := DetectTheme()
	if !dark.IsDark {
		t.Fatalf("expected dark theme when STOREFRONT_DARK_MODE=1")
	}

	t.Setenv("STOREFRONT_DARK_MODE", "")
	light := DetectTheme()
	if light.IsDark {
		t.Fatalf("expected light theme when STOREFRONT_DARK_MODE is unset")
	}

	t.Setenv("COLORFGBG", "15;0")
	if !DetectTheme().IsDark {
		t.Fatalf("expected dark theme for black background")
	}
}

func TestThemeFor(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("STOREFRONT_DARK_MODE", "")

	if !ThemeFor("dark").IsDark {
		t.Error("dark should be dark")
	}
	if ThemeFor("LIGHT").IsDark {
		t.Error("light should be light")
	}
	if ThemeFor("auto").IsDark {
		t.Error("auto without hints should be light")
	}
}
