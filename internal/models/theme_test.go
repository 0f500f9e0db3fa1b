// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "testing"

func TestThemeByName(t *testing.T) {
	th := ThemeByName("light")
	if th == nil {
		t.Fatal("expected light theme")
	}
	if th.IsPro {
		t.Error("light must be a free theme")
	}

	th = ThemeByName("gold")
	if th == nil {
		t.Fatal("expected gold theme")
	}
	if !th.IsPro {
		t.Error("gold must be a pro theme")
	}

	if ThemeByName("midnight") != nil {
		t.Error("expected nil for unknown theme")
	}
}

func TestDefaultThemeInCatalog(t *testing.T) {
	th := ThemeByName(DefaultTheme)
	if th == nil {
		t.Fatalf("default theme %q missing from catalog", DefaultTheme)
	}
	if th.IsPro {
		t.Error("default theme must not be pro-gated")
	}
}

func TestCanSelectTheme(t *testing.T) {
	free := ThemeByName("dark")
	pro := ThemeByName("neon")

	tests := []struct {
		name          string
		theme         *Theme
		plan          Plan
		impersonating bool
		want          bool
	}{
		{"free theme, free plan", free, PlanFree, false, true},
		{"free theme, pro plan", free, PlanPro, false, true},
		{"pro theme, free plan", pro, PlanFree, false, false},
		{"pro theme, pro plan", pro, PlanPro, false, true},
		{"pro theme, admin impersonating free user", pro, PlanFree, true, true},
		{"unknown theme", nil, PlanPro, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanSelectTheme(tt.theme, tt.plan, tt.impersonating); got != tt.want {
				t.Errorf("CanSelectTheme = %v, want %v", got, tt.want)
			}
		})
	}
}
