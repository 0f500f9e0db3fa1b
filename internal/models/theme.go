// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Theme is a named visual preset applied to the public page. Pro themes
// are only selectable by users on the paid plan (or by an admin editing
// another user's page).
type Theme struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	IsPro bool   `json:"is_pro"`
}

// DefaultTheme is applied to every newly created page.
const DefaultTheme = "light"

// Themes is the fixed catalog of visual presets, in display order.
var Themes = []Theme{
	{Name: "light", Label: "Claro"},
	{Name: "dark", Label: "Escuro"},
	{Name: "ocean", Label: "Oceano"},
	{Name: "sunset", Label: "Pôr do Sol"},
	{Name: "forest", Label: "Floresta"},
	{Name: "gold", Label: "Dourado", IsPro: true},
	{Name: "neon", Label: "Neon", IsPro: true},
	{Name: "glass", Label: "Vidro", IsPro: true},
}

// ThemeByName returns the theme with the given name, or nil if the name
// is not in the catalog.
func ThemeByName(name string) *Theme {
	for i := range Themes {
		if Themes[i].Name == name {
			return &Themes[i]
		}
	}
	return nil
}

// CanSelectTheme is the plan gate: a theme is selectable iff it is not
// a pro theme, the acting plan is pro, or the actor is an admin editing
// another user's page (impersonation implicitly grants full access).
func CanSelectTheme(t *Theme, plan Plan, impersonating bool) bool {
	if t == nil {
		return false
	}
	if !t.IsPro {
		return true
	}
	return plan == PlanPro || impersonating
}
