package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }

func sampleApp() *Application {
	return &Application{
		InvestmentName:   "Riverside Apartment Complex",
		InvestmentAmount: 50000,
		Country:          "Germany",
	}
}

func TestPermissionsUnrestrictedAllowsEverything(t *testing.T) {
	p := AdminPermissions{}
	assert.True(t, p.IsUnrestricted())
	assert.True(t, p.Allows(sampleApp()))
}

func TestPermissionsCountryAxis(t *testing.T) {
	p := AdminPermissions{Countries: []string{"Germany", "France"}}
	assert.True(t, p.Allows(sampleApp()))

	app := sampleApp()
	app.Country = "Spain"
	assert.False(t, p.Allows(app))

	// Exact match only, no case folding on countries
	app.Country = "germany"
	assert.False(t, p.Allows(app))
}

func TestPermissionsAssetTypeSubstring(t *testing.T) {
	p := AdminPermissions{AssetTypes: []string{"apartment"}}
	assert.True(t, p.Allows(sampleApp()), "case-insensitive substring should match")

	p = AdminPermissions{AssetTypes: []string{"farm", "hydroponic"}}
	assert.False(t, p.Allows(sampleApp()))

	// Empty entries are skipped, not treated as match-all
	p = AdminPermissions{AssetTypes: []string{"", "farm"}}
	assert.False(t, p.Allows(sampleApp()))
}

func TestPermissionsAmountBounds(t *testing.T) {
	app := sampleApp()

	p := AdminPermissions{MinAmount: floatPtr(10000), MaxAmount: floatPtr(100000)}
	assert.True(t, p.Allows(app))

	p = AdminPermissions{MinAmount: floatPtr(60000)}
	assert.False(t, p.Allows(app))

	p = AdminPermissions{MaxAmount: floatPtr(40000)}
	assert.False(t, p.Allows(app))

	// Bounds are inclusive
	p = AdminPermissions{MinAmount: floatPtr(50000), MaxAmount: floatPtr(50000)}
	assert.True(t, p.Allows(app))
}

func TestPermissionsAxesCombineWithAND(t *testing.T) {
	p := AdminPermissions{
		Countries:  []string{"Germany"},
		AssetTypes: []string{"apartment"},
		MinAmount:  floatPtr(10000),
	}
	assert.False(t, p.IsUnrestricted())
	assert.True(t, p.Allows(sampleApp()))

	app := sampleApp()
	app.InvestmentAmount = 5000
	assert.False(t, p.Allows(app), "one failing axis fails the whole check")
}
