package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveAssetTypePrefersCategory(t *testing.T) {
	opp := &Opportunity{Category: "Commercial"}
	assert.Equal(t, "Commercial", DeriveAssetType(opp, "Downtown Hydroponic Farm"))
}

func TestDeriveAssetTypeFallbackKeywords(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Lakeside Apartment Towers", "Real Estate"},
		{"Real Estate Income Fund", "Real Estate"},
		{"Greenfield Township Phase II", "Real Estate"},
		{"Meridian Smart City Initiative", "Smart Cities"},
		{"Tech City Campus", "Smart Cities"},
		{"Rooftop Hydroponic Gardens", "Urban Agriculture"},
		{"Community Farm Collective", "Urban Agriculture"},
		{"Blockchain Infrastructure Fund", "Digital Assets"},
		{"Municipal Bond Portfolio", "Other"},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, DeriveAssetType(nil, c.name), "name %q", c.name)
	}
}

func TestDeriveAssetTypeEmptyCategoryFallsThrough(t *testing.T) {
	opp := &Opportunity{}
	assert.Equal(t, "Urban Agriculture", DeriveAssetType(opp, "Vertical Farm One"))
}
