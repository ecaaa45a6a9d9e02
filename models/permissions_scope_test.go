package models

import (
	"fmt"
	"sort"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Scope and Allows must agree: the scoped listing returns exactly the rows
// the predicate accepts. Verified here against a real database instead of
// comparing the two implementations by eye.
func TestScopeMatchesAllows(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Application{}))

	seed := []Application{
		{InvestmentName: "Riverside Apartment Complex", InvestmentAmount: 50000, Country: "Germany"},
		{InvestmentName: "Riverside Apartment Complex", InvestmentAmount: 5000, Country: "Germany"},
		{InvestmentName: "Vertical Hydroponic Farm", InvestmentAmount: 75000, Country: "France"},
		{InvestmentName: "Tech City Innovation Hub", InvestmentAmount: 120000, Country: "Spain"},
		{InvestmentName: "Blockchain Data Center", InvestmentAmount: 30000, Country: "Germany"},
		{InvestmentName: "Downtown APARTMENT Tower", InvestmentAmount: 90000, Country: "France"},
		{InvestmentName: "Suburban Township", InvestmentAmount: 15000, Country: "Spain"},
		{InvestmentName: "Organic Agriculture Fund", InvestmentAmount: 250000, Country: "Germany"},
	}
	for i := range seed {
		seed[i].Reference = fmt.Sprintf("APP-SCOPE%05d", i)
		seed[i].UserID = 1
		seed[i].OpportunityID = 1
		seed[i].InvestmentType = "one-time"
		seed[i].PaymentMethod = "bank-transfer"
		seed[i].Status = StatusPending
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	cases := []struct {
		name  string
		perms AdminPermissions
	}{
		{"unrestricted", AdminPermissions{}},
		{"country only", AdminPermissions{Countries: []string{"Germany", "France"}}},
		{"asset types only", AdminPermissions{AssetTypes: []string{"apartment", "farm"}}},
		{"amount band", AdminPermissions{MinAmount: floatPtr(20000), MaxAmount: floatPtr(100000)}},
		{"empty asset entry skipped", AdminPermissions{AssetTypes: []string{"", "township"}}},
		{"all axes combined", AdminPermissions{
			Countries:  []string{"Germany"},
			AssetTypes: []string{"apartment", "blockchain"},
			MinAmount:  floatPtr(10000),
			MaxAmount:  floatPtr(60000),
		}},
		{"nothing matches", AdminPermissions{Countries: []string{"Italy"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var want []uint
			for i := range seed {
				if tc.perms.Allows(&seed[i]) {
					want = append(want, seed[i].ID)
				}
			}

			var scoped []Application
			require.NoError(t, tc.perms.Scope(db.Model(&Application{})).Find(&scoped).Error)
			var got []uint
			for i := range scoped {
				got = append(got, scoped[i].ID)
			}

			sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
			sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
			assert.Equal(t, want, got)
		})
	}
}
