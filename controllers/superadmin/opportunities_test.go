package superadmin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"urbanvest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleActiveRoundTrip(t *testing.T) {
	db := openTestDB(t)
	opp := models.Opportunity{
		Name:          "Harbor Logistics Park",
		Category:      "Industrial",
		Location:      "Hamburg",
		Area:          "40,000 sqm",
		Description:   "Logistics development",
		MinInvestment: 5000,
		TotalValue:    2000000,
		ExpectedROI:   9,
		Duration:      "48 months",
		RiskLevel:     "Low",
		Status:        "Open",
		IsActive:      true,
	}
	require.NoError(t, db.Create(&opp).Error)
	c := NewOpportunityController(db)

	toggle := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/v1/superadmin/opportunities/1/toggle-active", nil)
		req = withID(req, opp.ID)
		rec := httptest.NewRecorder()
		c.ToggleActive(rec, req)
		return rec
	}

	rec := toggle()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got models.Opportunity
	require.NoError(t, db.First(&got, opp.ID).Error)
	assert.False(t, got.IsActive)

	// A second toggle restores the original state exactly.
	rec = toggle()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, db.First(&got, opp.ID).Error)
	assert.True(t, got.IsActive)
}
