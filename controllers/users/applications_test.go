package users

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"urbanvest/models"
	"urbanvest/utils"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Opportunity{}, &models.Application{}, &models.Investment{}))
	return db
}

func seedApplicant(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := models.User{Name: "Ada Applicant", Email: "ada@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedOpportunity(t *testing.T, db *gorm.DB, minInvestment, totalValue float64) *models.Opportunity {
	t.Helper()
	opp := models.Opportunity{
		Name:          "Riverside Apartment Complex",
		Category:      "Residential",
		Location:      "Berlin",
		Area:          "12,000 sqm",
		Description:   "Residential development",
		MinInvestment: minInvestment,
		TotalValue:    totalValue,
		ExpectedROI:   12,
		Duration:      "36 months",
		RiskLevel:     "Medium",
		Status:        "Open",
		IsActive:      true,
	}
	require.NoError(t, db.Create(&opp).Error)
	return &opp
}

func asUser(r *http.Request, u *models.User) *http.Request {
	ctx := context.WithValue(r.Context(), utils.UserKey, u)
	ctx = context.WithValue(ctx, utils.UserIDKey, u.ID)
	return r.WithContext(ctx)
}

func applyBody(opportunityID uint, amount float64) string {
	return fmt.Sprintf(`{
		"opportunity_id": %d,
		"investment_amount": %.2f,
		"investment_type": "one-time",
		"payment_method": "bank-transfer",
		"full_name": "Ada Applicant",
		"email": "ada@example.com",
		"phone": "+49 30 1234567",
		"address": "Main St 1",
		"city": "Berlin",
		"state": "Berlin",
		"zip_code": "10115",
		"country": "Germany",
		"agree_terms": true,
		"agree_risk_disclosure": true
	}`, opportunityID, amount)
}

func postApply(t *testing.T, c *ApplicationController, user *models.User, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/users/applications", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = asUser(req, user)
	rec := httptest.NewRecorder()
	c.Apply(rec, req)
	return rec
}

func TestApplyRejectsAmountAboveTotalValue(t *testing.T) {
	db := openTestDB(t)
	user := seedApplicant(t, db)
	opp := seedOpportunity(t, db, 1000, 5000)
	c := NewApplicationController(db, nil)

	rec := postApply(t, c, user, applyBody(opp.ID, 1000000))
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, utils.ErrKindValidation, resp.Error)

	var count int64
	require.NoError(t, db.Model(&models.Application{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestApplyRejectsAmountBelowMinimum(t *testing.T) {
	db := openTestDB(t)
	user := seedApplicant(t, db)
	opp := seedOpportunity(t, db, 1000, 5000)
	c := NewApplicationController(db, nil)

	rec := postApply(t, c, user, applyBody(opp.ID, 500))
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, utils.ErrKindValidation, resp.Error)
}

func TestApplyAcceptsAmountWithinBounds(t *testing.T) {
	db := openTestDB(t)
	user := seedApplicant(t, db)
	opp := seedOpportunity(t, db, 1000, 5000)
	c := NewApplicationController(db, nil)

	rec := postApply(t, c, user, applyBody(opp.ID, 5000))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var app models.Application
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&app).Error)
	assert.Equal(t, models.StatusPending, app.Status)
	assert.Equal(t, opp.Name, app.InvestmentName)
	assert.Equal(t, 5000.0, app.InvestmentAmount)
}
