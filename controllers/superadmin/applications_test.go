package superadmin

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
	"github.com/gorilla/mux"
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

func seedSuperAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := models.User{
		Name:         "Root Admin",
		Email:        "root@example.com",
		Password:     "x",
		IsAdmin:      true,
		IsSuperAdmin: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func asUser(r *http.Request, u *models.User) *http.Request {
	ctx := context.WithValue(r.Context(), utils.UserKey, u)
	ctx = context.WithValue(ctx, utils.UserIDKey, u.ID)
	return r.WithContext(ctx)
}

func withID(r *http.Request, id uint) *http.Request {
	return mux.SetURLVars(r, map[string]string{"id": fmt.Sprint(id)})
}

func seedFinalApprovalCase(t *testing.T, db *gorm.DB) (*models.Opportunity, *models.Application) {
	t.Helper()
	opp := models.Opportunity{
		Name:          "Riverside Apartment Complex",
		Category:      "Residential",
		Location:      "Berlin",
		Area:          "12,000 sqm",
		Description:   "Residential development",
		MinInvestment: 1000,
		TotalValue:    500000,
		ExpectedROI:   12,
		Duration:      "36 months",
		RiskLevel:     "Medium",
		Status:        "Open",
		IsActive:      true,
	}
	require.NoError(t, db.Create(&opp).Error)

	app := models.Application{
		Reference:           utils.NewApplicationRef(),
		UserID:              1,
		OpportunityID:       opp.ID,
		InvestmentName:      opp.Name,
		InvestmentAmount:    50000,
		InvestmentType:      "one-time",
		PaymentMethod:       "bank-transfer",
		FullName:            "Ada Applicant",
		Email:               "ada@example.com",
		Phone:               "+49 30 1234567",
		Address:             "Main St 1",
		City:                "Berlin",
		State:               "Berlin",
		ZipCode:             "10115",
		Country:             "Germany",
		Status:              models.StatusPendingFinalApproval,
		AgreeTerms:          true,
		AgreeRiskDisclosure: true,
	}
	require.NoError(t, db.Create(&app).Error)
	return &opp, &app
}

func putFinalApprove(t *testing.T, c *ApplicationController, user *models.User, appID uint) *httptest.ResponseRecorder {
	t.Helper()
	body := strings.NewReader(`{"super_admin_notes":"cleared for funding"}`)
	req := httptest.NewRequest(http.MethodPut, "/v1/superadmin/applications/1/final-approve", body)
	req.Header.Set("Content-Type", "application/json")
	req = asUser(withID(req, appID), user)
	rec := httptest.NewRecorder()
	c.FinalApprove(rec, req)
	return rec
}

func TestFinalApproveCreatesInvestmentWithoutReturnRate(t *testing.T) {
	db := openTestDB(t)
	root := seedSuperAdmin(t, db)
	opp, app := seedFinalApprovalCase(t, db)
	c := NewApplicationController(db, nil)

	rec := putFinalApprove(t, c, root, app.ID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got models.Application
	require.NoError(t, db.First(&got, app.ID).Error)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.Equal(t, "cleared for funding", got.SuperAdminNotes)
	require.NotNil(t, got.FinalApprovedBy)
	assert.Equal(t, root.ID, *got.FinalApprovedBy)

	var inv models.Investment
	require.NoError(t, db.Where("application_id = ?", app.ID).First(&inv).Error)
	assert.Equal(t, app.UserID, inv.UserID)
	assert.Equal(t, app.InvestmentAmount, inv.InvestmentAmount)
	assert.Equal(t, app.InvestmentAmount, inv.CurrentValue)
	assert.Equal(t, opp.Category, inv.AssetType)
	assert.Equal(t, models.InvestmentActive, inv.Status)

	// The return rate stays at zero until a valuation update records one; the
	// performance series uses its default monthly growth in the meantime.
	assert.Zero(t, inv.ReturnRate)
}

func TestFinalApproveTwiceCreatesOneInvestment(t *testing.T) {
	db := openTestDB(t)
	root := seedSuperAdmin(t, db)
	_, app := seedFinalApprovalCase(t, db)
	c := NewApplicationController(db, nil)

	require.Equal(t, http.StatusOK, putFinalApprove(t, c, root, app.ID).Code)

	rec := putFinalApprove(t, c, root, app.ID)
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, utils.ErrKindInvalidTransition, resp.Error)

	var count int64
	require.NoError(t, db.Model(&models.Investment{}).Where("application_id = ?", app.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
