package superadmin

import (
	"net/http"
	"strconv"

	"urbanvest/middleware"
	"urbanvest/models"
	"urbanvest/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// OpportunityController manages the catalog: everything the public listing
// hides (inactive rows, creation, edits, image uploads) lives here.
type OpportunityController struct {
	DB *gorm.DB
}

func NewOpportunityController(db *gorm.DB) *OpportunityController {
	return &OpportunityController{DB: db}
}

type opportunityRequest struct {
	Name                string   `json:"name" validate:"required"`
	Category            string   `json:"category" validate:"required"`
	Location            string   `json:"location" validate:"required"`
	Area                string   `json:"area"`
	Description         string   `json:"description" validate:"required"`
	Highlights          []string `json:"highlights"`
	MinInvestment       float64  `json:"min_investment"`
	TotalValue          float64  `json:"total_value"`
	ExpectedROI         float64  `json:"expected_roi"`
	Duration            string   `json:"duration"`
	RiskLevel           string   `json:"risk_level" validate:"required"`
	Status              string   `json:"status"`
	AvailableShares     float64  `json:"available_shares"`
	ProjectedCompletion string   `json:"projected_completion"`
}

func (req *opportunityRequest) validate(w http.ResponseWriter) bool {
	if !models.ValidOpportunityCategory(req.Category) {
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "Unknown category")
		return false
	}
	if !models.ValidRiskLevel(req.RiskLevel) {
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "Unknown risk level")
		return false
	}
	if req.Status != "" && !models.ValidOpportunityStatus(req.Status) {
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "Unknown status")
		return false
	}
	if req.MinInvestment <= 0 {
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "min_investment must be positive")
		return false
	}
	return true
}

// ListAll returns every opportunity, active or not.
func (c *OpportunityController) ListAll(w http.ResponseWriter, r *http.Request) {
	var opportunities []models.Opportunity
	if err := c.DB.Order("created_at DESC").Find(&opportunities).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to load opportunities")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Opportunities",
		Data:    opportunities,
	})
}

// Create adds a new opportunity, active by default.
func (c *OpportunityController) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	var req opportunityRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if !req.validate(w) {
		return
	}

	status := req.Status
	if status == "" {
		status = "Open"
	}

	opp := models.Opportunity{
		Name:                req.Name,
		Category:            req.Category,
		Location:            req.Location,
		Area:                req.Area,
		Description:         req.Description,
		Highlights:          req.Highlights,
		MinInvestment:       req.MinInvestment,
		TotalValue:          req.TotalValue,
		ExpectedROI:         req.ExpectedROI,
		Duration:            req.Duration,
		RiskLevel:           req.RiskLevel,
		Status:              status,
		AvailableShares:     req.AvailableShares,
		ProjectedCompletion: req.ProjectedCompletion,
		IsActive:            true,
		CreatedBy:           &user.ID,
	}
	if err := c.DB.Create(&opp).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to create opportunity")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Opportunity created",
		Data:    opp,
	})
}

// Update replaces an opportunity's editable fields. Existing applications
// keep their snapshots; nothing here touches them.
func (c *OpportunityController) Update(w http.ResponseWriter, r *http.Request) {
	opp, ok := c.load(w, r)
	if !ok {
		return
	}

	var req opportunityRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if !req.validate(w) {
		return
	}

	opp.Name = req.Name
	opp.Category = req.Category
	opp.Location = req.Location
	opp.Area = req.Area
	opp.Description = req.Description
	opp.Highlights = req.Highlights
	opp.MinInvestment = req.MinInvestment
	opp.TotalValue = req.TotalValue
	opp.ExpectedROI = req.ExpectedROI
	opp.Duration = req.Duration
	opp.RiskLevel = req.RiskLevel
	opp.AvailableShares = req.AvailableShares
	opp.ProjectedCompletion = req.ProjectedCompletion
	if req.Status != "" {
		opp.Status = req.Status
	}

	if err := c.DB.Save(opp).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to update opportunity")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Opportunity updated",
		Data:    opp,
	})
}

// ToggleActive flips visibility in the public catalog. The SQL-side NOT
// keeps concurrent toggles consistent without a read-modify-write.
func (c *OpportunityController) ToggleActive(w http.ResponseWriter, r *http.Request) {
	opp, ok := c.load(w, r)
	if !ok {
		return
	}

	if err := c.DB.Model(opp).Update("is_active", gorm.Expr("NOT is_active")).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to toggle opportunity")
		return
	}

	if err := c.DB.First(opp, opp.ID).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to toggle opportunity")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Opportunity visibility toggled",
		Data:    opp,
	})
}

// Delete removes an opportunity. Applications and investments that
// reference it survive on their snapshots.
func (c *OpportunityController) Delete(w http.ResponseWriter, r *http.Request) {
	opp, ok := c.load(w, r)
	if !ok {
		return
	}

	for _, img := range opp.Images {
		if key, err := utils.ObjectKeyFromURL(img); err == nil {
			_ = utils.DeleteFromS3(key)
		}
	}

	if err := c.DB.Delete(opp).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to delete opportunity")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Opportunity deleted",
	})
}

// UploadImage accepts a multipart image, stores it in the bucket and
// appends its public URL to the opportunity.
func (c *OpportunityController) UploadImage(w http.ResponseWriter, r *http.Request) {
	opp, ok := c.load(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "image file is required")
		return
	}
	defer file.Close()

	objectKey := utils.OpportunityImageKey(opp.ID, header.Filename)
	if err := utils.UploadToS3(objectKey, file); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to upload image")
		return
	}

	url, err := utils.PublicImageURL(objectKey)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to upload image")
		return
	}

	opp.Images = append(opp.Images, url)
	if err := c.DB.Save(opp).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to save image")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Image uploaded",
		Data:    map[string]interface{}{"url": url, "images": opp.Images},
	})
}

type deleteImageRequest struct {
	URL string `json:"url" validate:"required"`
}

// DeleteImage removes one image from the opportunity and from the bucket.
func (c *OpportunityController) DeleteImage(w http.ResponseWriter, r *http.Request) {
	opp, ok := c.load(w, r)
	if !ok {
		return
	}

	var req deleteImageRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	idx := -1
	for i, img := range opp.Images {
		if img == req.URL {
			idx = i
			break
		}
	}
	if idx < 0 {
		utils.WriteError(w, http.StatusNotFound, utils.ErrKindNotFound, "Image not found on this opportunity")
		return
	}

	if key, err := utils.ObjectKeyFromURL(req.URL); err == nil {
		_ = utils.DeleteFromS3(key)
	}

	opp.Images = append(opp.Images[:idx], opp.Images[idx+1:]...)
	if err := c.DB.Save(opp).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to remove image")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Image removed",
		Data:    map[string]interface{}{"images": opp.Images},
	})
}

func (c *OpportunityController) load(w http.ResponseWriter, r *http.Request) (*models.Opportunity, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "Invalid opportunity id")
		return nil, false
	}
	var opp models.Opportunity
	if err := c.DB.First(&opp, id).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.ErrKindNotFound, "Opportunity not found")
		return nil, false
	}
	return &opp, true
}
