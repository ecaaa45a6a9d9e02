package models

import "time"

// Allowed enum values for opportunities. Stored as plain varchar columns so
// the sets can grow without a schema change; handlers validate on write.
var (
	OpportunityCategories = []string{"Multi-Family", "Commercial", "Mixed-Use", "Residential", "Industrial", "Other"}
	RiskLevels            = []string{"Low", "Medium", "High"}
	OpportunityStatuses   = []string{"Open", "Funding", "Closed", "Completed"}
)

type Opportunity struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	Name                string    `gorm:"size:191;not null" json:"name"`
	Category            string    `gorm:"size:50;not null" json:"category"`
	Location            string    `gorm:"size:191;not null" json:"location"`
	Area                string    `gorm:"size:100;not null" json:"area"`
	Description         string    `gorm:"type:text;not null" json:"description"`
	Highlights          []string  `gorm:"serializer:json;type:text" json:"highlights"`
	MinInvestment       float64   `gorm:"type:decimal(15,2);not null" json:"min_investment"`
	TotalValue          float64   `gorm:"type:decimal(15,2);not null" json:"total_value"`
	ExpectedROI         float64   `gorm:"type:decimal(6,2);not null" json:"expected_roi"`
	Duration            string    `gorm:"size:100;not null" json:"duration"`
	RiskLevel           string    `gorm:"size:20;not null" json:"risk_level"`
	Status              string    `gorm:"size:20;not null;default:'Open'" json:"status"`
	AvailableShares     float64   `gorm:"type:decimal(5,2);not null" json:"available_shares"`
	ProjectedCompletion string    `gorm:"size:100;not null" json:"projected_completion"`
	Images              []string  `gorm:"serializer:json;type:text" json:"images"`
	IsActive            bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedBy           *uint     `gorm:"index" json:"created_by"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	// Relations
	Creator *User `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

func (Opportunity) TableName() string {
	return "opportunities"
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func ValidOpportunityCategory(v string) bool { return contains(OpportunityCategories, v) }
func ValidRiskLevel(v string) bool           { return contains(RiskLevels, v) }
func ValidOpportunityStatus(v string) bool   { return contains(OpportunityStatuses, v) }
