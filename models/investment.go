package models

import (
	"strings"
	"time"
)

const (
	InvestmentActive    = "active"
	InvestmentMatured   = "matured"
	InvestmentWithdrawn = "withdrawn"
)

// Investment is the confirmed holding created exactly once per application
// that reaches final approval.
type Investment struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           uint       `gorm:"not null;index" json:"user_id"`
	ApplicationID    uint       `gorm:"not null;uniqueIndex" json:"application_id"`
	OpportunityID    uint       `gorm:"not null;index" json:"opportunity_id"`
	InvestmentName   string     `gorm:"size:191;not null" json:"investment_name"`
	InvestmentAmount float64    `gorm:"type:decimal(15,2);not null" json:"investment_amount"`
	InvestmentType   string     `gorm:"size:20;not null" json:"investment_type"`
	AssetType        string     `gorm:"size:50;not null" json:"asset_type"`
	Status           string     `gorm:"size:20;not null;default:'active'" json:"status"`
	CurrentValue     float64    `gorm:"type:decimal(15,2);not null" json:"current_value"`
	ReturnRate       float64    `gorm:"type:decimal(6,2);not null;default:0" json:"return_rate"`
	PurchaseDate     time.Time  `gorm:"not null" json:"purchase_date"`
	MaturityDate     *time.Time `json:"maturity_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (Investment) TableName() string {
	return "investments"
}

// DeriveAssetType classifies the holding. The structured opportunity category
// is authoritative; the keyword scan over the investment name is a fallback
// kept only for applications whose opportunity has since been deleted.
func DeriveAssetType(opp *Opportunity, investmentName string) string {
	if opp != nil && opp.Category != "" {
		return opp.Category
	}

	name := strings.ToLower(investmentName)
	switch {
	case strings.Contains(name, "real estate"), strings.Contains(name, "apartment"), strings.Contains(name, "township"):
		return "Real Estate"
	case strings.Contains(name, "smart city"), strings.Contains(name, "tech city"):
		return "Smart Cities"
	case strings.Contains(name, "farm"), strings.Contains(name, "agriculture"), strings.Contains(name, "hydroponic"):
		return "Urban Agriculture"
	case strings.Contains(name, "digital"), strings.Contains(name, "blockchain"), strings.Contains(name, "ai"):
		return "Digital Assets"
	}
	return "Other"
}
