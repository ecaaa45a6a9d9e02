package models

import (
	"errors"
	"time"
)

// ApplicationStatus is the five-state lifecycle of an investment application.
//
//	pending -> waiting-payment | rejected        (admin review)
//	waiting-payment -> pending-final-approval    (admin confirms payment)
//	pending-final-approval -> approved           (super admin, creates Investment)
//
// approved and rejected are terminal.
type ApplicationStatus string

const (
	StatusPending              ApplicationStatus = "pending"
	StatusWaitingPayment       ApplicationStatus = "waiting-payment"
	StatusPendingFinalApproval ApplicationStatus = "pending-final-approval"
	StatusApproved             ApplicationStatus = "approved"
	StatusRejected             ApplicationStatus = "rejected"
)

// ErrInvalidTransition reports a transition attempted from a state that does
// not permit it, including a lost double-transition race. Distinct from an
// authorization failure: nobody can perform the move right now.
var ErrInvalidTransition = errors.New("invalid application status transition")

var validTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusPending:              {StatusWaitingPayment, StatusRejected},
	StatusWaitingPayment:       {StatusPendingFinalApproval},
	StatusPendingFinalApproval: {StatusApproved},
}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusWaitingPayment, StatusPendingFinalApproval, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition can leave this state.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransition reports whether from -> to appears in the transition table.
func CanTransition(from, to ApplicationStatus) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NonTerminalStatuses is used to block a second application against the same
// opportunity while an earlier one is still in flight.
func NonTerminalStatuses() []ApplicationStatus {
	return []ApplicationStatus{StatusPending, StatusWaitingPayment, StatusPendingFinalApproval}
}

var (
	InvestmentTypes = []string{"one-time", "recurring"}
	PaymentMethods  = []string{"bank-transfer", "wire-transfer", "check", "crypto"}
)

func ValidInvestmentType(v string) bool { return contains(InvestmentTypes, v) }
func ValidPaymentMethod(v string) bool  { return contains(PaymentMethods, v) }

// Application is one applicant's request to invest in one opportunity.
// Name, amount, type and payment method are snapshotted at submission time so
// later opportunity edits never retroactively alter a pending application.
type Application struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Reference     string `gorm:"size:32;uniqueIndex;not null" json:"reference"`
	UserID        uint   `gorm:"not null;index" json:"user_id"`
	OpportunityID uint   `gorm:"not null;index" json:"opportunity_id"`

	// Investment snapshot
	InvestmentName   string  `gorm:"size:191;not null" json:"investment_name"`
	InvestmentAmount float64 `gorm:"type:decimal(15,2);not null" json:"investment_amount"`
	InvestmentType   string  `gorm:"size:20;not null" json:"investment_type"`
	PaymentMethod    string  `gorm:"size:20;not null" json:"payment_method"`

	// Personal information
	FullName string `gorm:"size:100;not null" json:"full_name"`
	Email    string `gorm:"size:191;not null" json:"email"`
	Phone    string `gorm:"size:30;not null" json:"phone"`
	Address  string `gorm:"size:255;not null" json:"address"`
	City     string `gorm:"size:100;not null" json:"city"`
	State    string `gorm:"size:100;not null" json:"state"`
	ZipCode  string `gorm:"size:20;not null" json:"zip_code"`
	Country  string `gorm:"size:100;not null;index" json:"country"`

	Status          ApplicationStatus `gorm:"size:30;not null;default:'pending';index" json:"status"`
	AdminNotes      string            `gorm:"type:text" json:"admin_notes"`
	SuperAdminNotes string            `gorm:"type:text" json:"super_admin_notes"`

	ReviewedBy      *uint      `json:"reviewed_by"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	ApprovedByAdmin *uint      `json:"approved_by_admin"`
	AdminApprovedAt *time.Time `json:"admin_approved_at"`
	FinalApprovedBy *uint      `json:"final_approved_by"`
	FinalApprovedAt *time.Time `json:"final_approved_at"`

	AgreeTerms          bool `gorm:"not null" json:"agree_terms"`
	AgreeRiskDisclosure bool `gorm:"not null" json:"agree_risk_disclosure"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User        *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Opportunity *Opportunity `gorm:"foreignKey:OpportunityID" json:"opportunity,omitempty"`
}

func (Application) TableName() string {
	return "applications"
}
