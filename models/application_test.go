package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to ApplicationStatus
		ok       bool
	}{
		{StatusPending, StatusWaitingPayment, true},
		{StatusPending, StatusRejected, true},
		{StatusWaitingPayment, StatusPendingFinalApproval, true},
		{StatusPendingFinalApproval, StatusApproved, true},

		// No skipping forward
		{StatusPending, StatusPendingFinalApproval, false},
		{StatusPending, StatusApproved, false},
		{StatusWaitingPayment, StatusApproved, false},

		// No rejection after the initial review
		{StatusWaitingPayment, StatusRejected, false},
		{StatusPendingFinalApproval, StatusRejected, false},

		// Terminal states never move
		{StatusApproved, StatusRejected, false},
		{StatusApproved, StatusPending, false},
		{StatusRejected, StatusPending, false},
		{StatusRejected, StatusApproved, false},

		// No going backwards
		{StatusWaitingPayment, StatusPending, false},
		{StatusPendingFinalApproval, StatusWaitingPayment, false},

		// Self transitions are not transitions
		{StatusPending, StatusPending, false},
	}

	for _, c := range cases {
		assert.Equalf(t, c.ok, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusApproved.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusWaitingPayment.Terminal())
	assert.False(t, StatusPendingFinalApproval.Terminal())
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusWaitingPayment.Valid())
	assert.False(t, ApplicationStatus("cancelled").Valid())
	assert.False(t, ApplicationStatus("").Valid())
}

func TestNonTerminalStatuses(t *testing.T) {
	for _, s := range NonTerminalStatuses() {
		assert.Falsef(t, s.Terminal(), "%s listed as non-terminal", s)
	}
	assert.Len(t, NonTerminalStatuses(), 3)
}

func TestEnumValidators(t *testing.T) {
	assert.True(t, ValidInvestmentType("one-time"))
	assert.True(t, ValidInvestmentType("recurring"))
	assert.False(t, ValidInvestmentType("monthly"))

	assert.True(t, ValidPaymentMethod("bank-transfer"))
	assert.True(t, ValidPaymentMethod("crypto"))
	assert.False(t, ValidPaymentMethod("cash"))
}
