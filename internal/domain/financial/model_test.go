package financial

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func sampleApp() *PayApplication {
	return &PayApplication{
		ProjectID:        uuid.New(),
		Number:           3,
		PeriodTo:         time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		RetainagePercent: 10,
		Status:           PayAppDraft,
		Lines: []LineItem{
			{
				ItemNumber:             1,
				Description:            "Sitework",
				ScheduledValueCents:    10_000_00,
				PreviousCompletedCents: 5_000_00,
				WorkCompletedCents:     2_500_00,
			},
			{
				ItemNumber:           2,
				Description:          "Concrete",
				ScheduledValueCents:  20_000_00,
				WorkCompletedCents:   4_000_00,
				StoredMaterialsCents: 1_000_00,
			},
		},
	}
}

func TestLineItemMath(t *testing.T) {
	li := LineItem{
		ScheduledValueCents:    10_000_00,
		PreviousCompletedCents: 5_000_00,
		WorkCompletedCents:     2_500_00,
	}
	if got := li.TotalCompletedAndStoredCents(); got != 7_500_00 {
		t.Errorf("total = %d", got)
	}
	if got := li.BalanceToFinishCents(); got != 2_500_00 {
		t.Errorf("balance = %d", got)
	}
	if got := li.PercentComplete(); got != 75 {
		t.Errorf("percent = %f", got)
	}

	var zero LineItem
	if got := zero.PercentComplete(); got != 0 {
		t.Errorf("zero scheduled value should report 0%%, got %f", got)
	}
}

func TestPayApplicationTotals(t *testing.T) {
	pa := sampleApp()
	tot := pa.Totals()

	if tot.ScheduledValueCents != 30_000_00 {
		t.Errorf("scheduled = %d", tot.ScheduledValueCents)
	}
	if tot.CompletedAndStoredCents != 12_500_00 {
		t.Errorf("completed = %d", tot.CompletedAndStoredCents)
	}
	if tot.RetainageCents != 1_250_00 {
		t.Errorf("retainage = %d", tot.RetainageCents)
	}
	if tot.EarnedLessRetainageCents != 11_250_00 {
		t.Errorf("earned less retainage = %d", tot.EarnedLessRetainageCents)
	}
	if tot.BalanceToFinishCents != 17_500_00 {
		t.Errorf("balance to finish = %d", tot.BalanceToFinishCents)
	}
}

func TestPayApplicationValidate(t *testing.T) {
	pa := sampleApp()
	if err := pa.Validate(); err != nil {
		t.Errorf("valid application rejected: %v", err)
	}

	pa.RetainagePercent = 120
	if err := pa.Validate(); err == nil {
		t.Error("expected error for retainage over 100")
	}
	pa.RetainagePercent = 10

	pa.Lines[0].WorkCompletedCents = -1
	if err := pa.Validate(); err == nil {
		t.Error("expected error for negative line amount")
	}
	pa.Lines[0].WorkCompletedCents = 0

	pa.Lines[1].Description = " "
	if err := pa.Validate(); err == nil {
		t.Error("expected error for blank line description")
	}
}

func TestCanTransitionPayApp(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{PayAppDraft, PayAppSubmitted, true},
		{PayAppSubmitted, PayAppApproved, true},
		{PayAppSubmitted, PayAppDraft, true},
		{PayAppApproved, PayAppPaid, true},
		{PayAppDraft, PayAppApproved, false},
		{PayAppApproved, PayAppDraft, false},
		{PayAppPaid, PayAppDraft, false},
	}
	for _, tt := range tests {
		if got := CanTransitionPayApp(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransitionPayApp(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestChangeOrderValidate(t *testing.T) {
	co := &ChangeOrder{Title: "Add generator pad", Status: ChangeOrderPending, AmountCents: -5_000_00}
	if err := co.Validate(); err != nil {
		t.Errorf("deductive change order rejected: %v", err)
	}
	co.Title = ""
	if err := co.Validate(); err == nil {
		t.Error("expected error for blank title")
	}
}
