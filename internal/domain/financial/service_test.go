package financial

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type mockRepo struct {
	changeOrders map[uuid.UUID]*ChangeOrder
	payApps      map[uuid.UUID]*PayApplication
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		changeOrders: make(map[uuid.UUID]*ChangeOrder),
		payApps:      make(map[uuid.UUID]*PayApplication),
	}
}

func (m *mockRepo) CreateChangeOrder(ctx context.Context, co *ChangeOrder) error {
	co.ID = uuid.New()
	co.CreatedAt = time.Now().UTC()
	co.UpdatedAt = co.CreatedAt
	cp := *co
	m.changeOrders[co.ID] = &cp
	return nil
}

func (m *mockRepo) GetChangeOrder(ctx context.Context, id uuid.UUID) (*ChangeOrder, error) {
	co, ok := m.changeOrders[id]
	if !ok {
		return nil, fmt.Errorf("no rows")
	}
	cp := *co
	return &cp, nil
}

func (m *mockRepo) UpdateChangeOrder(ctx context.Context, co *ChangeOrder) error {
	if _, ok := m.changeOrders[co.ID]; !ok {
		return fmt.Errorf("no rows")
	}
	cp := *co
	m.changeOrders[co.ID] = &cp
	return nil
}

func (m *mockRepo) ListChangeOrders(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*ChangeOrder, int, error) {
	var out []*ChangeOrder
	for _, co := range m.changeOrders {
		if co.ProjectID == projectID {
			cp := *co
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) NextChangeOrderNumber(ctx context.Context, projectID uuid.UUID) (int, error) {
	max := 0
	for _, co := range m.changeOrders {
		if co.ProjectID == projectID && co.Number > max {
			max = co.Number
		}
	}
	return max + 1, nil
}

func (m *mockRepo) CreatePayApplication(ctx context.Context, pa *PayApplication) error {
	pa.ID = uuid.New()
	pa.CreatedAt = time.Now().UTC()
	pa.UpdatedAt = pa.CreatedAt
	cp := *pa
	cp.Lines = append([]LineItem(nil), pa.Lines...)
	m.payApps[pa.ID] = &cp
	return nil
}

func (m *mockRepo) GetPayApplication(ctx context.Context, id uuid.UUID) (*PayApplication, error) {
	pa, ok := m.payApps[id]
	if !ok {
		return nil, fmt.Errorf("no rows")
	}
	cp := *pa
	cp.Lines = append([]LineItem(nil), pa.Lines...)
	return &cp, nil
}

func (m *mockRepo) UpdatePayApplication(ctx context.Context, pa *PayApplication) error {
	if _, ok := m.payApps[pa.ID]; !ok {
		return fmt.Errorf("no rows")
	}
	cp := *pa
	cp.Lines = append([]LineItem(nil), pa.Lines...)
	m.payApps[pa.ID] = &cp
	return nil
}

func (m *mockRepo) ListPayApplications(ctx context.Context, projectID uuid.UUID, limit, offset int) ([]*PayApplication, int, error) {
	var out []*PayApplication
	for _, pa := range m.payApps {
		if pa.ProjectID == projectID {
			cp := *pa
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) NextPayApplicationNumber(ctx context.Context, projectID uuid.UUID) (int, error) {
	max := 0
	for _, pa := range m.payApps {
		if pa.ProjectID == projectID && pa.Number > max {
			max = pa.Number
		}
	}
	return max + 1, nil
}

func newTestService() *Service {
	return NewService(newMockRepo(), zerolog.Nop())
}

func TestChangeOrderNumbering(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	projectID := uuid.New()

	for want := 1; want <= 3; want++ {
		co, err := svc.CreateChangeOrder(ctx, "acme", CreateChangeOrderInput{
			ProjectID:   projectID,
			Title:       fmt.Sprintf("CO %d", want),
			AmountCents: 1_000_00,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if co.Number != want {
			t.Errorf("number = %d, want %d", co.Number, want)
		}
		if co.Status != ChangeOrderPending {
			t.Errorf("status = %s, want pending", co.Status)
		}
	}
}

func TestDecideChangeOrderIsFinal(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	co, err := svc.CreateChangeOrder(ctx, "acme", CreateChangeOrderInput{
		ProjectID: uuid.New(), Title: "Add generator pad", AmountCents: 8_500_00,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	co, err = svc.DecideChangeOrder(ctx, co.ID, ChangeOrderApproved)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if co.DecidedAt == nil {
		t.Error("decided_at should be stamped")
	}

	if _, err := svc.DecideChangeOrder(ctx, co.ID, ChangeOrderRejected); err == nil {
		t.Error("decided change order should not be re-decided")
	}
	if _, err := svc.DecideChangeOrder(ctx, co.ID, "maybe"); err == nil {
		t.Error("expected error for unknown decision")
	}
}

func TestApprovedChangeTotal(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	projectID := uuid.New()

	add := func(amount int64, approve bool) {
		t.Helper()
		co, err := svc.CreateChangeOrder(ctx, "acme", CreateChangeOrderInput{
			ProjectID: projectID, Title: "CO", AmountCents: amount,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if approve {
			if _, err := svc.DecideChangeOrder(ctx, co.ID, ChangeOrderApproved); err != nil {
				t.Fatalf("approve: %v", err)
			}
		}
	}
	add(10_000_00, true)
	add(-2_000_00, true)
	add(50_000_00, false)

	total, err := svc.ApprovedChangeTotal(ctx, projectID)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 8_000_00 {
		t.Errorf("approved total = %d, want 800000", total)
	}
}

func TestPayApplicationLifecycle(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	pa, err := svc.CreatePayApplication(ctx, "acme", CreatePayApplicationInput{
		ProjectID:        uuid.New(),
		PeriodTo:         time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		RetainagePercent: 10,
		Lines: []LineItem{
			{Description: "Sitework", ScheduledValueCents: 10_000_00},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if pa.Number != 1 || pa.Status != PayAppDraft {
		t.Fatalf("number = %d status = %s", pa.Number, pa.Status)
	}
	if pa.Lines[0].ItemNumber != 1 {
		t.Errorf("item_number = %d", pa.Lines[0].ItemNumber)
	}

	pa, err = svc.UpdatePayApplicationLines(ctx, pa.ID, []LineItem{
		{Description: "Sitework", ScheduledValueCents: 10_000_00, WorkCompletedCents: 4_000_00},
		{Description: "Concrete", ScheduledValueCents: 20_000_00},
	})
	if err != nil {
		t.Fatalf("update lines: %v", err)
	}
	if len(pa.Lines) != 2 || pa.Lines[1].ItemNumber != 2 {
		t.Fatalf("lines = %+v", pa.Lines)
	}

	pa, err = svc.TransitionPayApplication(ctx, pa.ID, PayAppSubmitted)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := svc.UpdatePayApplicationLines(ctx, pa.ID, pa.Lines); err == nil {
		t.Error("submitted application should not be editable")
	}
	if _, err := svc.TransitionPayApplication(ctx, pa.ID, PayAppPaid); err == nil {
		t.Error("submitted application cannot jump straight to paid")
	}

	if _, err := svc.TransitionPayApplication(ctx, pa.ID, PayAppApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := svc.TransitionPayApplication(ctx, pa.ID, PayAppPaid); err != nil {
		t.Fatalf("pay: %v", err)
	}
}
