package portal

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sitedock/sitedock/internal/platform/notify"
)

type mockRepo struct {
	shares map[uuid.UUID]*ReportShare
	items  map[uuid.UUID]*ActionItem
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		shares: make(map[uuid.UUID]*ReportShare),
		items:  make(map[uuid.UUID]*ActionItem),
	}
}

func (m *mockRepo) CreateShare(ctx context.Context, sh *ReportShare) error {
	sh.ID = uuid.New()
	sh.CreatedAt = time.Now().UTC()
	cp := *sh
	m.shares[sh.ID] = &cp
	return nil
}

func (m *mockRepo) GetShareByToken(ctx context.Context, token string) (*ReportShare, error) {
	for _, sh := range m.shares {
		if sh.Token == token {
			cp := *sh
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("no rows")
}

func (m *mockRepo) GetShare(ctx context.Context, id uuid.UUID) (*ReportShare, error) {
	sh, ok := m.shares[id]
	if !ok {
		return nil, fmt.Errorf("no rows")
	}
	cp := *sh
	return &cp, nil
}

func (m *mockRepo) ListShares(ctx context.Context, projectID uuid.UUID) ([]*ReportShare, error) {
	var out []*ReportShare
	for _, sh := range m.shares {
		if sh.ProjectID == projectID {
			cp := *sh
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockRepo) RevokeShare(ctx context.Context, id uuid.UUID) error {
	sh, ok := m.shares[id]
	if !ok {
		return fmt.Errorf("no rows")
	}
	sh.Revoked = true
	return nil
}

func (m *mockRepo) CreateItem(ctx context.Context, it *ActionItem) error {
	it.ID = uuid.New()
	it.CreatedAt = time.Now().UTC()
	cp := *it
	m.items[it.ID] = &cp
	return nil
}

func (m *mockRepo) GetItem(ctx context.Context, id uuid.UUID) (*ActionItem, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("no rows")
	}
	cp := *it
	return &cp, nil
}

func (m *mockRepo) UpdateItem(ctx context.Context, it *ActionItem) error {
	if _, ok := m.items[it.ID]; !ok {
		return fmt.Errorf("no rows")
	}
	cp := *it
	m.items[it.ID] = &cp
	return nil
}

func (m *mockRepo) ListItems(ctx context.Context, shareID uuid.UUID) ([]*ActionItem, error) {
	var out []*ActionItem
	for _, it := range m.items {
		if it.ShareID == shareID {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fixedBuilder struct {
	snap Snapshot
	err  error
}

func (b fixedBuilder) BuildSnapshot(ctx context.Context, projectID uuid.UUID) (Snapshot, error) {
	return b.snap, b.err
}

type chanNotifier struct {
	events chan notify.Event
}

func newChanNotifier() *chanNotifier {
	return &chanNotifier{events: make(chan notify.Event, 8)}
}

func (n *chanNotifier) Notify(_ context.Context, ev notify.Event) error {
	n.events <- ev
	return nil
}

func (n *chanNotifier) await(t *testing.T) notify.Event {
	t.Helper()
	select {
	case ev := <-n.events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
		return notify.Event{}
	}
}

func newTestService() (*Service, *mockRepo, *chanNotifier) {
	repo := newMockRepo()
	notifier := newChanNotifier()
	builder := fixedBuilder{snap: Snapshot{
		ProjectName:        "Riverside Clinic",
		ContractValueCents: 4_500_000_00,
		OpenIncidents:      2,
		GeneratedAt:        time.Now().UTC(),
	}}
	return NewService(repo, builder, notifier, zerolog.Nop()), repo, notifier
}

func TestPublishShareIssuesUniqueTokens(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	projectID := uuid.New()

	a, err := svc.PublishShare(ctx, "acme", projectID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	b, err := svc.PublishShare(ctx, "acme", projectID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if a.Token == "" || len(a.Token) != 48 {
		t.Errorf("token = %q", a.Token)
	}
	if a.Token == b.Token {
		t.Error("tokens must be unique per share")
	}
	if a.Snapshot.ProjectName != "Riverside Clinic" {
		t.Errorf("snapshot = %+v", a.Snapshot)
	}
}

func TestViewShareByToken(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	sh, err := svc.PublishShare(ctx, "acme", uuid.New())
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	got, items, err := svc.ViewShare(ctx, sh.Token)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if got.ID != sh.ID || len(items) != 0 {
		t.Errorf("got %+v items %v", got, items)
	}

	if _, _, err := svc.ViewShare(ctx, "bogus-token"); err == nil {
		t.Error("unknown token should not resolve")
	}
}

func TestRevokedShareReadsAsNotFound(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	sh, _ := svc.PublishShare(ctx, "acme", uuid.New())
	if err := svc.RevokeShare(ctx, sh.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, _, err := svc.ViewShare(ctx, sh.Token); err == nil {
		t.Error("revoked share should not resolve")
	}
}

func TestRespondToItemOnce(t *testing.T) {
	svc, _, notifier := newTestService()
	ctx := context.Background()

	sh, _ := svc.PublishShare(ctx, "acme", uuid.New())
	it, err := svc.CreateItem(ctx, sh.ID, CreateItemInput{Title: "Approve CO 4: add generator pad"})
	if err != nil {
		t.Fatalf("item: %v", err)
	}
	if it.Status != ItemPending {
		t.Fatalf("status = %s", it.Status)
	}

	it, err = svc.RespondToItem(ctx, sh.Token, it.ID, ItemApproved, "J. Whitfield", "Proceed, funds allocated.")
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if it.Status != ItemApproved || it.RespondedAt == nil {
		t.Errorf("item = %+v", it)
	}
	if it.ResponderName != "J. Whitfield" {
		t.Errorf("responder = %q", it.ResponderName)
	}

	ev := notifier.await(t)
	if ev.Kind != "portal_response" {
		t.Errorf("kind = %s", ev.Kind)
	}

	// Every non-pending state is terminal.
	if _, err := svc.RespondToItem(ctx, sh.Token, it.ID, ItemDeclined, "J. Whitfield", ""); err == nil {
		t.Error("second response should be rejected")
	}
}

func TestRespondValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	sh, _ := svc.PublishShare(ctx, "acme", uuid.New())
	other, _ := svc.PublishShare(ctx, "acme", uuid.New())
	it, _ := svc.CreateItem(ctx, sh.ID, CreateItemInput{Title: "Confirm paint schedule"})

	if _, err := svc.RespondToItem(ctx, sh.Token, it.ID, "shrug", "J. Whitfield", ""); err == nil {
		t.Error("invalid response status should be rejected")
	}
	if _, err := svc.RespondToItem(ctx, sh.Token, it.ID, ItemApproved, "  ", ""); err == nil {
		t.Error("blank responder name should be rejected")
	}
	if _, err := svc.RespondToItem(ctx, other.Token, it.ID, ItemApproved, "J. Whitfield", ""); err == nil {
		t.Error("item addressed through the wrong share should be rejected")
	}
}

func TestCreateItemOnRevokedShare(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	sh, _ := svc.PublishShare(ctx, "acme", uuid.New())
	if err := svc.RevokeShare(ctx, sh.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := svc.CreateItem(ctx, sh.ID, CreateItemInput{Title: "anything"}); err == nil {
		t.Error("expected error creating an item on a revoked share")
	}
}
