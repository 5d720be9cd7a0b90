package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
)

func TestWorkspaceController_CreateRefetchesAndGrantsOwner(t *testing.T) {
	store := loggedInStore(t, domain.RoleAdmin, 7)
	api := newStubWorkspaceAPI()
	n := &recordingNotifier{}
	c := NewWorkspaceController(api, store, n, zerolog.Nop())

	items, err := c.Create(context.Background(), ports.WorkspaceInput{MemberID: 7, Name: "Eng"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if len(items) != 1 || items[0].ID != 101 || items[0].Name != "Eng" {
		t.Fatalf("unexpected workspaces after create: %+v", items)
	}
	if api.listCalls != 1 {
		t.Fatalf("expected one refetch, got %d", api.listCalls)
	}
	if got := store.User().WorkspaceRoles[101]; got != domain.MemberOwner {
		t.Fatalf("creator should own the workspace, got %q", got)
	}
	if parent, ok := c.Parent(); !ok || parent != 7 {
		t.Fatalf("parent = %d/%v, want 7", parent, ok)
	}
}

func TestWorkspaceController_BlankNameRejectedLocally(t *testing.T) {
	store := loggedInStore(t, domain.RoleUser, 7)
	api := newStubWorkspaceAPI()
	n := &recordingNotifier{}
	c := NewWorkspaceController(api, store, n, zerolog.Nop())

	_, err := c.Create(context.Background(), ports.WorkspaceInput{Name: "   "})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if api.nextID != 100 || api.listCalls != 0 {
		t.Fatalf("no request should have been made")
	}
	if n.errorCount() != 1 {
		t.Fatalf("expected a notification")
	}
}

func TestWorkspaceController_ErrorKeepsPreviousItems(t *testing.T) {
	store := loggedInStore(t, domain.RoleUser, 7)
	api := newStubWorkspaceAPI()
	api.byMember[7] = []domain.Workspace{{ID: 1, Name: "A"}}
	n := &recordingNotifier{}
	c := NewWorkspaceController(api, store, n, zerolog.Nop())

	if _, err := c.List(context.Background(), 0); err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	api.listErr = &domain.APIError{Status: 500, Message: "boom"}
	items, err := c.List(context.Background(), 7)
	if !errors.Is(err, domain.ErrServer) {
		t.Fatalf("expected ErrServer, got %v", err)
	}
	if len(items) != 1 || items[0].Name != "A" {
		t.Fatalf("previous items should survive a failed fetch: %+v", items)
	}
	if n.errorCount() != 1 {
		t.Fatalf("expected one error notification, got %d", n.errorCount())
	}
}

func TestWorkspaceController_FailedWriteSkipsRefetch(t *testing.T) {
	store := loggedInStore(t, domain.RoleUser, 7)
	api := newStubWorkspaceAPI()
	api.createErr = &domain.APIError{Status: 409, Message: "name taken"}
	n := &recordingNotifier{}
	c := NewWorkspaceController(api, store, n, zerolog.Nop())

	_, err := c.Create(context.Background(), ports.WorkspaceInput{Name: "Eng"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if api.listCalls != 0 {
		t.Fatalf("no refetch expected after a failed write")
	}
	if n.errors[0] != "could not create workspace: name taken" {
		t.Fatalf("unexpected notification %q", n.errors[0])
	}
}

func TestWorkspaceController_DeleteRefetchesCachedParent(t *testing.T) {
	store := loggedInStore(t, domain.RoleUser, 7)
	api := newStubWorkspaceAPI()
	api.byMember[7] = []domain.Workspace{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	c := NewWorkspaceController(api, store, &recordingNotifier{}, zerolog.Nop())
	_, _ = c.List(context.Background(), 7)

	items, err := c.Delete(context.Background(), 1)
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(items) != 1 || items[0].ID != 2 {
		t.Fatalf("unexpected items after delete: %+v", items)
	}
}

func TestWorkspaceController_WritesRefetchWithoutPriorList(t *testing.T) {
	store := loggedInStore(t, domain.RoleUser, 7)
	api := newStubWorkspaceAPI()
	api.byMember[7] = []domain.Workspace{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	c := NewWorkspaceController(api, store, &recordingNotifier{}, zerolog.Nop())

	items, err := c.Delete(context.Background(), 1)
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(items) != 1 || items[0].ID != 2 || api.listCalls != 1 {
		t.Fatalf("delete should refetch member 7: items=%+v listCalls=%d", items, api.listCalls)
	}

	c.Reset()
	items, err = c.Update(context.Background(), 2, ports.WorkspaceInput{Name: "B2"})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if len(items) != 1 || items[0].Name != "B2" || api.listCalls != 2 {
		t.Fatalf("update should refetch member 7: items=%+v listCalls=%d", items, api.listCalls)
	}
}

func TestWorkspaceController_TokenOnlySessionCannotCreate(t *testing.T) {
	store := newReadyStore(t)
	if err := store.Login(context.Background(), domain.User{}, "T1"); err != nil {
		t.Fatal(err)
	}
	api := newStubWorkspaceAPI()
	c := NewWorkspaceController(api, store, &recordingNotifier{}, zerolog.Nop())

	_, err := c.Create(context.Background(), ports.WorkspaceInput{Name: "Eng"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for member 0, got %v", err)
	}
	if api.nextID != 100 {
		t.Fatalf("no workspace should have been created")
	}
}

func TestCardController_NilPayloadIsEmpty(t *testing.T) {
	api := &stubCardAPI{list: func(context.Context, int64) ([]domain.Card, error) { return nil, nil }}
	c := NewCardController(api, fixedMember(7), &recordingNotifier{}, zerolog.Nop())

	items, err := c.List(context.Background(), 3)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty, non-nil slice, got %#v", items)
	}
}

func TestCardController_CreateDefaultsMember(t *testing.T) {
	api := &stubCardAPI{list: func(context.Context, int64) ([]domain.Card, error) {
		return []domain.Card{{ID: 1, Title: "Write docs", ListID: 3}}, nil
	}}
	c := NewCardController(api, fixedMember(7), &recordingNotifier{}, zerolog.Nop())

	items, err := c.Create(context.Background(), ports.CardInput{ListID: 3, Title: "Write docs"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if len(api.created) != 1 || api.created[0].MemberID != 7 {
		t.Fatalf("member id should default to the session member: %+v", api.created)
	}
	if len(items) != 1 {
		t.Fatalf("expected refetched cards, got %+v", items)
	}
}

func TestCardController_StaleResponseDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	api := &stubCardAPI{list: func(_ context.Context, listID int64) ([]domain.Card, error) {
		if listID == 1 {
			close(started)
			<-release
			return []domain.Card{{ID: 10, ListID: 1}}, nil
		}
		return []domain.Card{{ID: 20, ListID: 2}}, nil
	}}
	c := NewCardController(api, fixedMember(7), &recordingNotifier{}, zerolog.Nop())

	done := make(chan []domain.Card)
	go func() {
		items, _ := c.List(context.Background(), 1)
		done <- items
	}()
	<-started

	if _, err := c.List(context.Background(), 2); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	close(release)
	slow := <-done

	if len(slow) != 1 || slow[0].ID != 20 {
		t.Fatalf("slow caller should see the newer state, got %+v", slow)
	}
	if items := c.Items(); len(items) != 1 || items[0].ID != 20 {
		t.Fatalf("stale response overwrote newer one: %+v", items)
	}
	if parent, _ := c.Parent(); parent != 2 {
		t.Fatalf("parent = %d, want 2", parent)
	}
}

func TestCardController_CloseCancelsInFlight(t *testing.T) {
	started := make(chan struct{})
	api := &stubCardAPI{list: func(ctx context.Context, _ int64) ([]domain.Card, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	n := &recordingNotifier{}
	c := NewCardController(api, fixedMember(7), n, zerolog.Nop())

	errc := make(chan error)
	go func() {
		_, err := c.List(context.Background(), 1)
		errc <- err
	}()
	<-started
	c.Close()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Close did not cancel the request")
	}

	if _, err := c.List(context.Background(), 1); !errors.Is(err, domain.ErrClosed) {
		t.Fatalf("expected ErrClosed after Close, got %v", err)
	}
	if n.errorCount() != 0 {
		t.Fatalf("teardown must not raise notifications")
	}
}

func TestCardController_ResetDropsInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	api := &stubCardAPI{list: func(context.Context, int64) ([]domain.Card, error) {
		close(started)
		<-release
		return []domain.Card{{ID: 1}}, nil
	}}
	c := NewCardController(api, fixedMember(7), &recordingNotifier{}, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		_, _ = c.List(context.Background(), 1)
		close(done)
	}()
	<-started
	c.Reset()
	close(release)
	<-done

	if items := c.Items(); len(items) != 0 {
		t.Fatalf("response issued before Reset should be dropped, got %+v", items)
	}
	if _, ok := c.Parent(); ok {
		t.Fatalf("collection should be unloaded after Reset")
	}
}

func TestChecklistController_ItemOperationsRefetchCard(t *testing.T) {
	api := &stubChecklistAPI{}
	c := NewChecklistController(api, &recordingNotifier{}, zerolog.Nop())
	ctx := context.Background()

	if _, err := c.Create(ctx, ports.ChecklistInput{CardID: 5, Title: "Release"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := c.AddItem(ctx, 1, ports.ChecklistItemInput{Text: "tag"}); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	if _, err := c.AddItem(ctx, 1, ports.ChecklistItemInput{Text: "announce"}); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	items, err := c.ToggleItem(ctx, 1)
	if err != nil {
		t.Fatalf("ToggleItem returned error: %v", err)
	}
	if done, total := items[0].Progress(); done != 1 || total != 2 {
		t.Fatalf("progress = %d/%d, want 1/2", done, total)
	}

	items, err = c.ClearCompleted(ctx, 1)
	if err != nil {
		t.Fatalf("ClearCompleted returned error: %v", err)
	}
	if len(items[0].Items) != 1 || items[0].Items[0].Text != "announce" {
		t.Fatalf("unexpected items after clear: %+v", items[0].Items)
	}
	if api.listCalls != 5 {
		t.Fatalf("every write should refetch, got %d fetches", api.listCalls)
	}
}

func TestChecklistController_BlankItemRejected(t *testing.T) {
	api := &stubChecklistAPI{}
	c := NewChecklistController(api, &recordingNotifier{}, zerolog.Nop())

	if _, err := c.AddItem(context.Background(), 1, ports.ChecklistItemInput{Text: ""}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if api.addedItems != 0 {
		t.Fatalf("no request should have been made")
	}
}
