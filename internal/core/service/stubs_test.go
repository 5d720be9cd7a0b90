package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
	"github.com/kanbanly/kanban-web/internal/infrastructure/db/memory"
)

type recordingNotifier struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (n *recordingNotifier) Info(msg string) {
	n.mu.Lock()
	n.infos = append(n.infos, msg)
	n.mu.Unlock()
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	n.errors = append(n.errors, msg)
	n.mu.Unlock()
}

func (n *recordingNotifier) errorCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.errors)
}

// failingStorage wraps memory storage and fails the selected operations.
type failingStorage struct {
	*memory.Storage
	failLoad, failSave, failDelete bool
}

var errDisk = errors.New("disk unavailable")

func (s *failingStorage) Load(ctx context.Context, keys ...string) (map[string]string, error) {
	if s.failLoad {
		return nil, errDisk
	}
	return s.Storage.Load(ctx, keys...)
}

func (s *failingStorage) Save(ctx context.Context, values map[string]string) error {
	if s.failSave {
		return errDisk
	}
	return s.Storage.Save(ctx, values)
}

func (s *failingStorage) Delete(ctx context.Context, keys ...string) error {
	if s.failDelete {
		return errDisk
	}
	return s.Storage.Delete(ctx, keys...)
}

func newReadyStore(t *testing.T) *SessionStore {
	t.Helper()
	store := NewSessionStore(memory.New(), zerolog.Nop())
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	return store
}

func loggedInStore(t *testing.T, role domain.Role, memberID int64) *SessionStore {
	t.Helper()
	store := newReadyStore(t)
	user := domain.User{ID: memberID, Email: "a@b.com", Role: role, MemberID: memberID}
	if err := store.Login(context.Background(), user, "T1"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	return store
}

type fixedMember int64

func (m fixedMember) MemberID() int64 { return int64(m) }

// stubWorkspaceAPI keeps workspaces per member in memory.
type stubWorkspaceAPI struct {
	mu        sync.Mutex
	nextID    int64
	byMember  map[int64][]domain.Workspace
	listCalls int
	createErr error
	listErr   error
	list      func(ctx context.Context, memberID int64) ([]domain.Workspace, error)
}

func newStubWorkspaceAPI() *stubWorkspaceAPI {
	return &stubWorkspaceAPI{nextID: 100, byMember: make(map[int64][]domain.Workspace)}
}

func (a *stubWorkspaceAPI) ListWorkspaces(ctx context.Context, memberID int64) ([]domain.Workspace, error) {
	a.mu.Lock()
	a.listCalls++
	fn, listErr := a.list, a.listErr
	out := append([]domain.Workspace(nil), a.byMember[memberID]...)
	a.mu.Unlock()
	if fn != nil {
		return fn(ctx, memberID)
	}
	if listErr != nil {
		return nil, listErr
	}
	return out, nil
}

func (a *stubWorkspaceAPI) CreateWorkspace(_ context.Context, in ports.WorkspaceInput) (*domain.Workspace, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.createErr != nil {
		return nil, a.createErr
	}
	a.nextID++
	ws := domain.Workspace{ID: a.nextID, Name: in.Name}
	a.byMember[in.MemberID] = append(a.byMember[in.MemberID], ws)
	return &ws, nil
}

func (a *stubWorkspaceAPI) UpdateWorkspace(_ context.Context, id int64, in ports.WorkspaceInput) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for m, list := range a.byMember {
		for i := range list {
			if list[i].ID == id {
				a.byMember[m][i].Name = in.Name
				return nil
			}
		}
	}
	return &domain.APIError{Status: 404, Message: "workspace not found"}
}

func (a *stubWorkspaceAPI) DeleteWorkspace(_ context.Context, id int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for m, list := range a.byMember {
		for i := range list {
			if list[i].ID == id {
				a.byMember[m] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return &domain.APIError{Status: 404, Message: "workspace not found"}
}

// stubMemberAPI keeps workspace and board memberships in memory.
type stubMemberAPI struct {
	mu         sync.Mutex
	nextID     int64
	workspaces map[int64][]domain.WorkspaceMember
	boards     map[int64][]domain.BoardMembership
	emails     map[string]int64
	listCalls  int
	writeErr   error
	lastBoard  ports.BoardMemberInput
}

func newStubMemberAPI() *stubMemberAPI {
	return &stubMemberAPI{
		nextID:     500,
		workspaces: make(map[int64][]domain.WorkspaceMember),
		boards:     make(map[int64][]domain.BoardMembership),
		emails:     make(map[string]int64),
	}
}

func (a *stubMemberAPI) ListWorkspaceMembers(_ context.Context, workspaceID int64) ([]domain.WorkspaceMember, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listCalls++
	return append([]domain.WorkspaceMember(nil), a.workspaces[workspaceID]...), nil
}

func (a *stubMemberAPI) InviteWorkspaceMember(_ context.Context, in ports.InviteInput) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.writeErr != nil {
		return a.writeErr
	}
	memberID, ok := a.emails[in.Email]
	if !ok {
		return &domain.APIError{Status: 404, Message: "no member with that email"}
	}
	a.nextID++
	a.workspaces[in.WorkspaceID] = append(a.workspaces[in.WorkspaceID], domain.WorkspaceMember{
		ID: a.nextID, MemberID: memberID, WorkspaceID: in.WorkspaceID, Role: domain.MemberMember,
	})
	return nil
}

func (a *stubMemberAPI) UpdateWorkspaceMemberRole(_ context.Context, id int64, in ports.MemberRoleInput) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.writeErr != nil {
		return a.writeErr
	}
	for ws, rows := range a.workspaces {
		for i := range rows {
			if rows[i].ID == id {
				a.workspaces[ws][i].Role = in.Role
				return nil
			}
		}
	}
	return &domain.APIError{Status: 404, Message: "membership not found"}
}

func (a *stubMemberAPI) RemoveWorkspaceMember(_ context.Context, id int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for ws, rows := range a.workspaces {
		for i := range rows {
			if rows[i].ID == id {
				a.workspaces[ws] = append(rows[:i], rows[i+1:]...)
				return nil
			}
		}
	}
	return &domain.APIError{Status: 404, Message: "membership not found"}
}

func (a *stubMemberAPI) ListBoardMembers(_ context.Context, boardID int64) ([]domain.BoardMembership, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listCalls++
	return append([]domain.BoardMembership(nil), a.boards[boardID]...), nil
}

func (a *stubMemberAPI) AddBoardMember(_ context.Context, in ports.BoardMemberInput) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastBoard = in
	if a.writeErr != nil {
		return a.writeErr
	}
	a.nextID++
	a.boards[in.BoardID] = append(a.boards[in.BoardID], domain.BoardMembership{
		ID: a.nextID, BoardID: in.BoardID, Role: domain.BoardMember, Member: domain.MemberProfile{ID: in.MemberID},
	})
	return nil
}

func (a *stubMemberAPI) RemoveBoardMember(_ context.Context, in ports.BoardMemberInput) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastBoard = in
	rows := a.boards[in.BoardID]
	for i := range rows {
		if rows[i].Member.ID == in.MemberID {
			a.boards[in.BoardID] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return &domain.APIError{Status: 404, Message: "not a board member"}
}

func (a *stubMemberAPI) PromoteBoardLeader(_ context.Context, in ports.BoardMemberInput) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastBoard = in
	rows := a.boards[in.BoardID]
	for i := range rows {
		if rows[i].Member.ID == in.MemberID {
			rows[i].Role = domain.BoardLeader
			return nil
		}
	}
	return &domain.APIError{Status: 404, Message: "not a board member"}
}

// stubCardAPI returns whatever list delegates to.
type stubCardAPI struct {
	list      func(ctx context.Context, listID int64) ([]domain.Card, error)
	createErr error
	created   []ports.CardInput
}

func (a *stubCardAPI) ListCards(ctx context.Context, listID int64) ([]domain.Card, error) {
	return a.list(ctx, listID)
}

func (a *stubCardAPI) CreateCard(_ context.Context, in ports.CardInput) (*domain.Card, error) {
	if a.createErr != nil {
		return nil, a.createErr
	}
	a.created = append(a.created, in)
	return &domain.Card{ID: int64(len(a.created)), Title: in.Title, ListID: in.ListID}, nil
}

func (a *stubCardAPI) UpdateCard(context.Context, int64, ports.CardInput) error { return nil }
func (a *stubCardAPI) DeleteCard(context.Context, int64) error                  { return nil }

// stubChecklistAPI holds the checklists of a single card.
type stubChecklistAPI struct {
	mu         sync.Mutex
	lists      []domain.Checklist
	listCalls  int
	addedItems int
}

func (a *stubChecklistAPI) ListChecklists(_ context.Context, cardID int64) ([]domain.Checklist, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listCalls++
	out := make([]domain.Checklist, len(a.lists))
	for i, cl := range a.lists {
		cl.Items = append([]domain.ChecklistItem(nil), cl.Items...)
		out[i] = cl
	}
	return out, nil
}

func (a *stubChecklistAPI) CreateChecklist(_ context.Context, in ports.ChecklistInput) (*domain.Checklist, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	cl := domain.Checklist{ID: int64(len(a.lists) + 1), Title: in.Title, CardID: in.CardID}
	a.lists = append(a.lists, cl)
	return &cl, nil
}

func (a *stubChecklistAPI) UpdateChecklist(context.Context, int64, ports.ChecklistInput) error {
	return nil
}

func (a *stubChecklistAPI) DeleteChecklist(context.Context, int64) error { return nil }

func (a *stubChecklistAPI) AddChecklistItem(_ context.Context, checklistID int64, in ports.ChecklistItemInput) (*domain.ChecklistItem, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.addedItems++
	item := domain.ChecklistItem{ID: int64(a.addedItems), Text: in.Text}
	for i := range a.lists {
		if a.lists[i].ID == checklistID {
			a.lists[i].Items = append(a.lists[i].Items, item)
		}
	}
	return &item, nil
}

func (a *stubChecklistAPI) ToggleChecklistItem(_ context.Context, itemID int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.lists {
		for j := range a.lists[i].Items {
			if a.lists[i].Items[j].ID == itemID {
				a.lists[i].Items[j].IsCompleted = !a.lists[i].Items[j].IsCompleted
			}
		}
	}
	return nil
}

func (a *stubChecklistAPI) DeleteChecklistItem(context.Context, int64) error { return nil }

func (a *stubChecklistAPI) DeleteCompletedItems(_ context.Context, checklistID int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.lists {
		if a.lists[i].ID != checklistID {
			continue
		}
		kept := a.lists[i].Items[:0]
		for _, it := range a.lists[i].Items {
			if !it.IsCompleted {
				kept = append(kept, it)
			}
		}
		a.lists[i].Items = kept
	}
	return nil
}

// stubAuthAPI records calls and returns canned results.
type stubAuthAPI struct {
	calls      int
	loginRes   *ports.LoginResult
	googleRes  *ports.LoginResult
	err        error
	signups    []ports.SignupInput
	resetCalls int
}

func (a *stubAuthAPI) Login(context.Context, string, string) (*ports.LoginResult, error) {
	a.calls++
	return a.loginRes, a.err
}

func (a *stubAuthAPI) Signup(_ context.Context, in ports.SignupInput) error {
	a.calls++
	a.signups = append(a.signups, in)
	return a.err
}

func (a *stubAuthAPI) GoogleLogin(context.Context, string) (*ports.LoginResult, error) {
	a.calls++
	return a.googleRes, a.err
}

func (a *stubAuthAPI) ForgotPassword(context.Context, string) error {
	a.calls++
	return a.err
}

func (a *stubAuthAPI) ResetPassword(context.Context, ports.ResetPasswordInput) error {
	a.calls++
	a.resetCalls++
	return a.err
}
