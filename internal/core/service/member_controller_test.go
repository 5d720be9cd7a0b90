package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
)

func TestWorkspaceMemberController_InviteRefetches(t *testing.T) {
	store := loggedInStore(t, domain.RoleUser, 7)
	api := newStubMemberAPI()
	api.emails["bob@b.com"] = 9
	api.workspaces[101] = []domain.WorkspaceMember{{ID: 102, MemberID: 7, WorkspaceID: 101, Role: domain.MemberOwner}}
	n := &recordingNotifier{}
	c := NewWorkspaceMemberController(api, store, n, zerolog.Nop())

	items, err := c.Invite(context.Background(), ports.InviteInput{WorkspaceID: 101, Email: " bob@b.com "})
	if err != nil {
		t.Fatalf("Invite returned error: %v", err)
	}
	if len(items) != 2 || items[1].MemberID != 9 || items[1].Role != domain.MemberMember {
		t.Fatalf("unexpected members after invite: %+v", items)
	}
	if api.listCalls != 1 {
		t.Fatalf("expected one refetch, got %d", api.listCalls)
	}
	if len(n.infos) != 1 {
		t.Fatalf("expected a confirmation notice, got %v", n.infos)
	}
}

func TestWorkspaceMemberController_InviteRejectsBadEmail(t *testing.T) {
	store := loggedInStore(t, domain.RoleUser, 7)
	api := newStubMemberAPI()
	c := NewWorkspaceMemberController(api, store, &recordingNotifier{}, zerolog.Nop())

	_, err := c.Invite(context.Background(), ports.InviteInput{WorkspaceID: 101, Email: "not-an-email"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if api.listCalls != 0 || api.nextID != 500 {
		t.Fatalf("no request should have been made")
	}
}

func TestWorkspaceMemberController_ChangeRoleRejectsOwner(t *testing.T) {
	store := loggedInStore(t, domain.RoleUser, 7)
	api := newStubMemberAPI()
	c := NewWorkspaceMemberController(api, store, &recordingNotifier{}, zerolog.Nop())

	_, err := c.ChangeRole(context.Background(), 101, 102, ports.MemberRoleInput{Role: domain.MemberOwner})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("ownership cannot be assigned, got %v", err)
	}
}

func TestWorkspaceMemberController_ChangeRoleSyncsSession(t *testing.T) {
	store := loggedInStore(t, domain.RoleUser, 7)
	api := newStubMemberAPI()
	api.workspaces[101] = []domain.WorkspaceMember{
		{ID: 102, MemberID: 3, WorkspaceID: 101, Role: domain.MemberOwner},
		{ID: 103, MemberID: 7, WorkspaceID: 101, Role: domain.MemberMember},
	}
	c := NewWorkspaceMemberController(api, store, &recordingNotifier{}, zerolog.Nop())

	items, err := c.ChangeRole(context.Background(), 101, 103, ports.MemberRoleInput{Role: "admin"})
	if err != nil {
		t.Fatalf("ChangeRole returned error: %v", err)
	}
	if items[1].Role != domain.MemberAdmin {
		t.Fatalf("unexpected members: %+v", items)
	}
	if got := store.User().WorkspaceRoles[101]; got != domain.MemberAdmin {
		t.Fatalf("session role = %q, want ADMIN", got)
	}

	if _, err := c.Remove(context.Background(), 101, 103); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if _, ok := store.User().WorkspaceRoles[101]; ok {
		t.Fatalf("removed member should lose its workspace role")
	}
}

func TestWorkspaceMemberController_FailedWriteKeepsItems(t *testing.T) {
	store := loggedInStore(t, domain.RoleUser, 7)
	api := newStubMemberAPI()
	api.workspaces[101] = []domain.WorkspaceMember{{ID: 102, MemberID: 7, WorkspaceID: 101, Role: domain.MemberOwner}}
	n := &recordingNotifier{}
	c := NewWorkspaceMemberController(api, store, n, zerolog.Nop())
	_, _ = c.List(context.Background(), 101)
	api.writeErr = &domain.APIError{Status: 403, Message: "only owners can change roles"}

	items, err := c.ChangeRole(context.Background(), 101, 102, ports.MemberRoleInput{Role: domain.MemberMember})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(items) != 1 || items[0].Role != domain.MemberOwner {
		t.Fatalf("previous items should be kept: %+v", items)
	}
	if n.errors[0] != "could not update workspace member: only owners can change roles" {
		t.Fatalf("unexpected notification %q", n.errors[0])
	}
}

func TestBoardMemberController_AddPromoteRemove(t *testing.T) {
	api := newStubMemberAPI()
	c := NewBoardMemberController(api, fixedMember(7), &recordingNotifier{}, zerolog.Nop())
	ctx := context.Background()

	items, err := c.Add(ctx, ports.BoardMemberInput{BoardID: 201, WorkspaceID: 101, MemberID: 9})
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if len(items) != 1 || items[0].Member.ID != 9 || items[0].Role != domain.BoardMember {
		t.Fatalf("unexpected board members: %+v", items)
	}
	if api.lastBoard.RequesterID != 7 {
		t.Fatalf("requester should default to the session member, got %d", api.lastBoard.RequesterID)
	}

	items, err = c.PromoteLeader(ctx, ports.BoardMemberInput{BoardID: 201, MemberID: 9})
	if err != nil || items[0].Role != domain.BoardLeader {
		t.Fatalf("PromoteLeader = %+v, %v", items, err)
	}

	items, err = c.Remove(ctx, ports.BoardMemberInput{BoardID: 201, MemberID: 9})
	if err != nil || len(items) != 0 {
		t.Fatalf("Remove = %+v, %v", items, err)
	}
	if api.listCalls != 3 {
		t.Fatalf("each write should refetch, got %d list calls", api.listCalls)
	}
}

func TestBoardMemberController_RequiresMember(t *testing.T) {
	api := newStubMemberAPI()
	c := NewBoardMemberController(api, fixedMember(0), &recordingNotifier{}, zerolog.Nop())

	_, err := c.Add(context.Background(), ports.BoardMemberInput{BoardID: 201, MemberID: 9})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("token-only session cannot act as requester, got %v", err)
	}
	if api.lastBoard.BoardID != 0 {
		t.Fatalf("no request should have been made")
	}
}
