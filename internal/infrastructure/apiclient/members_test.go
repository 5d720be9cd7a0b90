package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
)

type seenRequest struct {
	method, path, query, body string
}

func recordRequests(t *testing.T, status int) (*Client, *[]seenRequest) {
	t.Helper()
	var seen []seenRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		seen = append(seen, seenRequest{r.Method, r.URL.Path, r.URL.RawQuery, string(b)})
		w.WriteHeader(status)
	}, &stubSession{token: "T1"})
	return c, &seen
}

func TestClient_BoardMemberEndpoints(t *testing.T) {
	c, seen := recordRequests(t, http.StatusNoContent)
	ctx := context.Background()
	in := ports.BoardMemberInput{BoardID: 3, WorkspaceID: 101, MemberID: 9, RequesterID: 7}

	if err := c.AddBoardMember(ctx, in); err != nil {
		t.Fatalf("AddBoardMember returned error: %v", err)
	}
	if err := c.PromoteBoardLeader(ctx, in); err != nil {
		t.Fatalf("PromoteBoardLeader returned error: %v", err)
	}
	if err := c.RemoveBoardMember(ctx, in); err != nil {
		t.Fatalf("RemoveBoardMember returned error: %v", err)
	}

	want := []seenRequest{
		{method: http.MethodPost, path: "/board-members/add", query: "boardId=3&memberId=9&requesterId=7&workspaceId=101"},
		{method: http.MethodPost, path: "/boards/3/promote-leader", query: "memberId=9&requesterId=7"},
		{method: http.MethodDelete, path: "/board-members/remove", query: "boardId=3&memberId=9&requesterId=7"},
	}
	if len(*seen) != len(want) {
		t.Fatalf("expected %d requests, got %+v", len(want), *seen)
	}
	for i, w := range want {
		got := (*seen)[i]
		if got.method != w.method || got.path != w.path || got.query != w.query || got.body != "" {
			t.Errorf("request %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestClient_WorkspaceMemberEndpoints(t *testing.T) {
	c, seen := recordRequests(t, http.StatusOK)
	ctx := context.Background()

	if err := c.InviteWorkspaceMember(ctx, ports.InviteInput{WorkspaceID: 101, Email: "bob@b.com"}); err != nil {
		t.Fatalf("InviteWorkspaceMember returned error: %v", err)
	}
	if err := c.UpdateWorkspaceMemberRole(ctx, 1001, ports.MemberRoleInput{Role: domain.MemberAdmin}); err != nil {
		t.Fatalf("UpdateWorkspaceMemberRole returned error: %v", err)
	}
	if err := c.RemoveWorkspaceMember(ctx, 1001); err != nil {
		t.Fatalf("RemoveWorkspaceMember returned error: %v", err)
	}

	got := *seen
	if len(got) != 3 {
		t.Fatalf("expected 3 requests, got %+v", got)
	}
	if got[0].path != "/workspace-members/invite" ||
		!strings.Contains(got[0].body, `"memberEmail":"bob@b.com"`) ||
		!strings.Contains(got[0].body, `"workspaceId":101`) {
		t.Errorf("unexpected invite request: %+v", got[0])
	}
	if got[1].method != http.MethodPut || got[1].path != "/workspace-members/1001/role" || !strings.Contains(got[1].body, `"role":"ADMIN"`) {
		t.Errorf("unexpected role request: %+v", got[1])
	}
	if got[2].method != http.MethodDelete || got[2].path != "/workspace-members/1001" {
		t.Errorf("unexpected remove request: %+v", got[2])
	}
}

func TestClient_BoardMemberRequiresIDs(t *testing.T) {
	c, seen := recordRequests(t, http.StatusOK)
	err := c.AddBoardMember(context.Background(), ports.BoardMemberInput{BoardID: 3, MemberID: 9})
	if !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("missing requester should be rejected locally, got %v", err)
	}
	if len(*seen) != 0 {
		t.Fatalf("no request should reach the backend, got %+v", *seen)
	}
}
