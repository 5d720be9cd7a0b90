package fakebackend

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kanbanly/kanban-web/internal/core/domain"
)

// memberByID must be called with s.mu held.
func (s *Server) memberByID(id int64) *member {
	for _, m := range s.members {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// nextRowID issues membership row ids from their own sequence so resource
// ids stay predictable. Must be called with s.mu held.
func (s *Server) nextRowID() int64 {
	s.rowSeq++
	return s.rowSeq
}

func requester(c echo.Context) (int64, bool) {
	id, _ := c.Get(ctxMemberID).(int64)
	roleID, _ := c.Get(ctxRoleID).(int)
	return id, roleID == AdminRoleID
}

// findMembership returns the workspace and index of row id; s.mu must be held.
func (s *Server) findMembership(id int64) (*workspace, int) {
	for _, w := range s.workspaces {
		for i, m := range w.Members {
			if m.ID == id {
				return w, i
			}
		}
	}
	return nil, -1
}

func (w *workspace) roleOf(memberID int64) domain.MemberRole {
	for _, m := range w.Members {
		if m.MemberID == memberID {
			return m.Role
		}
	}
	return ""
}

// ── Workspace members ────────────────────────────────────────────────────────

func (s *Server) inviteWorkspaceMember(c echo.Context) error {
	var req struct {
		WorkspaceID int64  `json:"workspaceId"`
		Email       string `json:"memberEmail"`
	}
	if err := c.Bind(&req); err != nil || req.WorkspaceID == 0 || req.Email == "" {
		return message(c, http.StatusBadRequest, "workspaceId and memberEmail are required")
	}
	me, isAdmin := requester(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workspaces[req.WorkspaceID]
	if !ok {
		return message(c, http.StatusNotFound, "workspace not found")
	}
	if !isAdmin && !w.roleOf(me).CanManage() {
		return message(c, http.StatusForbidden, "only workspace owners and admins can invite")
	}
	target, ok := s.members[strings.TrimSpace(req.Email)]
	if !ok {
		return message(c, http.StatusNotFound, "no member with that email")
	}
	if w.hasMember(target.ID) {
		return message(c, http.StatusConflict, "already a member of this workspace")
	}
	w.Members = append(w.Members, domain.WorkspaceMember{
		ID:          s.nextRowID(),
		MemberID:    target.ID,
		WorkspaceID: w.ID,
		Name:        target.Username,
		Role:        domain.MemberMember,
	})
	s.record("workspace", "INFO", "member invited", me)
	return c.JSON(http.StatusCreated, map[string]string{"message": "member invited"})
}

func (s *Server) updateWorkspaceMemberRole(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		Role domain.MemberRole `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "invalid payload")
	}
	if req.Role != domain.MemberAdmin && req.Role != domain.MemberMember {
		return message(c, http.StatusBadRequest, "role must be ADMIN or MEMBER")
	}
	me, isAdmin := requester(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	w, i := s.findMembership(id)
	if w == nil {
		return message(c, http.StatusNotFound, "membership not found")
	}
	if !isAdmin && w.roleOf(me) != domain.MemberOwner {
		return message(c, http.StatusForbidden, "only the workspace owner can change roles")
	}
	if w.Members[i].Role == domain.MemberOwner {
		return message(c, http.StatusBadRequest, "the owner's role cannot be changed")
	}
	w.Members[i].Role = req.Role
	return c.JSON(http.StatusOK, w.Members[i])
}

func (s *Server) removeWorkspaceMember(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	me, isAdmin := requester(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	w, i := s.findMembership(id)
	if w == nil {
		return message(c, http.StatusNotFound, "membership not found")
	}
	row := w.Members[i]
	if row.Role == domain.MemberOwner {
		return message(c, http.StatusBadRequest, "the owner cannot be removed")
	}
	if !isAdmin && row.MemberID != me && !w.roleOf(me).CanManage() {
		return message(c, http.StatusForbidden, "only workspace owners and admins can remove members")
	}
	w.Members = append(w.Members[:i], w.Members[i+1:]...)
	for boardID, b := range s.boards {
		if b.WorkspaceID == w.ID {
			s.dropBoardMember(boardID, row.MemberID)
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// ── Board members ────────────────────────────────────────────────────────────

func queryID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.QueryParam(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, message(c, http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// boardRequest reads boardId (from the path when present), memberId and
// requesterId and checks that requesterId is the token's member.
func (s *Server) boardRequest(c echo.Context) (boardID, memberID int64, isAdmin bool, err error) {
	if c.Param("id") != "" {
		boardID, err = pathID(c, "id")
	} else {
		boardID, err = queryID(c, "boardId")
	}
	if err != nil {
		return 0, 0, false, err
	}
	if memberID, err = queryID(c, "memberId"); err != nil {
		return 0, 0, false, err
	}
	requesterID, err := queryID(c, "requesterId")
	if err != nil {
		return 0, 0, false, err
	}
	me, isAdmin := requester(c)
	if requesterID != me && !isAdmin {
		return 0, 0, false, message(c, http.StatusForbidden, "requesterId does not match the token")
	}
	return boardID, memberID, isAdmin, nil
}

// boardRole must be called with s.mu held.
func (s *Server) boardRole(boardID, memberID int64) (domain.BoardRole, int) {
	for i, m := range s.boardMembers[boardID] {
		if m.Member.ID == memberID {
			return m.Role, i
		}
	}
	return "", -1
}

// addBoardMember must be called with s.mu held.
func (s *Server) addBoardMember(boardID, memberID int64, role domain.BoardRole) {
	profile := domain.MemberProfile{ID: memberID}
	if m := s.memberByID(memberID); m != nil {
		profile.Name = m.Username
		profile.Email = m.Email
	}
	s.boardMembers[boardID] = append(s.boardMembers[boardID], domain.BoardMembership{
		ID:      s.nextRowID(),
		BoardID: boardID,
		Role:    role,
		Member:  profile,
	})
}

// dropBoardMember must be called with s.mu held.
func (s *Server) dropBoardMember(boardID, memberID int64) bool {
	_, i := s.boardRole(boardID, memberID)
	if i < 0 {
		return false
	}
	rows := s.boardMembers[boardID]
	s.boardMembers[boardID] = append(rows[:i], rows[i+1:]...)
	return true
}

func (s *Server) listBoardMembers(c echo.Context) error {
	boardID, err := queryID(c, "boardId")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.boards[boardID]; !ok {
		return message(c, http.StatusNotFound, "board not found")
	}
	return c.JSON(http.StatusOK, append([]domain.BoardMembership{}, s.boardMembers[boardID]...))
}

func (s *Server) addBoardMemberHandler(c echo.Context) error {
	boardID, memberID, isAdmin, err := s.boardRequest(c)
	if err != nil {
		return err
	}
	me, _ := requester(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boards[boardID]
	if !ok {
		return message(c, http.StatusNotFound, "board not found")
	}
	if role, _ := s.boardRole(boardID, me); !isAdmin && role != domain.BoardLeader {
		return message(c, http.StatusForbidden, "only board leaders can add members")
	}
	if w := s.workspaces[b.WorkspaceID]; w == nil || !w.hasMember(memberID) {
		return message(c, http.StatusBadRequest, "member is not part of the board's workspace")
	}
	if _, i := s.boardRole(boardID, memberID); i >= 0 {
		return message(c, http.StatusConflict, "already a board member")
	}
	s.addBoardMember(boardID, memberID, domain.BoardMember)
	return c.JSON(http.StatusCreated, map[string]string{"message": "member added"})
}

func (s *Server) removeBoardMember(c echo.Context) error {
	boardID, memberID, isAdmin, err := s.boardRequest(c)
	if err != nil {
		return err
	}
	me, _ := requester(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	if role, _ := s.boardRole(boardID, me); !isAdmin && role != domain.BoardLeader && memberID != me {
		return message(c, http.StatusForbidden, "only board leaders can remove members")
	}
	if !s.dropBoardMember(boardID, memberID) {
		return message(c, http.StatusNotFound, "not a board member")
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) promoteLeader(c echo.Context) error {
	boardID, memberID, isAdmin, err := s.boardRequest(c)
	if err != nil {
		return err
	}
	me, _ := requester(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	if role, _ := s.boardRole(boardID, me); !isAdmin && role != domain.BoardLeader {
		return message(c, http.StatusForbidden, "only board leaders can promote")
	}
	_, i := s.boardRole(boardID, memberID)
	if i < 0 {
		return message(c, http.StatusNotFound, "not a board member")
	}
	s.boardMembers[boardID][i].Role = domain.BoardLeader
	return c.JSON(http.StatusOK, s.boardMembers[boardID][i])
}
