package fakebackend

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kanbanly/kanban-web/internal/core/domain"
)

func sortedByID[T any](m map[int64]T, keep func(T) bool) []T {
	ids := make([]int64, 0, len(m))
	for id, v := range m {
		if keep(v) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

// ── Workspaces ───────────────────────────────────────────────────────────────

type workspaceRequest struct {
	MemberID int64  `json:"memberId"`
	Name     string `json:"workspaceName"`
}

func (w *workspace) view() domain.Workspace {
	return domain.Workspace{ID: w.ID, Name: w.Name, Members: append([]domain.WorkspaceMember(nil), w.Members...)}
}

func (w *workspace) hasMember(memberID int64) bool {
	for _, m := range w.Members {
		if m.MemberID == memberID {
			return true
		}
	}
	return false
}

func (s *Server) listWorkspaces(c echo.Context) error {
	memberID, err := pathID(c, "memberId")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ws := sortedByID(s.workspaces, func(w *workspace) bool { return w.hasMember(memberID) })
	out := make([]domain.Workspace, len(ws))
	for i, w := range ws {
		out[i] = w.view()
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createWorkspace(c echo.Context) error {
	var req workspaceRequest
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return message(c, http.StatusBadRequest, "workspaceName is required")
	}
	if req.MemberID == 0 {
		req.MemberID = c.Get(ctxMemberID).(int64)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	w := &workspace{ID: s.nextID(), Name: req.Name}
	w.Members = []domain.WorkspaceMember{{
		ID:          s.nextID(),
		MemberID:    req.MemberID,
		WorkspaceID: w.ID,
		Role:        domain.MemberOwner,
	}}
	s.workspaces[w.ID] = w
	s.record("workspace", "INFO", "workspace created", req.MemberID)
	return c.JSON(http.StatusCreated, map[string]any{"workspaceId": w.ID, "workspaceName": w.Name})
}

func (s *Server) updateWorkspace(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req workspaceRequest
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return message(c, http.StatusBadRequest, "workspaceName is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workspaces[id]
	if !ok {
		return message(c, http.StatusNotFound, "workspace not found")
	}
	w.Name = req.Name
	return c.JSON(http.StatusOK, w.view())
}

// deleteWorkspace cascades to the workspace's boards.
func (s *Server) deleteWorkspace(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workspaces[id]; !ok {
		return message(c, http.StatusNotFound, "workspace not found")
	}
	delete(s.workspaces, id)
	for bid, b := range s.boards {
		if b.WorkspaceID == id {
			delete(s.boards, bid)
			delete(s.boardMembers, bid)
		}
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listWorkspaceMembers(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workspaces[id]
	if !ok {
		return message(c, http.StatusNotFound, "workspace not found")
	}
	return c.JSON(http.StatusOK, w.view().Members)
}

// ── Boards ───────────────────────────────────────────────────────────────────

func (s *Server) listBoards(c echo.Context) error {
	wsID, err := pathID(c, "workspaceId")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	boards := sortedByID(s.boards, func(b *domain.Board) bool { return b.WorkspaceID == wsID })
	out := make([]domain.Board, len(boards))
	for i, b := range boards {
		out[i] = *b
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createBoard(c echo.Context) error {
	var b domain.Board
	if err := c.Bind(&b); err != nil || b.Title == "" || b.WorkspaceID == 0 {
		return message(c, http.StatusBadRequest, "title and workspaceId are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workspaces[b.WorkspaceID]; !ok {
		return message(c, http.StatusNotFound, "workspace not found")
	}
	b.ID = s.nextID()
	s.boards[b.ID] = &b
	if b.MemberID != 0 {
		s.addBoardMember(b.ID, b.MemberID, domain.BoardLeader)
	}
	return c.JSON(http.StatusCreated, b)
}

func (s *Server) updateBoard(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req domain.Board
	if err := c.Bind(&req); err != nil || req.Title == "" {
		return message(c, http.StatusBadRequest, "title is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boards[id]
	if !ok {
		return message(c, http.StatusNotFound, "board not found")
	}
	b.Title = req.Title
	b.BgColor = req.BgColor
	return c.JSON(http.StatusOK, b)
}

// deleteBoard is limited to the board creator or an administrator.
func (s *Server) deleteBoard(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	requester, _ := strconv.ParseInt(c.QueryParam("memberId"), 10, 64)
	roleID, _ := c.Get(ctxRoleID).(int)

	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boards[id]
	if !ok {
		return message(c, http.StatusNotFound, "board not found")
	}
	if b.MemberID != 0 && b.MemberID != requester && roleID != AdminRoleID {
		return message(c, http.StatusForbidden, "only the board creator can delete it")
	}
	delete(s.boards, id)
	delete(s.boardMembers, id)
	return c.NoContent(http.StatusNoContent)
}

// ── Lists ────────────────────────────────────────────────────────────────────

func (s *Server) listLists(c echo.Context) error {
	boardID, err := pathID(c, "boardId")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	lists := sortedByID(s.lists, func(l *domain.List) bool { return l.BoardID == boardID })
	sort.SliceStable(lists, func(i, j int) bool { return lists[i].Position < lists[j].Position })
	out := make([]domain.List, len(lists))
	for i, l := range lists {
		out[i] = *l
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createList(c echo.Context) error {
	var l domain.List
	if err := c.Bind(&l); err != nil || l.Title == "" || l.BoardID == 0 {
		return message(c, http.StatusBadRequest, "title and boardId are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.boards[l.BoardID]; !ok {
		return message(c, http.StatusNotFound, "board not found")
	}
	l.ID = s.nextID()
	s.lists[l.ID] = &l
	return c.JSON(http.StatusCreated, l)
}

func (s *Server) updateList(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req domain.List
	if err := c.Bind(&req); err != nil || req.Title == "" {
		return message(c, http.StatusBadRequest, "title is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lists[id]
	if !ok {
		return message(c, http.StatusNotFound, "list not found")
	}
	l.Title = req.Title
	l.Position = req.Position
	return c.JSON(http.StatusOK, l)
}

func (s *Server) deleteList(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lists[id]; !ok {
		return message(c, http.StatusNotFound, "list not found")
	}
	delete(s.lists, id)
	return c.NoContent(http.StatusNoContent)
}

// ── Cards ────────────────────────────────────────────────────────────────────

func (s *Server) listCards(c echo.Context) error {
	listID, err := pathID(c, "listId")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cards := sortedByID(s.cards, func(card *domain.Card) bool { return card.ListID == listID })
	out := make([]domain.Card, len(cards))
	for i, card := range cards {
		out[i] = *card
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createCard(c echo.Context) error {
	var card domain.Card
	if err := c.Bind(&card); err != nil || card.Title == "" || card.ListID == 0 {
		return message(c, http.StatusBadRequest, "title and listId are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lists[card.ListID]; !ok {
		return message(c, http.StatusNotFound, "list not found")
	}
	card.ID = s.nextID()
	s.cards[card.ID] = &card
	return c.JSON(http.StatusCreated, card)
}

func (s *Server) updateCard(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req domain.Card
	if err := c.Bind(&req); err != nil || req.Title == "" {
		return message(c, http.StatusBadRequest, "title is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := s.cards[id]
	if !ok {
		return message(c, http.StatusNotFound, "card not found")
	}
	card.Title = req.Title
	card.Description = req.Description
	if req.ListID != 0 {
		card.ListID = req.ListID
	}
	return c.JSON(http.StatusOK, card)
}

func (s *Server) deleteCard(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cards[id]; !ok {
		return message(c, http.StatusNotFound, "card not found")
	}
	delete(s.cards, id)
	return c.NoContent(http.StatusNoContent)
}

// ── Checklists ───────────────────────────────────────────────────────────────

func copyChecklist(cl *domain.Checklist) domain.Checklist {
	out := *cl
	out.Items = append([]domain.ChecklistItem{}, cl.Items...)
	return out
}

// findItem must be called with s.mu held.
func (s *Server) findItem(itemID int64) (*domain.Checklist, int) {
	for _, cl := range s.checklists {
		for i := range cl.Items {
			if cl.Items[i].ID == itemID {
				return cl, i
			}
		}
	}
	return nil, -1
}

func (s *Server) listChecklists(c echo.Context) error {
	cardID, err := pathID(c, "cardId")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	lists := sortedByID(s.checklists, func(cl *domain.Checklist) bool { return cl.CardID == cardID })
	out := make([]domain.Checklist, len(lists))
	for i, cl := range lists {
		out[i] = copyChecklist(cl)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createChecklist(c echo.Context) error {
	var cl domain.Checklist
	if err := c.Bind(&cl); err != nil || cl.Title == "" || cl.CardID == 0 {
		return message(c, http.StatusBadRequest, "title and cardId are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cards[cl.CardID]; !ok {
		return message(c, http.StatusNotFound, "card not found")
	}
	cl.ID = s.nextID()
	cl.Items = nil
	s.checklists[cl.ID] = &cl
	return c.JSON(http.StatusCreated, copyChecklist(&cl))
}

func (s *Server) updateChecklist(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req domain.Checklist
	if err := c.Bind(&req); err != nil || req.Title == "" {
		return message(c, http.StatusBadRequest, "title is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cl, ok := s.checklists[id]
	if !ok {
		return message(c, http.StatusNotFound, "checklist not found")
	}
	cl.Title = req.Title
	return c.JSON(http.StatusOK, copyChecklist(cl))
}

func (s *Server) deleteChecklist(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.checklists[id]; !ok {
		return message(c, http.StatusNotFound, "checklist not found")
	}
	delete(s.checklists, id)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) addItem(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&req); err != nil || req.Text == "" {
		return message(c, http.StatusBadRequest, "text is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cl, ok := s.checklists[id]
	if !ok {
		return message(c, http.StatusNotFound, "checklist not found")
	}
	item := domain.ChecklistItem{ID: s.nextID(), Text: req.Text}
	cl.Items = append(cl.Items, item)
	return c.JSON(http.StatusCreated, item)
}

func (s *Server) toggleItem(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cl, i := s.findItem(id)
	if cl == nil {
		return message(c, http.StatusNotFound, "item not found")
	}
	cl.Items[i].IsCompleted = !cl.Items[i].IsCompleted
	return c.JSON(http.StatusOK, cl.Items[i])
}

func (s *Server) deleteItem(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cl, i := s.findItem(id)
	if cl == nil {
		return message(c, http.StatusNotFound, "item not found")
	}
	cl.Items = append(cl.Items[:i], cl.Items[i+1:]...)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) clearCompleted(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cl, ok := s.checklists[id]
	if !ok {
		return message(c, http.StatusNotFound, "checklist not found")
	}
	kept := cl.Items[:0]
	for _, it := range cl.Items {
		if !it.IsCompleted {
			kept = append(kept, it)
		}
	}
	cl.Items = kept
	return c.NoContent(http.StatusNoContent)
}
