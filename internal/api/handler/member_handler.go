package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kanbanly/kanban-web/internal/core/domain"
	"github.com/kanbanly/kanban-web/internal/core/ports"
	"github.com/kanbanly/kanban-web/internal/core/service"
)

// MemberHandler serves workspace and board membership management.
type MemberHandler struct {
	workspace *service.WorkspaceMemberController
	board     *service.BoardMemberController
	render    *Renderer
}

func NewMemberHandler(workspace *service.WorkspaceMemberController, board *service.BoardMemberController, render *Renderer) *MemberHandler {
	return &MemberHandler{workspace: workspace, board: board, render: render}
}

type inviteRequest struct {
	Email string `json:"email" form:"email"`
}

type memberRoleRequest struct {
	Role string `json:"role" form:"role"`
}

type boardMemberRequest struct {
	MemberID    int64 `json:"memberId"    form:"memberId"`
	WorkspaceID int64 `json:"workspaceId" form:"workspaceId"`
}

// ListWorkspace renders the role-tagged members of a workspace.
//
// @Summary      List workspace members
// @Tags         members
// @Produce      json
// @Param        id   path      int  true  "Workspace ID"
// @Success      200  {object}  viewResponse
// @Router       /workspaces/{id}/members [get]
func (h *MemberHandler) ListWorkspace(c echo.Context) error {
	wsID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.workspace.List(c.Request().Context(), wsID)
	return h.render.Result(c, http.StatusOK, "workspace-members", items, err)
}

// Invite adds a registered member to the workspace by email.
//
// @Summary      Invite workspace member
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        id    path      int            true  "Workspace ID"
// @Param        body  body      inviteRequest  true  "Invitee"
// @Success      201   {object}  viewResponse
// @Failure      422   {object}  viewResponse
// @Router       /workspaces/{id}/members [post]
func (h *MemberHandler) Invite(c echo.Context) error {
	wsID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req inviteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	items, err := h.workspace.Invite(c.Request().Context(), ports.InviteInput{WorkspaceID: wsID, Email: req.Email})
	return h.render.Result(c, http.StatusCreated, "workspace-members", items, err)
}

// ChangeRole sets the workspace role of a membership.
//
// @Summary      Change workspace member role
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        id        path      int                true  "Workspace ID"
// @Param        memberId  path      int                true  "Membership ID"
// @Param        body      body      memberRoleRequest  true  "Role (ADMIN or MEMBER)"
// @Success      200       {object}  viewResponse
// @Router       /workspaces/{id}/members/{memberId}/role [put]
func (h *MemberHandler) ChangeRole(c echo.Context) error {
	wsID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	id, err := pathID(c, "memberId")
	if err != nil {
		return err
	}
	var req memberRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	items, err := h.workspace.ChangeRole(c.Request().Context(), wsID, id, ports.MemberRoleInput{Role: domain.MemberRole(req.Role)})
	return h.render.Result(c, http.StatusOK, "workspace-members", items, err)
}

// RemoveWorkspace drops a membership from the workspace.
//
// @Summary      Remove workspace member
// @Tags         members
// @Produce      json
// @Param        id        path      int  true  "Workspace ID"
// @Param        memberId  path      int  true  "Membership ID"
// @Success      200       {object}  viewResponse
// @Router       /workspaces/{id}/members/{memberId} [delete]
func (h *MemberHandler) RemoveWorkspace(c echo.Context) error {
	wsID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	id, err := pathID(c, "memberId")
	if err != nil {
		return err
	}
	items, err := h.workspace.Remove(c.Request().Context(), wsID, id)
	return h.render.Result(c, http.StatusOK, "workspace-members", items, err)
}

// ListBoard renders the members of a board.
//
// @Summary      List board members
// @Tags         members
// @Produce      json
// @Param        id   path      int  true  "Board ID"
// @Success      200  {object}  viewResponse
// @Router       /boards/{id}/members [get]
func (h *MemberHandler) ListBoard(c echo.Context) error {
	boardID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.board.List(c.Request().Context(), boardID)
	return h.render.Result(c, http.StatusOK, "board-members", items, err)
}

// AddBoard puts a workspace member on the board.
//
// @Summary      Add board member
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        id    path      int                 true  "Board ID"
// @Param        body  body      boardMemberRequest  true  "Member"
// @Success      201   {object}  viewResponse
// @Router       /boards/{id}/members [post]
func (h *MemberHandler) AddBoard(c echo.Context) error {
	boardID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req boardMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	items, err := h.board.Add(c.Request().Context(), ports.BoardMemberInput{
		BoardID:     boardID,
		WorkspaceID: req.WorkspaceID,
		MemberID:    req.MemberID,
	})
	return h.render.Result(c, http.StatusCreated, "board-members", items, err)
}

// RemoveBoard takes a member off the board.
//
// @Summary      Remove board member
// @Tags         members
// @Produce      json
// @Param        id        path      int  true  "Board ID"
// @Param        memberId  path      int  true  "Member ID"
// @Success      200       {object}  viewResponse
// @Router       /boards/{id}/members/{memberId} [delete]
func (h *MemberHandler) RemoveBoard(c echo.Context) error {
	in, err := boardMemberPath(c)
	if err != nil {
		return err
	}
	items, err := h.board.Remove(c.Request().Context(), in)
	return h.render.Result(c, http.StatusOK, "board-members", items, err)
}

// PromoteLeader makes a board member a LEADER.
//
// @Summary      Promote board leader
// @Tags         members
// @Produce      json
// @Param        id        path      int  true  "Board ID"
// @Param        memberId  path      int  true  "Member ID"
// @Success      200       {object}  viewResponse
// @Router       /boards/{id}/members/{memberId}/leader [post]
func (h *MemberHandler) PromoteLeader(c echo.Context) error {
	in, err := boardMemberPath(c)
	if err != nil {
		return err
	}
	items, err := h.board.PromoteLeader(c.Request().Context(), in)
	return h.render.Result(c, http.StatusOK, "board-members", items, err)
}

func boardMemberPath(c echo.Context) (ports.BoardMemberInput, error) {
	boardID, err := pathID(c, "id")
	if err != nil {
		return ports.BoardMemberInput{}, err
	}
	memberID, err := pathID(c, "memberId")
	if err != nil {
		return ports.BoardMemberInput{}, err
	}
	return ports.BoardMemberInput{BoardID: boardID, MemberID: memberID}, nil
}
