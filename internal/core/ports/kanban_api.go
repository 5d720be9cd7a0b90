package ports

import (
	"context"

	"github.com/kanbanly/kanban-web/internal/core/domain"
)

// LoginResult is what the backend returns for password login and OAuth exchange.
type LoginResult struct {
	Token     string `json:"token"`
	RoleID    int    `json:"roleId"`
	MemberID  int64  `json:"memberId"`
	UserID    int64  `json:"userId"`
	Email     string `json:"email,omitempty"`
	IsNewUser bool   `json:"isNewUser"`
}

// SignupInput carries the registration form.
type SignupInput struct {
	Username string `json:"memberName" validate:"required"`
	Name     string `json:"name"       validate:"required"`
	Surname  string `json:"surname"    validate:"required"`
	Email    string `json:"email"      validate:"required,email"`
	Password string `json:"password"   validate:"required,password"`
}

// ResetPasswordInput carries a password change for the logged-in member.
type ResetPasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// AuthAPI covers the unauthenticated and account endpoints.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Signup(ctx context.Context, in SignupInput) error
	GoogleLogin(ctx context.Context, idToken string) (*LoginResult, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, in ResetPasswordInput) error
}

// WorkspaceInput is the create/update payload of a workspace.
type WorkspaceInput struct {
	MemberID int64  `json:"memberId" validate:"gt=0"`
	Name     string `json:"workspaceName" validate:"required,notblank"`
}

// WorkspaceAPI covers /workspaces.
type WorkspaceAPI interface {
	ListWorkspaces(ctx context.Context, memberID int64) ([]domain.Workspace, error)
	CreateWorkspace(ctx context.Context, in WorkspaceInput) (*domain.Workspace, error)
	UpdateWorkspace(ctx context.Context, id int64, in WorkspaceInput) error
	DeleteWorkspace(ctx context.Context, id int64) error
}

// InviteInput adds a registered member to a workspace by email.
type InviteInput struct {
	WorkspaceID int64  `json:"workspaceId" validate:"gt=0"`
	Email       string `json:"memberEmail" validate:"required,email"`
}

// MemberRoleInput changes the workspace role of a membership. Ownership is
// fixed at creation and cannot be assigned.
type MemberRoleInput struct {
	Role domain.MemberRole `json:"role" validate:"oneof=ADMIN MEMBER"`
}

// WorkspaceMemberAPI covers /workspace-members.
type WorkspaceMemberAPI interface {
	ListWorkspaceMembers(ctx context.Context, workspaceID int64) ([]domain.WorkspaceMember, error)
	InviteWorkspaceMember(ctx context.Context, in InviteInput) error
	UpdateWorkspaceMemberRole(ctx context.Context, id int64, in MemberRoleInput) error
	RemoveWorkspaceMember(ctx context.Context, id int64) error
}

// BoardMemberInput names a board membership change. RequesterID is the
// acting member; the backend checks its board role.
type BoardMemberInput struct {
	BoardID     int64 `validate:"gt=0"`
	WorkspaceID int64
	MemberID    int64 `validate:"gt=0"`
	RequesterID int64 `validate:"gt=0"`
}

// BoardMemberAPI covers /board-members and board leader promotion.
type BoardMemberAPI interface {
	ListBoardMembers(ctx context.Context, boardID int64) ([]domain.BoardMembership, error)
	AddBoardMember(ctx context.Context, in BoardMemberInput) error
	RemoveBoardMember(ctx context.Context, in BoardMemberInput) error
	PromoteBoardLeader(ctx context.Context, in BoardMemberInput) error
}

// BoardInput is the create/update payload of a board.
type BoardInput struct {
	WorkspaceID int64  `json:"workspaceId"`
	Title       string `json:"title"   validate:"required,notblank"`
	BgColor     string `json:"bgColor"`
	MemberID    int64  `json:"memberId"`
}

// BoardAPI covers /boards.
type BoardAPI interface {
	ListBoards(ctx context.Context, workspaceID, memberID int64) ([]domain.Board, error)
	CreateBoard(ctx context.Context, in BoardInput) (*domain.Board, error)
	UpdateBoard(ctx context.Context, id int64, in BoardInput) error
	DeleteBoard(ctx context.Context, id, memberID int64) error
}

// ListInput is the create/update payload of a list.
type ListInput struct {
	BoardID  int64  `json:"boardId"`
	Title    string `json:"title"    validate:"required,notblank"`
	Position int    `json:"position"`
}

// ListAPI covers /lists.
type ListAPI interface {
	ListLists(ctx context.Context, boardID int64) ([]domain.List, error)
	CreateList(ctx context.Context, in ListInput) (*domain.List, error)
	UpdateList(ctx context.Context, id int64, in ListInput) error
	DeleteList(ctx context.Context, id int64) error
}

// CardInput is the create/update payload of a card.
type CardInput struct {
	ListID      int64  `json:"listId"`
	Title       string `json:"title"       validate:"required,notblank"`
	Description string `json:"description,omitempty"`
	MemberID    int64  `json:"memberId"`
}

// CardAPI covers /cards.
type CardAPI interface {
	ListCards(ctx context.Context, listID int64) ([]domain.Card, error)
	CreateCard(ctx context.Context, in CardInput) (*domain.Card, error)
	UpdateCard(ctx context.Context, id int64, in CardInput) error
	DeleteCard(ctx context.Context, id int64) error
}

// ChecklistInput is the create/update payload of a checklist.
type ChecklistInput struct {
	CardID int64  `json:"cardId"`
	Title  string `json:"title" validate:"required,notblank"`
}

// ChecklistItemInput is the payload of a new checklist item.
type ChecklistItemInput struct {
	Text string `json:"text" validate:"required,notblank"`
}

// ChecklistAPI covers /checklists and its items.
type ChecklistAPI interface {
	ListChecklists(ctx context.Context, cardID int64) ([]domain.Checklist, error)
	CreateChecklist(ctx context.Context, in ChecklistInput) (*domain.Checklist, error)
	UpdateChecklist(ctx context.Context, id int64, in ChecklistInput) error
	DeleteChecklist(ctx context.Context, id int64) error
	AddChecklistItem(ctx context.Context, checklistID int64, in ChecklistItemInput) (*domain.ChecklistItem, error)
	ToggleChecklistItem(ctx context.Context, itemID int64) error
	DeleteChecklistItem(ctx context.Context, itemID int64) error
	DeleteCompletedItems(ctx context.Context, checklistID int64) error
}

// AdminAPI covers the admin aggregates, the role catalogue and the log search.
type AdminAPI interface {
	WorkspaceCount(ctx context.Context) (int64, error)
	ActiveUserCount(ctx context.Context) (int64, error)
	AllWorkspaces(ctx context.Context) ([]domain.Workspace, error)
	Roles(ctx context.Context) ([]domain.RoleDefinition, error)
	Logs(ctx context.Context, filter domain.LogFilter) ([]domain.LogEntry, error)
}

// KanbanAPI is the full backend surface implemented by the API Gateway Client.
type KanbanAPI interface {
	AuthAPI
	WorkspaceAPI
	WorkspaceMemberAPI
	BoardAPI
	BoardMemberAPI
	ListAPI
	CardAPI
	ChecklistAPI
	AdminAPI
}
