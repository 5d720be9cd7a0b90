package domain

import (
	"encoding/json"
	"time"
)

// WorkspaceMember links a member to a workspace with a workspace-level role.
type WorkspaceMember struct {
	ID          int64      `json:"id"`
	MemberID    int64      `json:"memberId"`
	WorkspaceID int64      `json:"workspaceId"`
	Name        string     `json:"memberName,omitempty"`
	Role        MemberRole `json:"role"`
}

// MemberProfile is the public identity of a member as embedded in membership rows.
type MemberProfile struct {
	ID      int64  `json:"memberId"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
}

// BoardMembership links a member to a board with a board-level role.
type BoardMembership struct {
	ID      int64         `json:"boardMemberId"`
	BoardID int64         `json:"boardId"`
	Role    BoardRole     `json:"role"`
	Member  MemberProfile `json:"member"`
}

// Workspace is the top-level container of boards.
type Workspace struct {
	ID      int64             `json:"id"`
	Name    string            `json:"name"`
	Members []WorkspaceMember `json:"members,omitempty"`
	Boards  []Board           `json:"boards,omitempty"`
}

// UnmarshalJSON accepts both the list shape ({id, name}) and the create
// response shape ({workspaceId, workspaceName}).
func (w *Workspace) UnmarshalJSON(data []byte) error {
	type plain Workspace
	var aux struct {
		plain
		WorkspaceID   int64  `json:"workspaceId"`
		WorkspaceName string `json:"workspaceName"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*w = Workspace(aux.plain)
	if w.ID == 0 {
		w.ID = aux.WorkspaceID
	}
	if w.Name == "" {
		w.Name = aux.WorkspaceName
	}
	return nil
}

// Board belongs to a workspace.
type Board struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	BgColor     string `json:"bgColor"`
	WorkspaceID int64  `json:"workspaceId"`
	MemberID    int64  `json:"memberId"`
}

// List is an ordered column of cards.
type List struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	BoardID  int64  `json:"boardId"`
	Position int    `json:"position"`
	Cards    []Card `json:"cards,omitempty"`
}

// Card is the unit of work inside a list.
type Card struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	ListID      int64       `json:"listId"`
	Checklists  []Checklist `json:"checklists,omitempty"`
}

// Checklist groups items on a card.
type Checklist struct {
	ID     int64           `json:"id"`
	Title  string          `json:"title"`
	CardID int64           `json:"cardId"`
	Items  []ChecklistItem `json:"items,omitempty"`
}

// Progress returns completed and total item counts.
func (c Checklist) Progress() (done, total int) {
	for _, it := range c.Items {
		if it.IsCompleted {
			done++
		}
	}
	return done, len(c.Items)
}

// ChecklistItem is a single checkable line.
type ChecklistItem struct {
	ID          int64  `json:"id"`
	Text        string `json:"text"`
	IsCompleted bool   `json:"isCompleted"`
}

// NoticeLevel classifies a user-visible notification.
type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is a transient, user-visible message.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
	At      time.Time   `json:"at"`
}
