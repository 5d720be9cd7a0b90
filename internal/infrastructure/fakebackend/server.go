// Package fakebackend is an in-memory Kanban REST backend. It speaks the same
// wire format as the real service and backs the end-to-end tests and the
// `kanban mock-backend` command.
package fakebackend

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kanbanly/kanban-web/internal/core/domain"
)

// AdminRoleID is the roleId issued to administrators.
const AdminRoleID = 1

const userRoleID = 2

type member struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	RoleID       int
	Active       bool
}

type workspace struct {
	ID      int64
	Name    string
	Members []domain.WorkspaceMember
}

// Server holds all backend state behind one mutex.
type Server struct {
	secret []byte
	ttl    time.Duration
	log    zerolog.Logger
	now    func() time.Time

	mu           sync.Mutex
	seq          int64
	memberSeq    int64
	rowSeq       int64
	members      map[string]*member
	workspaces   map[int64]*workspace
	boards       map[int64]*domain.Board
	boardMembers map[int64][]domain.BoardMembership
	lists        map[int64]*domain.List
	cards        map[int64]*domain.Card
	checklists   map[int64]*domain.Checklist
	logs         []domain.LogEntry
}

func New(secret string, ttl time.Duration, log zerolog.Logger) *Server {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Server{
		secret:       []byte(secret),
		ttl:          ttl,
		log:          log,
		now:          time.Now,
		seq:          100,
		rowSeq:       1000,
		members:      make(map[string]*member),
		workspaces:   make(map[int64]*workspace),
		boards:       make(map[int64]*domain.Board),
		boardMembers: make(map[int64][]domain.BoardMembership),
		lists:        make(map[int64]*domain.List),
		cards:        make(map[int64]*domain.Card),
		checklists:   make(map[int64]*domain.Checklist),
	}
}

// Seed registers a member and returns its id. An id of 0 picks the next
// free member id. roleID 1 is an administrator.
func (s *Server) Seed(id int64, email, password string, roleID int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.addMember(id, email, email, password, roleID)
	if err != nil {
		return 0, err
	}
	return m.ID, nil
}

// addMember must be called with s.mu held.
func (s *Server) addMember(id int64, email, username, password string, roleID int) (*member, error) {
	if _, ok := s.members[email]; ok {
		return nil, fmt.Errorf("member %s already exists", email)
	}
	if id == 0 {
		id = s.nextMemberID()
	} else if s.memberExists(id) {
		return nil, fmt.Errorf("member id %d already taken", id)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	m := &member{
		ID:           id,
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		RoleID:       roleID,
		Active:       true,
	}
	s.members[email] = m
	return m, nil
}

// nextMemberID must be called with s.mu held.
func (s *Server) nextMemberID() int64 {
	for {
		s.memberSeq++
		if !s.memberExists(s.memberSeq) {
			return s.memberSeq
		}
	}
}

func (s *Server) memberExists(id int64) bool {
	for _, m := range s.members {
		if m.ID == id {
			return true
		}
	}
	return false
}

// nextID issues resource ids and must be called with s.mu held. The first
// id issued is 101.
func (s *Server) nextID() int64 {
	s.seq++
	return s.seq
}

// record appends an audit log line; must be called with s.mu held.
func (s *Server) record(source, level, msg string, memberID int64) {
	s.logs = append(s.logs, domain.LogEntry{
		ID:        int64(len(s.logs) + 1),
		Source:    source,
		LogLevel:  level,
		Message:   msg,
		MemberID:  memberID,
		Timestamp: s.now().UTC(),
	})
}

// Handler returns the echo instance serving the REST API.
func (s *Server) Handler() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomiddleware.Recover())

	e.HEAD("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.POST("/auth/login", s.login)
	e.POST("/auth/signup", s.signup)
	e.POST("/auth/google", s.google)
	e.POST("/auth/forgot-password", s.forgotPassword)

	api := e.Group("", s.authenticate)
	api.POST("/auth/reset-password", s.resetPassword)

	api.GET("/workspaces/member/:memberId", s.listWorkspaces)
	api.POST("/workspaces", s.createWorkspace)
	api.PUT("/workspaces/:id", s.updateWorkspace)
	api.DELETE("/workspaces/:id", s.deleteWorkspace)
	api.GET("/workspace-members/workspace/:id", s.listWorkspaceMembers)
	api.POST("/workspace-members/invite", s.inviteWorkspaceMember)
	api.PUT("/workspace-members/:id/role", s.updateWorkspaceMemberRole)
	api.DELETE("/workspace-members/:id", s.removeWorkspaceMember)

	api.GET("/boards/workspace/:workspaceId", s.listBoards)
	api.POST("/boards", s.createBoard)
	api.PUT("/boards/:id", s.updateBoard)
	api.DELETE("/boards/:id", s.deleteBoard)
	api.POST("/boards/:id/promote-leader", s.promoteLeader)

	api.GET("/board-members/list", s.listBoardMembers)
	api.POST("/board-members/add", s.addBoardMemberHandler)
	api.DELETE("/board-members/remove", s.removeBoardMember)

	api.GET("/lists/board/:boardId", s.listLists)
	api.POST("/lists", s.createList)
	api.PUT("/lists/:id", s.updateList)
	api.DELETE("/lists/:id", s.deleteList)

	api.GET("/cards/list/:listId", s.listCards)
	api.POST("/cards", s.createCard)
	api.PUT("/cards/:id", s.updateCard)
	api.DELETE("/cards/:id", s.deleteCard)

	api.GET("/checklists/card/:cardId", s.listChecklists)
	api.POST("/checklists", s.createChecklist)
	api.PUT("/checklists/:id", s.updateChecklist)
	api.DELETE("/checklists/:id", s.deleteChecklist)
	api.POST("/checklists/:id/items", s.addItem)
	api.PATCH("/checklists/items/:id/toggle", s.toggleItem)
	api.DELETE("/checklists/items/:id", s.deleteItem)
	api.DELETE("/checklists/:id/completed-items", s.clearCompleted)

	api.GET("/roles", s.roles)

	admin := api.Group("", requireRole(AdminRoleID))
	admin.GET("/admin/workspaces/count", s.workspaceCount)
	admin.GET("/admin/users/active/count", s.activeUserCount)
	admin.GET("/admin/workspaces", s.allWorkspaces)
	admin.GET("/logs", s.searchLogs)

	return e
}

func message(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"message": msg})
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, message(c, http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
