package fakebackend

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const (
	ctxMemberID = "member_id"
	ctxRoleID   = "role_id"
)

type loginResponse struct {
	Token     string `json:"token"`
	RoleID    int    `json:"roleId"`
	MemberID  int64  `json:"memberId"`
	UserID    int64  `json:"userId"`
	Email     string `json:"email"`
	IsNewUser bool   `json:"isNewUser,omitempty"`
}

func (s *Server) issueToken(m *member) (string, error) {
	claims := jwt.MapClaims{
		"sub":    strconv.FormatInt(m.ID, 10),
		"email":  m.Email,
		"roleId": m.RoleID,
		"exp":    s.now().Add(s.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) respondWithToken(c echo.Context, m *member, isNew bool) error {
	token, err := s.issueToken(m)
	if err != nil {
		return message(c, http.StatusInternalServerError, "could not issue token")
	}
	return c.JSON(http.StatusOK, loginResponse{
		Token:     token,
		RoleID:    m.RoleID,
		MemberID:  m.ID,
		UserID:    m.ID,
		Email:     m.Email,
		IsNewUser: isNew,
	})
}

func (s *Server) login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "invalid payload")
	}

	s.mu.Lock()
	var snapshot member
	m, ok := s.members[req.Email]
	if ok {
		snapshot = *m
		s.record("auth", "INFO", "login attempt", m.ID)
	}
	s.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword([]byte(snapshot.PasswordHash), []byte(req.Password)) != nil {
		return message(c, http.StatusUnauthorized, "invalid credentials")
	}
	return s.respondWithToken(c, &snapshot, false)
}

func (s *Server) signup(c echo.Context) error {
	var req struct {
		Username string `json:"memberName"`
		Name     string `json:"name"`
		Surname  string `json:"surname"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil || req.Email == "" || req.Password == "" {
		return message(c, http.StatusBadRequest, "invalid payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.addMember(0, req.Email, req.Username, req.Password, userRoleID)
	if err != nil {
		return message(c, http.StatusConflict, "email already registered")
	}
	s.record("auth", "INFO", "member registered", m.ID)
	return c.NoContent(http.StatusCreated)
}

// google treats the ID token as "<email>" and registers unknown addresses.
func (s *Server) google(c echo.Context) error {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.Bind(&req); err != nil || !strings.Contains(req.Token, "@") {
		return message(c, http.StatusUnauthorized, "invalid google token")
	}

	s.mu.Lock()
	m, ok := s.members[req.Token]
	isNew := !ok
	if isNew {
		var err error
		m, err = s.addMember(0, req.Token, req.Token, req.Token, userRoleID)
		if err != nil {
			s.mu.Unlock()
			return message(c, http.StatusInternalServerError, "could not register member")
		}
	}
	s.mu.Unlock()

	return s.respondWithToken(c, m, isNew)
}

func (s *Server) forgotPassword(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "if the address is registered, a reset link was sent"})
}

func (s *Server) resetPassword(c echo.Context) error {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.Bind(&req); err != nil || req.NewPassword == "" {
		return message(c, http.StatusBadRequest, "invalid payload")
	}
	memberID := c.Get(ctxMemberID).(int64)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members {
		if m.ID != memberID {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(req.CurrentPassword)) != nil {
			return message(c, http.StatusBadRequest, "current password is incorrect")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.MinCost)
		if err != nil {
			return message(c, http.StatusInternalServerError, "could not update password")
		}
		m.PasswordHash = string(hash)
		return c.JSON(http.StatusOK, map[string]string{"message": "password updated"})
	}
	return message(c, http.StatusNotFound, "member not found")
}

// authenticate validates the bearer JWT and injects member id and role id.
func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return message(c, http.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return message(c, http.StatusUnauthorized, "invalid authorization header")
		}

		claims := jwt.MapClaims{}
		tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return s.secret, nil
		}, jwt.WithTimeFunc(s.now))
		if err != nil || !tkn.Valid {
			return message(c, http.StatusUnauthorized, "invalid token")
		}

		sub, _ := claims.GetSubject()
		memberID, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			return message(c, http.StatusUnauthorized, "invalid token subject")
		}
		roleID, _ := claims["roleId"].(float64)

		c.Set(ctxMemberID, memberID)
		c.Set(ctxRoleID, int(roleID))
		return next(c)
	}
}

// requireRole admits only tokens carrying one of the given role ids.
func requireRole(roleIDs ...int) echo.MiddlewareFunc {
	allowed := make(map[int]struct{}, len(roleIDs))
	for _, r := range roleIDs {
		allowed[r] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ctxRoleID).(int)
			if _, ok := allowed[role]; !ok {
				return message(c, http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
