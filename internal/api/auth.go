package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"venuebook/internal/config"
	"venuebook/internal/models"
	"venuebook/internal/service"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey int

const userKey ctxKey = 0

type authUser struct {
	ID    int64
	Admin bool
}

func userFrom(r *http.Request) (authUser, bool) {
	u, ok := r.Context().Value(userKey).(authUser)
	return u, ok
}

// issueToken signs an HS256 access token with the user id as subject and an
// admin claim.
func issueToken(cfg config.AuthConfig, user models.User) (string, time.Time, error) {
	exp := time.Now().UTC().Add(time.Duration(cfg.AccessTTLMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"admin": user.IsAdmin,
		"exp":   exp.Unix(),
		"iat":   time.Now().UTC().Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

func parseToken(secret, raw string) (authUser, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return authUser{}, jwt.ErrTokenUnverifiable
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return authUser{}, jwt.ErrTokenInvalidClaims
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		return authUser{}, jwt.ErrTokenInvalidClaims
	}
	admin, _ := claims["admin"].(bool)
	return authUser{ID: int64(sub), Admin: admin}, nil
}

// requireAuth validates the bearer token and stores the caller in context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		user, err := parseToken(s.cfg.Auth.JWTSecret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	}
}

// requireAdmin additionally gates on the admin claim.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userFrom(r)
		if !user.Admin {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next(w, r)
	})
}

type credentialsRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

func toRegisterInput(req credentialsRequest) service.RegisterInput {
	return service.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}
}

type authResponse struct {
	Token   string      `json:"token"`
	Expires time.Time   `json:"expires"`
	User    models.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	user, err := s.users.Register(r.Context(), toRegisterInput(req))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, exp, err := issueToken(s.cfg.Auth, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "issue token failed")
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: token, Expires: exp, User: user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.users.Authenticate(r.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, exp, err := issueToken(s.cfg.Auth, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "issue token failed")
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, Expires: exp, User: user})
}
