package rest

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/berwahousing/records-backend/internal/auth"
	"github.com/berwahousing/records-backend/internal/config"
	"github.com/berwahousing/records-backend/internal/models"
	"github.com/berwahousing/records-backend/internal/pkg/metrics"
	"github.com/berwahousing/records-backend/internal/pkg/validate"
	"github.com/berwahousing/records-backend/internal/repository"
)

const (
	minPasswordLength = 8
	loginRateLimit    = 5 // per minute, per IP
	loginBurst        = 5
)

// AuthHandler handles /register and /login.
type AuthHandler struct {
	repo repository.UserRepository
	cfg  *config.Config

	limiterMu sync.Mutex
	limiters  map[string]*rate.Limiter // per-IP login limiters
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(repo repository.UserRepository, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		repo:     repo,
		cfg:      cfg,
		limiters: make(map[string]*rate.Limiter),
	}
}

// SetupAuthRoutes registers the unauthenticated auth endpoints.
func SetupAuthRoutes(router *mux.Router, ah *AuthHandler) {
	router.HandleFunc("/register", ah.Register).Methods("POST")
	router.HandleFunc("/login", ah.Login).Methods("POST")
}

// RegisterRequest is the body for POST /register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Register handles POST /register.
func (ah *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" || req.Email == "" || req.Role == "" {
		respondError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if !validate.Username(req.Username) {
		respondError(w, http.StatusBadRequest, "Invalid username")
		return
	}
	if !validate.Email(req.Email) {
		respondError(w, http.StatusBadRequest, "Invalid email")
		return
	}
	if !validate.Role(req.Role) {
		respondError(w, http.StatusBadRequest, "Invalid role")
		return
	}
	if len(req.Password) < minPasswordLength {
		respondError(w, http.StatusBadRequest, "Password too short")
		return
	}

	exists, err := ah.repo.UserExists(r.Context(), req.Username, req.Email)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if exists {
		respondError(w, http.StatusBadRequest, "Username or email already exists")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
		Email:        req.Email,
		Role:         req.Role,
	}
	if _, err := ah.repo.CreateUser(r.Context(), user); err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

// LoginRequest is the body for POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the response for POST /login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  LoginUserDTO `json:"user"`
}

// LoginUserDTO is the caller-facing identity slice returned on login.
type LoginUserDTO struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Login handles POST /login with per-IP rate limiting.
func (ah *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !ah.allowLogin(clientIP(r)) {
		metrics.LoginAttemptsTotal.WithLabelValues("throttled").Inc()
		respondError(w, http.StatusTooManyRequests, "Too many login attempts, try again later")
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := ah.repo.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		respondDomainError(w, r, err)
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := auth.IssueAccessToken(ah.cfg.JWTSecret, user.ID, user.Username, user.Role)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	respondJSON(w, http.StatusOK, LoginResponse{
		Token: token,
		User:  LoginUserDTO{Username: user.Username, Role: user.Role},
	})
}

// allowLogin checks the per-IP token bucket.
func (ah *AuthHandler) allowLogin(ip string) bool {
	ah.limiterMu.Lock()
	defer ah.limiterMu.Unlock()

	lim, ok := ah.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(loginRateLimit)/60, loginBurst)
		ah.limiters[ip] = lim
	}
	return lim.Allow()
}

// clientIP extracts the caller IP, preferring X-Forwarded-For when present.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
