package transport

import (
	"net/http"
	"time"

	"shopfront/internal/domain"
	"shopfront/internal/middleware"
	"shopfront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SignupRequest represents the signup request payload
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// AccountResponse wraps an account with a status message
type AccountResponse struct {
	Message string          `json:"message"`
	User    *domain.Account `json:"user"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    *domain.Account `json:"user"`
}

// SessionCookie describes the cookie that carries the credential
type SessionCookie struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

func (c SessionCookie) issue(token string) *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (c SessionCookie) clear() *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// UserHandler handles HTTP requests for account operations
type UserHandler struct {
	userService service.UserService
	cookie      SessionCookie
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, cookie SessionCookie, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		cookie:      cookie,
		logger:      logger,
	}
}

// RegisterRoutes registers the account routes. Address routes live in
// AddressHandler under the same prefix.
func (h *UserHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/user", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/logout", h.Logout)
			r.Get("/details", h.Details)
		})
	})
}

// Signup handles account registration
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !middleware.Bind(w, r, &req) {
		return
	}

	account, err := h.userService.Signup(r.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Account created", zap.String("user_id", account.ID), zap.String("role", string(account.Role)))
	middleware.RespondWithJSON(w, http.StatusCreated, AccountResponse{
		Message: "User created successfully",
		User:    account,
	})
}

// Login authenticates by email and password and sets the session cookie
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !middleware.Bind(w, r, &req) {
		return
	}

	token, account, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	http.SetCookie(w, h.cookie.issue(token))

	h.logger.Info("User logged in", zap.String("user_id", account.ID))
	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{
		Message: "Login Successful",
		Token:   token,
		User:    account,
	})
}

// Logout clears the session cookie. Issued tokens stay valid until they expire.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.cookie.clear())
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// Details returns the caller's account
func (h *UserHandler) Details(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithDomainError(w, h.logger, domain.ErrMissingToken)
		return
	}

	account, err := h.userService.GetAccount(r.Context(), accountID)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, AccountResponse{
		Message: "User details",
		User:    account,
	})
}
