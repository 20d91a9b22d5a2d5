package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dom/web-ads-backend/internal/api/middleware"
	"github.com/dom/web-ads-backend/internal/domain"
	"github.com/dom/web-ads-backend/internal/service"
)

type AuthHandler struct {
	authService  *service.AuthService
	refreshToken *service.RefreshTokenService
}

func NewAuthHandler(authService *service.AuthService, refreshToken *service.RefreshTokenService) *AuthHandler {
	return &AuthHandler{authService: authService, refreshToken: refreshToken}
}

type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
}

func (r RegisterRequest) Validate() []FieldError {
	var errs []FieldError
	if len(r.Username) < 3 || len(r.Username) > 20 {
		errs = append(errs, FieldError{Field: "username", Message: "username must be between 3 and 20 characters"})
	}
	if len(r.Password) < 6 {
		errs = append(errs, FieldError{Field: "password", Message: "password must be at least 6 characters long"})
	}
	if r.PhoneNumber == "" {
		errs = append(errs, FieldError{Field: "phoneNumber", Message: "phone number is required"})
	}
	return errs
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	PhoneNumber      string `json:"phoneNumber"`
	RegistrationDate string `json:"registrationDate"`
}

func newUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:               user.ID.String(),
		Username:         user.Username,
		PhoneNumber:      user.PhoneNumber,
		RegistrationDate: time.Time(user.RegistrationDate).Format("2006-01-02"),
	}
}

type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	Username     string `json:"username"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		writeFieldErrors(w, fieldErrors)
		return
	}

	user, err := h.authService.Register(r.Context(), service.RegisterInput{
		Username:    req.Username,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newUserResponse(user))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "username and password are required"})
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:        result.AccessToken,
		RefreshToken: result.RefreshToken,
		TokenType:    "Bearer",
		Username:     result.User.Username,
	})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.RefreshToken == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "refresh token is required"})
		return
	}

	pair, err := h.refreshToken.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, RefreshResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	if err := h.authService.Logout(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	user, err := h.authService.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(user))
}
