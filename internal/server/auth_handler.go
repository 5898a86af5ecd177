package server

import (
	"net/http"

	"github.com/jonathan/interview-tracker/internal/access"
	"github.com/jonathan/interview-tracker/internal/types"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	userService      *UserService
	jwtService       *JWTService
	exposeResetLinks bool
	exposeDetails    bool
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, jwtService *JWTService, exposeResetLinks, exposeDetails bool) *AuthHandler {
	return &AuthHandler{
		userService:      userService,
		jwtService:       jwtService,
		exposeResetLinks: exposeResetLinks,
		exposeDetails:    exposeDetails,
	}
}

func (h *AuthHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, err, h.exposeDetails)
}

// issue signs a bearer token for user.
func (h *AuthHandler) issue(user *types.User) (string, error) {
	role, err := access.ParseRole(user.Role)
	if err != nil {
		return "", err
	}
	return h.jwtService.GenerateToken(user.ID, user.Email, role)
}

// Register handles user registration requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	reg, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	token, err := h.issue(reg.User)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sent := reg.Delivery.Delivered
	message := "User registered successfully. Please check your email to verify your account."
	if !sent {
		message = "User registered successfully. Use the verification link to verify your account."
	}
	jsonResponse(w, r, http.StatusCreated, types.AuthResponse{
		Message:               message,
		User:                  reg.User,
		Token:                 token,
		EmailVerificationSent: &sent,
		VerificationURL:       reg.Delivery.FallbackURL,
	})
}

// Login handles user login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	token, err := h.issue(user)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	jsonResponse(w, r, http.StatusOK, types.AuthResponse{
		Message: "Login successful",
		User:    user,
		Token:   token,
	})
}

// VerifyEmail consumes the token of a verification link.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.VerifyEmail(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResponse(w, r, http.StatusOK, map[string]any{
		"message": "Email verified successfully",
		"user":    user,
	})
}

// ResendVerification issues a new verification link.
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req types.EmailRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	delivery, err := h.userService.ResendVerification(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := types.DeliveryResponse{
		Message:         "Verification email sent",
		EmailSent:       delivery.Delivered,
		VerificationURL: delivery.FallbackURL,
	}
	if !delivery.Delivered {
		resp.Message = "Email could not be sent. Use the verification link instead."
	}
	jsonResponse(w, r, http.StatusOK, resp)
}

// ForgotPassword starts a password reset.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req types.EmailRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	delivery, err := h.userService.ForgotPassword(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	// Without exposed links the response is identical for every address.
	resp := types.DeliveryResponse{
		Message:   "If an account with that email exists, a password reset link has been sent",
		EmailSent: true,
	}
	if h.exposeResetLinks {
		resp.EmailSent = delivery.Delivered
		resp.ResetURL = delivery.FallbackURL
	}
	jsonResponse(w, r, http.StatusOK, resp)
}

// ResetPassword completes a password reset.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req types.ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.userService.ResetPassword(r.Context(), &req); err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResponse(w, r, http.StatusOK, map[string]string{"message": "Password reset successfully"})
}

// Profile returns the caller's profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	user, err := h.userService.GetProfile(r.Context(), caller)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResponse(w, r, http.StatusOK, map[string]any{"user": user})
}

// UpdatePassword handles password update requests for the caller.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req types.UpdatePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.userService.UpdatePassword(r.Context(), caller, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResponse(w, r, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}
