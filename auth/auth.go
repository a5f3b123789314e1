// Package auth signs admins in and seeds the first admin account.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tourdesk/middleware"
	"tourdesk/models"
	"tourdesk/utils"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "invalid email or password"

type Handler struct {
	store  AdminStore
	tokens *middleware.Auth
}

func NewHandler(store AdminStore, tokens *middleware.Auth) *Handler {
	return &Handler{store: store, tokens: tokens}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input loginRequest
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	admin, err := h.store.FindByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.RespondWithError(w, http.StatusUnauthorized, invalidCredentials)
			return
		}
		utils.RespondWithServiceError(w, r, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(input.Password)); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, invalidCredentials)
		return
	}

	token, exp, err := h.tokens.Issue(admin.ID, admin.Email)
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "admin signed in", "admin_id", admin.ID)
	utils.RespondWithJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: exp})
}

// Bootstrap creates the admin account from the environment unless it already
// exists. Empty credentials skip it.
func Bootstrap(ctx context.Context, store AdminStore, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	_, err := store.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.Admin{
		ID:           utils.GetUUID(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.Create(ctx, admin); err != nil {
		return err
	}
	slog.Info("bootstrap admin created", "email", email)
	return nil
}
