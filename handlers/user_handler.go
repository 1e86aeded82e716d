package handlers

import (
	"context"
	"net/http"

	"productcatalog/models"

	"github.com/sirupsen/logrus"
)

type AccountService interface {
	Signup(ctx context.Context, creds models.Credentials) (*models.User, error)
	Login(ctx context.Context, creds models.Credentials) (string, error)
}

type UserHandler struct {
	Accounts AccountService
	Log      *logrus.Logger
}

type signupResponse struct {
	Message string      `json:"message"`
	User    userSummary `json:"user"`
}

type userSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

// Signup handler
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.Accounts.Signup(r.Context(), creds)
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, signupResponse{
		Message: "User created successfully",
		User:    userSummary{ID: user.ID, Email: user.Email},
	})
}

// Login handler
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.Accounts.Login(r.Context(), creds)
	if err != nil {
		writeServiceError(w, r, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token})
}
