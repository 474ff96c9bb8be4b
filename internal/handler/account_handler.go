package handler

import (
	"errors"
	"net/http"
	"strings"

	"trellix/internal/auth"
	"trellix/internal/middleware"
	"trellix/internal/model"
	"trellix/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type AccountHandler struct {
	repo         AccountStore
	tokens       *auth.Tokens
	cookieSecure bool
}

func NewAccountHandler(repo AccountStore, tokens *auth.Tokens, cookieSecure bool) *AccountHandler {
	return &AccountHandler{repo: repo, tokens: tokens, cookieSecure: cookieSecure}
}

type RegisterRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type AccountResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type AuthResponse struct {
	Token   string          `json:"token"`
	Account AccountResponse `json:"account"`
}

// Signup godoc
// @Summary  Create an account
// @Tags     Accounts
// @Accept   json
// @Produce  json
// @Param    body  body      RegisterRequest  true  "credentials"
// @Success  201   {object}  AuthResponse
// @Failure  400   {object}  map[string]string
// @Failure  409   {object}  map[string]string
// @Router   /signup [post]
func (h *AccountHandler) Signup(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Hash error"})
		return
	}

	account := &model.Account{
		ID:             uuid.New(),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		HashedPassword: hash,
	}
	if err := h.repo.Create(c.Request.Context(), account); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
			return
		}
		log.WithError(err).Error("create account")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create failed"})
		return
	}

	h.issue(c, http.StatusCreated, account)
}

// Login godoc
// @Summary  Log in
// @Tags     Accounts
// @Accept   json
// @Produce  json
// @Param    body  body      LoginRequest  true  "credentials"
// @Success  200   {object}  AuthResponse
// @Failure  401   {object}  map[string]string
// @Router   /login [post]
func (h *AccountHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	account, err := h.repo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, repository.ErrAccountNotFound) {
		log.WithError(err).Error("find account")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	if account == nil || !auth.CheckPassword(account.HashedPassword, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	h.issue(c, http.StatusOK, account)
}

// Logout clears the auth cookie. Bearer tokens simply expire.
func (h *AccountHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookie, "", -1, "/", "", h.cookieSecure, true)
	if wantsDocument(c) {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AccountHandler) issue(c *gin.Context, status int, account *model.Account) {
	token, err := h.tokens.Generate(account.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token error"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookie, token, int(h.tokens.TTL().Seconds()), "/", "", h.cookieSecure, true)

	if wantsDocument(c) {
		c.Redirect(http.StatusSeeOther, "/boards")
		return
	}
	c.JSON(status, AuthResponse{
		Token:   token,
		Account: AccountResponse{ID: account.ID.String(), Email: account.Email},
	})
}

// wantsDocument reports a plain browser navigation (a form post without
// scripts), which is answered with a redirect instead of JSON.
func wantsDocument(c *gin.Context) bool {
	return c.GetHeader("Sec-Fetch-Dest") == "document"
}
