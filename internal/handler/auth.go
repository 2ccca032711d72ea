package handler

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/invoice-dashboard/internal/middleware"
    "github.com/iliyamo/invoice-dashboard/internal/model"
    "github.com/iliyamo/invoice-dashboard/internal/service"
    "github.com/iliyamo/invoice-dashboard/internal/utils"
    "github.com/iliyamo/invoice-dashboard/internal/validation"
)

// CredentialVerifier checks an email/password pair.
type CredentialVerifier interface {
    VerifyCredentials(ctx context.Context, email, password string) (*model.User, error)
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
    Auth         CredentialVerifier
    JWTSecret    string
    AccessTTLMin int
}

func NewAuthHandler(auth CredentialVerifier, secret string, ttlMin int) *AuthHandler {
    return &AuthHandler{Auth: auth, JWTSecret: secret, AccessTTLMin: ttlMin}
}

// ----- DTOs -----

type loginReq struct {
    Email    string `json:"email" form:"email"`
    Password string `json:"password" form:"password"`
}

type tokenPart struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
}
type userPart struct {
    ID    string `json:"id"`
    Name  string `json:"name,omitempty"`
    Email string `json:"email"`
}
type authResp struct {
    User   userPart  `json:"user"`
    Access tokenPart `json:"access"`
}

// Login verifies credentials and issues an access token.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Email = strings.TrimSpace(req.Email)

    ctx, cancel := requestCtx(c)
    defer cancel()

    u, err := h.Auth.VerifyCredentials(ctx, req.Email, req.Password)
    if err != nil {
        var verr *validation.Error
        if errors.Is(err, service.ErrValidation) && errors.As(err, &verr) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": verr.Fields})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Something went wrong."})
    }
    if u == nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    }

    access, err := utils.NewAccessToken(h.JWTSecret, u.ID, u.Email, h.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
    }
    return c.JSON(http.StatusOK, authResp{
        User:   userPart{ID: u.ID, Name: u.Name, Email: u.Email},
        Access: tokenPart{Token: access.Token, Expires: access.Exp},
    })
}

// Me returns the identity carried by the session token.
func (h *AuthHandler) Me(c echo.Context) error {
    id, _ := c.Get(middleware.CtxUserID).(string)
    email, _ := c.Get(middleware.CtxEmail).(string)
    if id == "" {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    return c.JSON(http.StatusOK, userPart{ID: id, Email: email})
}
