package handler

import (
    "context"
    "database/sql"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/film-rental-store/internal/config"
    "github.com/iliyamo/film-rental-store/internal/repository"
    "github.com/iliyamo/film-rental-store/internal/utils"
)

// AdminHandler bundles dependencies for the admin account endpoints.
// Passwords are stored as bcrypt hashes and are never echoed back in any
// response; a successful login yields a signed access token instead.
type AdminHandler struct {
    Cfg    config.Config
    Admins *repository.AdminRepo
}

func NewAdminHandler(cfg config.Config, a *repository.AdminRepo) *AdminHandler {
    return &AdminHandler{Cfg: cfg, Admins: a}
}

// ----- DTOs -----

type credentialsReq struct {
    Username string `json:"username"`
    Password string `json:"password"`
}

type tokenPart struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
}
type adminPart struct {
    ID        uint64    `json:"id"`
    Username  string    `json:"username"`
    CreatedAt time.Time `json:"created_at"`
}

// Login handles POST /api/admin/login.  Credentials are verified against
// the stored bcrypt hash; both unknown usernames and wrong passwords
// produce the same 401 body.
func (h *AdminHandler) Login(c echo.Context) error {
    var req credentialsReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Username = strings.TrimSpace(req.Username)
    if req.Username == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    a, err := h.Admins.GetByUsername(ctx, req.Username)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
        }
        c.Logger().Errorf("admin lookup failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if !utils.VerifyPassword(a.PasswordHash, req.Password) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    }

    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, a.ID, "ADMIN", h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
    }

    return c.JSON(http.StatusOK, echo.Map{
        "message": "Login successful",
        "admin":   adminPart{ID: a.ID, Username: a.Username, CreatedAt: a.CreatedAt},
        "access":  tokenPart{Token: access.Token, Expires: access.Exp},
    })
}

// Add handles POST /api/admin/add.  The password is bcrypt-hashed before
// insertion; a duplicate username maps to 409.
func (h *AdminHandler) Add(c echo.Context) error {
    var req credentialsReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Username = strings.TrimSpace(req.Username)
    if req.Username == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if _, err := h.Admins.Create(ctx, req.Username, req.Password, h.Cfg.BcryptCost); err != nil {
        if errors.Is(err, repository.ErrUsernameExists) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
        }
        c.Logger().Errorf("admin create failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create admin failed"})
    }

    return c.JSON(http.StatusCreated, echo.Map{"message": "New admin account created successfully."})
}

// Me: simple protected endpoint.
func (h *AdminHandler) Me(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{
        "admin_id": c.Get("admin_id"),
        "role":     c.Get("role"),
    })
}
