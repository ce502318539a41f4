package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/logger"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/utils"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type GoogleOAuthHandler struct {
	DB *gorm.DB
	Session
	GoogleClientID  string
	GoogleSecret    string
	GoogleRedirect  string
	FrontendBaseURL string
}

func (h *GoogleOAuthHandler) oauthCfg() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.GoogleClientID,
		ClientSecret: h.GoogleSecret,
		RedirectURL:  h.GoogleRedirect,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}
}

func randomState(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func (h *GoogleOAuthHandler) tempCookie(c *fiber.Ctx, name, value string, maxAge int) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.Secure,
		SameSite: "Lax",
		MaxAge:   maxAge,
	})
}

func (h *GoogleOAuthHandler) GoogleStart(c *fiber.Ctx) error {
	next := c.Query("next", "/")
	st := randomState(32)

	h.tempCookie(c, "oauth_state", st, 10*60)
	h.tempCookie(c, "oauth_next", next, 10*60)

	authURL := h.oauthCfg().AuthCodeURL(st, oauth2.AccessTypeOffline)
	return c.Redirect(authURL, http.StatusTemporaryRedirect)
}

type googleUserInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (h *GoogleOAuthHandler) GoogleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")

	if code == "" || state == "" {
		return c.Status(fiber.StatusBadRequest).SendString("Missing code/state")
	}

	stCookie := c.Cookies("oauth_state")
	next := c.Cookies("oauth_next")
	if next == "" || !strings.HasPrefix(next, "/") {
		next = "/"
	}

	if stCookie == "" || stCookie != state {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid state")
	}

	ctx := c.UserContext()
	tok, err := h.oauthCfg().Exchange(ctx, code)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Failed to exchange code")
	}

	gu, err := h.fetchUserInfo(ctx, tok)
	if err != nil {
		logger.Warn("google userinfo failed", "error", err)
		return c.Status(fiber.StatusBadRequest).SendString("Failed to fetch userinfo")
	}

	email := strings.ToLower(strings.TrimSpace(gu.Email))
	if email == "" {
		return c.Status(fiber.StatusBadRequest).SendString("Email not found from Google")
	}

	u, err := h.upsertUser(email, strings.TrimSpace(gu.Name), gu.Picture)
	if err != nil {
		logger.Error("google sign-in: upsert user", "email", email, "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to sign in")
	}

	if !u.IsActive {
		return c.Redirect(h.FrontendBaseURL+"/auth/login?err="+url.QueryEscape("Account is inactive"), http.StatusTemporaryRedirect)
	}

	if err := h.Set(c, u); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to sign jwt")
	}

	h.tempCookie(c, "oauth_state", "", -1)
	h.tempCookie(c, "oauth_next", "", -1)

	return c.Redirect(h.FrontendBaseURL+next, http.StatusTemporaryRedirect)
}

func (h *GoogleOAuthHandler) fetchUserInfo(ctx context.Context, tok *oauth2.Token) (*googleUserInfo, error) {
	resp, err := h.oauthCfg().Client(ctx, tok).Get(googleUserInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var gu googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return nil, err
	}
	return &gu, nil
}

// upsertUser finds the user by email or creates a client account with a
// generated username and an unusable random password.
func (h *GoogleOAuthHandler) upsertUser(email, name, picture string) (*models.User, error) {
	var u models.User
	err := h.DB.Where("email = ?", email).First(&u).Error
	if err == nil {
		if name != "" && u.Name != name {
			if err := h.DB.Model(&u).Update("name", name).Error; err != nil {
				return nil, err
			}
		}
		return &u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	username, err := availableUsername(h.DB, email)
	if err != nil {
		return nil, err
	}
	hashed, err := utils.HashPassword(randomState(24))
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = username
	}

	u = models.User{
		Username: username,
		Name:     name,
		Email:    email,
		Image:    picture,
		Password: hashed,
		Role:     models.RoleClient,
		IsActive: true,
	}
	if err := h.DB.Create(&u).Error; err != nil {
		return nil, err
	}
	logger.Info("user registered via google", "user_id", u.ID, "username", u.Username)
	return &u, nil
}

var nonUsernameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// usernameBase derives a username stem from the local part of an email.
func usernameBase(email string) string {
	local, _, _ := strings.Cut(email, "@")
	base := nonUsernameChars.ReplaceAllString(local, "")
	if len(base) < 3 {
		base = "user" + base
	}
	if len(base) > 24 {
		base = base[:24]
	}
	return base
}

func availableUsername(gdb *gorm.DB, email string) (string, error) {
	base := usernameBase(email)
	candidate := base
	for i := 0; i < 5; i++ {
		var n int64
		if err := gdb.Model(&models.User{}).Where("username = ?", candidate).Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%s", base, strings.ToLower(randomState(4))[:6])
	}
	return "", errors.New("could not allocate a username")
}
