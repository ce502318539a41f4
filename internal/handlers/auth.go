package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperrors"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/logger"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/services/access"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/utils"
	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/validator"
)

// Session issues and clears the JWT cookie.
type Session struct {
	JWTSecret string
	Expires   int
	Secure    bool
}

type AuthHandler struct {
	DB *gorm.DB
	Session
}

type RegisterReq struct {
	Name     string `json:"name" validate:"required,max=120"`
	Username string `json:"username" validate:"required,min=3,max=32,username"`
	Email    string `json:"email" validate:"required,email,max=150"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterReq
	if err := parseBody(c, &req); err != nil {
		return apperrors.Respond(c, err)
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := validator.Struct(req); err != nil {
		return apperrors.Respond(c, validator.AsAppError(err))
	}

	// --- uniqueness
	fields := map[string]string{}
	var n int64
	if err := h.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&n).Error; err != nil {
		return apperrors.Respond(c, err)
	}
	if n > 0 {
		fields["email"] = "Email is already registered"
	}
	if err := h.DB.Model(&models.User{}).Where("username = ?", req.Username).Count(&n).Error; err != nil {
		return apperrors.Respond(c, err)
	}
	if n > 0 {
		fields["username"] = "Username is already taken"
	}
	if len(fields) > 0 {
		return apperrors.Respond(c, apperrors.Validation(fields))
	}

	pw, err := utils.HashPassword(req.Password)
	if err != nil {
		return apperrors.Respond(c, apperrors.Internal(err))
	}

	u := models.User{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: pw,
		Role:     models.RoleClient, // freelancer role comes with the first profile submission
		IsActive: true,
	}
	if err := h.DB.Create(&u).Error; err != nil {
		return apperrors.Respond(c, err)
	}

	if err := h.Set(c, &u); err != nil {
		return apperrors.Respond(c, err)
	}

	logger.Info("user registered", "user_id", u.ID, "username", u.Username)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Register success",
		"data":    fiber.Map{"user": userSummary(&u)},
	})
}

type LoginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := parseBody(c, &req); err != nil {
		return apperrors.Respond(c, err)
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := validator.Struct(req); err != nil {
		return apperrors.Respond(c, validator.AsAppError(err))
	}

	var u models.User
	err := h.DB.Where("email = ?", req.Email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.Respond(c, apperrors.Unauthorized("Invalid email or password"))
	}
	if err != nil {
		return apperrors.Respond(c, err)
	}

	if !utils.CheckPassword(u.Password, req.Password) {
		return apperrors.Respond(c, apperrors.Unauthorized("Invalid email or password"))
	}
	if !u.IsActive {
		return apperrors.Respond(c, apperrors.Forbidden("Account is inactive"))
	}

	if err := h.Set(c, &u); err != nil {
		return apperrors.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login success",
		"data":    fiber.Map{"user": userSummary(&u)},
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.Clear(c)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logout success",
	})
}

// Set signs a token for u and stores it in the session cookie.
func (s Session) Set(c *fiber.Ctx, u *models.User) error {
	token, err := utils.SignJWT(s.JWTSecret, u.ID.String(), string(u.Role), s.Expires)
	if err != nil {
		return apperrors.Internal(err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     utils.CookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: "Lax",
		MaxAge:   s.Expires * 60,
	})
	return nil
}

// Refresh re-issues the cookie when the stored role no longer matches the
// token, e.g. after a client becomes a freelancer.
func (s Session) Refresh(c *fiber.Ctx, gdb *gorm.DB, actor access.Actor) error {
	var u models.User
	if err := gdb.WithContext(c.UserContext()).First(&u, "id = ?", actor.UserID).Error; err != nil {
		return err
	}
	if u.Role == actor.Role {
		return nil
	}
	return s.Set(c, &u)
}

func (s Session) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     utils.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: "Lax",
	})
}

func userSummary(u *models.User) fiber.Map {
	return fiber.Map{
		"id":               u.ID,
		"username":         u.Username,
		"name":             u.Name,
		"email":            u.Email,
		"image":            u.Image,
		"role":             u.Role,
		"suspension_count": u.SuspensionCount,
	}
}
