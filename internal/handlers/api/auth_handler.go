package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/khanghh/kattend/internal/auth"
	"github.com/khanghh/kattend/internal/clientinfo"
	"github.com/khanghh/kattend/internal/middlewares/authgate"
	"github.com/khanghh/kattend/internal/users"
	"github.com/khanghh/kattend/model"
)

type AuthHandler struct {
	authService AuthService
	userService UserService
}

type registerRequest struct {
	Name       string     `json:"name" validate:"required,max=128"`
	Email      string     `json:"email" validate:"required,email,max=256"`
	Password   string     `json:"password" validate:"required,min=6,max=72"`
	Department string     `json:"department" validate:"max=64"`
	Role       model.Role `json:"role" validate:"omitempty,oneof=employee manager"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileRequest struct {
	Name   *string `json:"name" validate:"omitempty,max=128"`
	Phone  *string `json:"phone" validate:"omitempty,max=32"`
	Avatar *string `json:"avatar" validate:"omitempty,max=512"`
}

func requestID(ctx *fiber.Ctx) string {
	id, _ := ctx.Locals(requestid.ConfigDefault.ContextKey).(string)
	return id
}

func sendToken(ctx *fiber.Ctx, status int, token string, user *model.User) error {
	return ctx.Status(status).JSON(Response{
		Success: true,
		Token:   token,
		Data:    NewProfile(user),
	})
}

func (h *AuthHandler) PostRegister(ctx *fiber.Ctx) error {
	var req registerRequest
	if ok, err := parseBody(ctx, &req); !ok {
		return err
	}

	token, user, err := h.authService.Register(ctx.Context(), users.CreateUserOptions{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Department: req.Department,
		Role:       req.Role,
	})
	switch {
	case errors.Is(err, users.ErrEmailRegistered):
		return ctx.Status(fiber.StatusBadRequest).JSON(NewErrorResponse(MsgEmailRegistered))
	case errors.Is(err, users.ErrPasswordTooLong):
		return ctx.Status(fiber.StatusBadRequest).JSON(NewErrorResponse(MsgPasswordTooLong))
	case errors.Is(err, users.ErrInvalidRole):
		return ctx.Status(fiber.StatusBadRequest).JSON(NewErrorResponse(MsgInvalidRole))
	case errors.Is(err, auth.ErrMissingField):
		return ctx.Status(fiber.StatusBadRequest).JSON(NewErrorResponse(MsgValidationFailed))
	case err != nil:
		return err
	}
	return sendToken(ctx, fiber.StatusCreated, token, user)
}

func (h *AuthHandler) PostLogin(ctx *fiber.Ctx) error {
	var req loginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(NewErrorResponse(MsgInvalidRequest))
	}

	token, user, err := h.authService.Login(ctx.Context(), auth.LoginRequest{
		Email:     req.Email,
		Password:  req.Password,
		Client:    clientinfo.FromFiber(ctx),
		RequestID: requestID(ctx),
	})
	switch {
	case errors.Is(err, auth.ErrMissingField):
		return ctx.Status(fiber.StatusBadRequest).JSON(NewErrorResponse(MsgMissingCredentials))
	case errors.Is(err, users.ErrInvalidCredentials):
		return ctx.Status(fiber.StatusUnauthorized).JSON(NewErrorResponse(MsgInvalidCredentials))
	case err != nil:
		return err
	}
	return sendToken(ctx, fiber.StatusOK, token, user)
}

func (h *AuthHandler) GetMe(ctx *fiber.Ctx) error {
	user := authgate.CurrentUser(ctx)
	return ctx.JSON(NewDataResponse(NewProfile(user)))
}

func (h *AuthHandler) PutProfile(ctx *fiber.Ctx) error {
	var req profileRequest
	if ok, err := parseBody(ctx, &req); !ok {
		return err
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(NewErrorResponse(MsgNameEmpty))
	}

	user := authgate.CurrentUser(ctx)
	updated, err := h.userService.UpdateProfile(ctx.Context(), user.ID, users.UpdateProfileOptions{
		Name:   req.Name,
		Phone:  req.Phone,
		Avatar: req.Avatar,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(NewProfile(updated)))
}

func NewAuthHandler(authService AuthService, userService UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}
