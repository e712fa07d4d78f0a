package authController

import (
	"learnhub/logger"
	"learnhub/middleware"
	"learnhub/services"
	authValidator "learnhub/validators/auth"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	auth *services.AuthService
	log  *logger.Logger
}

func New(auth *services.AuthService, log *logger.Logger) *AuthController {
	return &AuthController{auth: auth, log: log}
}

func (h *AuthController) Register(c *fiber.Ctx) error {
	reqData := c.Locals("validatedUser").(*authValidator.RegisterRequest)

	err := h.auth.Register(c.UserContext(), services.RegisterInput{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Password: reqData.Password,
		Type:     reqData.Type,
	})
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Register Success", nil)
}

func (h *AuthController) Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLogin").(*authValidator.LoginRequest)

	res, err := h.auth.Login(c.UserContext(), reqData.Email, reqData.Password)
	if err != nil {
		return middleware.ErrorResponse(c, h.log, err)
	}
	return middleware.JsonMapResponse(c, fiber.StatusOK, true, "Login success", fiber.Map{
		"token":    res.Token,
		"userData": res.User,
	})
}
