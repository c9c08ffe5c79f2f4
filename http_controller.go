package useradmin

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-router"
)

// RouteRegistrar captures the router methods used by the controllers.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Patch(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// AuthController handles the credential endpoints
type AuthController struct {
	Logger       Logger
	Auther       Authenticator
	ContextKey   string
	ErrorHandler router.ErrorHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(auther Authenticator, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:       defLogger{},
		Auther:       auther,
		ContextKey:   "current_user",
		ErrorHandler: NewHTTPErrorHandler(nil),
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

func WithAuthLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		c.ErrorHandler = NewHTTPErrorHandler(logger)
		return c
	}
}

func WithAuthContextKey(key string) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.ContextKey = key
		return c
	}
}

// RegisterRoutes mounts the credential endpoints. The change-password route
// requires an authenticated subject; the two others are public.
func (a *AuthController) RegisterRoutes(group RouteRegistrar, protected router.MiddlewareFunc) {
	group.Post("/auth/login", a.Login)
	group.Post("/auth/change-password", a.ChangePassword, protected)
	group.Post("/auth/change-password-with-token/:token", a.ChangePasswordWithToken)
}

// LoginPayload is the login request body
type LoginPayload struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AuthController) Login(ctx router.Context) error {
	payload := new(LoginPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: %v", err)
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	token, err := a.Auther.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// ChangePasswordPayload rotates the password of the authenticated subject
type ChangePasswordPayload struct {
	OldPassword string `form:"old_password" json:"old_password"`
	NewPassword string `form:"new_password" json:"new_password"`
}

// Validate will run validation rules
func (r ChangePasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OldPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(8, 100)),
	)
}

func (a *AuthController) ChangePassword(ctx router.Context) error {
	user, ok := CurrentUser(ctx, a.ContextKey)
	if !ok {
		return a.ErrorHandler(ctx, ErrUnauthenticated)
	}

	payload := new(ChangePasswordPayload)
	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("change password parse payload: %v", err)
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	updated, err := a.Auther.ChangePassword(ctx.Context(), user.ID.String(), payload.OldPassword, payload.NewPassword)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, updated)
}

// ChangePasswordWithTokenPayload finalizes an invitation or reset flow
type ChangePasswordWithTokenPayload struct {
	Password        string `form:"password" json:"password"`
	RetypedPassword string `form:"retyped_password" json:"retyped_password"`
}

// Validate will run validation rules
func (r ChangePasswordWithTokenPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.RetypedPassword, validation.Required),
	)
}

func (a *AuthController) ChangePasswordWithToken(ctx router.Context) error {
	resetToken := ctx.Param("token")

	payload := new(ChangePasswordWithTokenPayload)
	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("change password with token parse payload: %v", err)
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	token, err := a.Auther.ChangePasswordWithResetToken(
		ctx.Context(),
		resetToken,
		payload.Password,
		payload.RetypedPassword,
	)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}
