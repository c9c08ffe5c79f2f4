package useradmin

import (
	"context"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UsersController exposes the user administration endpoints. Every route
// requires an authenticated subject; per-route capability checks decide
// whether the subject can act on any user or only on itself.
type UsersController struct {
	Logger       Logger
	Repo         RepositoryManager
	Creator      *CreateUserHandler
	ContextKey   string
	ErrorHandler router.ErrorHandler
}

type UsersControllerOption func(*UsersController) *UsersController

func NewUsersController(repo RepositoryManager, creator *CreateUserHandler, opts ...UsersControllerOption) *UsersController {
	c := &UsersController{
		Logger:       defLogger{},
		Repo:         repo,
		Creator:      creator,
		ContextKey:   "current_user",
		ErrorHandler: NewHTTPErrorHandler(nil),
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in users controller...")
	}

	if c.Creator == nil {
		panic("Missing CreateUserHandler in users controller...")
	}

	return c
}

func WithUsersLogger(logger Logger) UsersControllerOption {
	return func(c *UsersController) *UsersController {
		c.Logger = logger
		c.ErrorHandler = NewHTTPErrorHandler(logger)
		return c
	}
}

func WithUsersContextKey(key string) UsersControllerOption {
	return func(c *UsersController) *UsersController {
		c.ContextKey = key
		return c
	}
}

// RegisterRoutes mounts the admin endpoints behind the given middleware.
// The /users/me pair must be registered before /users/:id so the literal
// segment wins over the parameter.
func (a *UsersController) RegisterRoutes(group RouteRegistrar, protected router.MiddlewareFunc) {
	group.Get("/users", a.List, protected)
	group.Post("/users", a.Create, protected)
	group.Get("/users/me", a.Me, protected)
	group.Patch("/users/me", a.UpdateMe, protected)
	group.Get("/users/:id", a.Show, protected)
	group.Patch("/users/:id", a.Update, protected)
	group.Delete("/users/:id", a.Delete, protected)
	group.Get("/roles", a.ListRoles, protected)
}

func (a *UsersController) List(ctx router.Context) error {
	actor, ok := CurrentUser(ctx, a.ContextKey)
	if !ok {
		return a.ErrorHandler(ctx, ErrUnauthenticated)
	}

	params := ListUsersParams{
		Skip:      queryInt(ctx, "skip", 0),
		Limit:     queryInt(ctx, "limit", 10),
		Search:    ctx.Query("search"),
		SortBy:    ctx.Query("sort_by", "created_at"),
		SortOrder: ctx.Query("sort_order", "desc"),
	}

	switch {
	case HasPermission(actor, CapabilityViewUsers):
	case HasPermission(actor, CapabilityViewOwnUsers):
		id := actor.ID
		params.ScopeUserID = &id
	default:
		return a.ErrorHandler(ctx, ErrPermissionDenied)
	}

	records, total, err := a.Repo.Users().List(ctx.Context(), params)
	if err != nil {
		a.Logger.Error("list users: %v", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"data":  records,
		"total": total,
		"limit": params.Limit,
		"skip":  params.Skip,
	})
}

// CreateUserPayload is the provisioning request body
type CreateUserPayload struct {
	Email    string `form:"email" json:"email"`
	Fullname string `form:"fullname" json:"fullname"`
	RoleID   string `form:"role_id" json:"role_id"`
	Status   string `form:"status" json:"status"`
}

// Validate will run validation rules
func (r CreateUserPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Fullname, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.RoleID, validation.Required, is.UUIDv4),
		validation.Field(&r.Status, validation.In(
			UserStatusActive,
			UserStatusPending,
			UserStatusInactive,
		)),
	)
}

func (a *UsersController) Create(ctx router.Context) error {
	actor, ok := CurrentUser(ctx, a.ContextKey)
	if !ok {
		return a.ErrorHandler(ctx, ErrUnauthenticated)
	}

	if !HasPermission(actor, CapabilityCreateUsers) {
		return a.ErrorHandler(ctx, ErrPermissionDenied)
	}

	payload := new(CreateUserPayload)
	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("create user parse payload: %v", err)
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	roleID, err := uuid.Parse(payload.RoleID)
	if err != nil {
		return a.ErrorHandler(ctx, ErrUnknownRole)
	}

	var res *CreateUserResponse
	msg := CreateUserMessage{
		Email:    payload.Email,
		Fullname: payload.Fullname,
		RoleID:   roleID,
		Status:   payload.Status,
		OnResponse: func(resp *CreateUserResponse) {
			res = resp
		},
	}

	if err := a.Creator.Execute(ctx.Context(), msg); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, res.User)
}

func (a *UsersController) Show(ctx router.Context) error {
	actor, ok := CurrentUser(ctx, a.ContextKey)
	if !ok {
		return a.ErrorHandler(ctx, ErrUnauthenticated)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return a.ErrorHandler(ctx, ErrUserNotFound)
	}

	if !CanActOnUser(actor, CapabilityViewDetails, CapabilityViewOwnDetails, id) {
		return a.ErrorHandler(ctx, ErrPermissionDenied)
	}

	user, err := a.Repo.Users().GetWithRole(ctx.Context(), id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return a.ErrorHandler(ctx, ErrUserNotFound)
		}
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, user)
}

// Me returns the authenticated subject's own record. No capability is
// required beyond authentication.
func (a *UsersController) Me(ctx router.Context) error {
	actor, ok := CurrentUser(ctx, a.ContextKey)
	if !ok {
		return a.ErrorHandler(ctx, ErrUnauthenticated)
	}

	user, err := a.Repo.Users().GetWithRole(ctx.Context(), actor.ID)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return a.ErrorHandler(ctx, ErrUserNotFound)
		}
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, user)
}

// UpdateProfilePayload is the self-service profile update body. Role and
// status stay out of it; those go through the admin update.
type UpdateProfilePayload struct {
	Email    string `form:"email" json:"email"`
	Fullname string `form:"fullname" json:"fullname"`
}

// Validate will run validation rules
func (r UpdateProfilePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Fullname, validation.Length(1, 200)),
	)
}

// UpdateMe lets the authenticated subject edit its own profile fields
func (a *UsersController) UpdateMe(ctx router.Context) error {
	actor, ok := CurrentUser(ctx, a.ContextKey)
	if !ok {
		return a.ErrorHandler(ctx, ErrUnauthenticated)
	}

	payload := new(UpdateProfilePayload)
	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("update profile parse payload: %v", err)
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	user, err := a.Repo.Users().GetWithRole(ctx.Context(), actor.ID)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return a.ErrorHandler(ctx, ErrUserNotFound)
		}
		return a.ErrorHandler(ctx, err)
	}

	if payload.Email != "" && payload.Email != user.Email {
		taken, err := a.Repo.Users().EmailTaken(ctx.Context(), payload.Email, actor.ID)
		if err != nil {
			return a.ErrorHandler(ctx, err)
		}
		if taken {
			return a.ErrorHandler(ctx, ErrEmailTaken)
		}
		user.Email = payload.Email
	}

	if payload.Fullname != "" {
		user.Fullname = payload.Fullname
	}

	err = a.Repo.RunInTx(ctx.Context(), nil, func(c context.Context, tx bun.Tx) error {
		_, err := a.Repo.Users().UpdateTx(c, tx, user, repository.UpdateByID(actor.ID.String()))
		return err
	})
	if err != nil {
		a.Logger.Error("update profile: %v", err)
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryInternal, "could not update profile"))
	}

	updated, err := a.Repo.Users().GetWithRole(ctx.Context(), actor.ID)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, updated)
}

// UpdateUserPayload is the user update request body
type UpdateUserPayload struct {
	Email    string `form:"email" json:"email"`
	Fullname string `form:"fullname" json:"fullname"`
	RoleID   string `form:"role_id" json:"role_id"`
	Status   string `form:"status" json:"status"`
}

// Validate will run validation rules
func (r UpdateUserPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Fullname, validation.Length(1, 200)),
		validation.Field(&r.RoleID, is.UUIDv4),
		validation.Field(&r.Status, validation.In(
			UserStatusActive,
			UserStatusPending,
			UserStatusInactive,
		)),
	)
}

func (a *UsersController) Update(ctx router.Context) error {
	actor, ok := CurrentUser(ctx, a.ContextKey)
	if !ok {
		return a.ErrorHandler(ctx, ErrUnauthenticated)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return a.ErrorHandler(ctx, ErrUserNotFound)
	}

	if !CanActOnUser(actor, CapabilityEditUsers, CapabilityEditOwnUsers, id) {
		return a.ErrorHandler(ctx, ErrPermissionDenied)
	}

	payload := new(UpdateUserPayload)
	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("update user parse payload: %v", err)
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	user, err := a.Repo.Users().GetWithRole(ctx.Context(), id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return a.ErrorHandler(ctx, ErrUserNotFound)
		}
		return a.ErrorHandler(ctx, err)
	}

	if payload.Email != "" && payload.Email != user.Email {
		taken, err := a.Repo.Users().EmailTaken(ctx.Context(), payload.Email, id)
		if err != nil {
			return a.ErrorHandler(ctx, err)
		}
		if taken {
			return a.ErrorHandler(ctx, ErrEmailTaken)
		}
		user.Email = payload.Email
	}

	if payload.Fullname != "" {
		user.Fullname = payload.Fullname
	}

	if payload.Status != "" {
		user.Status = payload.Status
	}

	if payload.RoleID != "" {
		roleID, err := uuid.Parse(payload.RoleID)
		if err != nil {
			return a.ErrorHandler(ctx, ErrUnknownRole)
		}
		exists, err := a.Repo.Roles().Exists(ctx.Context(), roleID)
		if err != nil {
			return a.ErrorHandler(ctx, err)
		}
		if !exists {
			return a.ErrorHandler(ctx, ErrUnknownRole)
		}
		user.RoleID = roleID
	}

	err = a.Repo.RunInTx(ctx.Context(), nil, func(c context.Context, tx bun.Tx) error {
		_, err := a.Repo.Users().UpdateTx(c, tx, user, repository.UpdateByID(id.String()))
		return err
	})
	if err != nil {
		a.Logger.Error("update user: %v", err)
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryInternal, "could not update user"))
	}

	updated, err := a.Repo.Users().GetWithRole(ctx.Context(), id)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, updated)
}

func (a *UsersController) Delete(ctx router.Context) error {
	actor, ok := CurrentUser(ctx, a.ContextKey)
	if !ok {
		return a.ErrorHandler(ctx, ErrUnauthenticated)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return a.ErrorHandler(ctx, ErrUserNotFound)
	}

	if !CanActOnUser(actor, CapabilityDeleteUsers, CapabilityDeleteOwnUsers, id) {
		return a.ErrorHandler(ctx, ErrPermissionDenied)
	}

	if _, err := a.Repo.Users().GetByID(ctx.Context(), id.String()); err != nil {
		if repository.IsRecordNotFound(err) {
			return a.ErrorHandler(ctx, ErrUserNotFound)
		}
		return a.ErrorHandler(ctx, err)
	}

	err = a.Repo.RunInTx(ctx.Context(), nil, func(c context.Context, tx bun.Tx) error {
		return a.Repo.Users().DeleteByIDTx(c, tx, id)
	})
	if err != nil {
		a.Logger.Error("delete user: %v", err)
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryInternal, "could not delete user"))
	}

	return ctx.Status(http.StatusNoContent).SendString("")
}

// RoleSummary is the listing shape for roles: the assignable id and title,
// without the permission set.
type RoleSummary struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

// ListRoles returns the assignable roles. Any authenticated subject may
// call it, clients need the list to render role pickers.
func (a *UsersController) ListRoles(ctx router.Context) error {
	if _, ok := CurrentUser(ctx, a.ContextKey); !ok {
		return a.ErrorHandler(ctx, ErrUnauthenticated)
	}

	records, err := a.Repo.Roles().List(ctx.Context())
	if err != nil {
		a.Logger.Error("list roles: %v", err)
		return a.ErrorHandler(ctx, err)
	}

	summaries := make([]RoleSummary, 0, len(records))
	for _, r := range records {
		summaries = append(summaries, RoleSummary{ID: r.ID, Title: r.Title})
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"data": summaries,
	})
}

func queryInt(ctx router.Context, name string, def int) int {
	raw := ctx.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
