// Package controllers holds the HTTP handlers. Controllers receive
// their stores and collaborators through the constructor and stay free
// of persistence details.
package controllers

import (
	"github.com/shashiranjanraj/vampware/app/models"
	"github.com/shashiranjanraj/vampware/app/store"
	"github.com/shashiranjanraj/vampware/pkg/apperr"
	"github.com/shashiranjanraj/vampware/pkg/auth"
	"github.com/shashiranjanraj/vampware/pkg/ctx"
	"github.com/shashiranjanraj/vampware/pkg/logger"
	"github.com/shashiranjanraj/vampware/pkg/middleware"
)

// RegisterInput is the signup payload.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Address  string `json:"address" validate:"max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

// LoginInput is the credential payload. Missing fields are a plain
// bad request, not a validation failure.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserInput carries a partial user update. Nil means the field
// was not supplied.
type UpdateUserInput struct {
	Name     *string `json:"name" validate:"min=2,max=50"`
	Address  *string `json:"address" validate:"max=100"`
	Email    *string `json:"email" validate:"email,max=100"`
	Password *string `json:"password" validate:"min=6,max=100"`
}

// LoginResponse mirrors what API clients expect from /login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	UserID      uint   `json:"user_id"`
	Name        string `json:"name"`
}

// UserController handles registration, login, and user CRUD.
type UserController struct {
	users  *store.UserStore
	tokens *auth.Manager
}

func NewUserController(users *store.UserStore, tokens *auth.Manager) *UserController {
	return &UserController{users: users, tokens: tokens}
}

// Register creates an account with a bcrypt-hashed password.
func (uc *UserController) Register(c *ctx.Context) {
	var in RegisterInput
	if !c.BindJSON(&in) {
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		c.Fail(apperr.Internal(err))
		return
	}

	user := models.User{Name: in.Name, Address: in.Address, Email: in.Email, Password: hash}
	if err := uc.users.Create(c.Context(), &user); err != nil {
		c.Fail(err)
		return
	}

	logger.WithCtx(c.Context()).Info("user registered", "user_id", user.ID)
	c.Created(map[string]any{
		"message": "User registered successfully",
		"user_id": user.ID,
	})
}

// Login checks credentials and issues a bearer token. Unknown email and
// wrong password produce the same response, so the endpoint does not
// reveal which emails are registered.
func (uc *UserController) Login(c *ctx.Context) {
	var in LoginInput
	if !c.BindJSON(&in) {
		return
	}
	if in.Email == "" || in.Password == "" {
		c.Fail(apperr.BadRequest("Email and password are required"))
		return
	}

	user, err := uc.users.GetByEmail(c.Context(), in.Email)
	if err != nil {
		c.Fail(apperr.Unauthorized("invalid email or password"))
		return
	}
	if !auth.CheckPassword(user.Password, in.Password) {
		c.Fail(apperr.Unauthorized("invalid email or password"))
		return
	}

	token, err := uc.tokens.GenerateToken(user.ID)
	if err != nil {
		c.Fail(apperr.Internal(err))
		return
	}

	logger.WithCtx(c.Context()).Info("user logged in", "user_id", user.ID)
	c.Success(LoginResponse{AccessToken: token, UserID: user.ID, Name: user.Name})
}

// Me returns the authenticated user.
func (uc *UserController) Me(c *ctx.Context) {
	userID, ok := middleware.UserID(c.Context())
	if !ok {
		c.Fail(apperr.Unauthorized("authentication required"))
		return
	}

	user, err := uc.users.Get(c.Context(), userID)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(user)
}

// Index lists all users.
func (uc *UserController) Index(c *ctx.Context) {
	users, err := uc.users.List(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(users)
}

// Show returns one user by id.
func (uc *UserController) Show(c *ctx.Context) {
	id, err := c.ParamUint("id")
	if err != nil {
		c.Fail(err)
		return
	}

	user, err := uc.users.Get(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(user)
}

// Update applies a partial update to the caller's own account.
func (uc *UserController) Update(c *ctx.Context) {
	id, err := c.ParamUint("id")
	if err != nil {
		c.Fail(err)
		return
	}
	if !uc.authorizeOwner(c, id) {
		return
	}

	var in UpdateUserInput
	if !c.BindJSON(&in) {
		return
	}

	user, err := uc.users.Get(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Address != nil {
		user.Address = *in.Address
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			c.Fail(apperr.Internal(err))
			return
		}
		user.Password = hash
	}

	if err := uc.users.Update(c.Context(), user); err != nil {
		c.Fail(err)
		return
	}
	c.Success(user)
}

// Delete removes the caller's own account. Accounts with orders are
// protected.
func (uc *UserController) Delete(c *ctx.Context) {
	id, err := c.ParamUint("id")
	if err != nil {
		c.Fail(err)
		return
	}
	if !uc.authorizeOwner(c, id) {
		return
	}

	if err := uc.users.Delete(c.Context(), id); err != nil {
		c.Fail(err)
		return
	}

	logger.WithCtx(c.Context()).Info("user deleted", "user_id", id)
	c.Message("User deleted successfully")
}

// Stats returns the order count and lifetime spend for one user.
func (uc *UserController) Stats(c *ctx.Context) {
	id, err := c.ParamUint("id")
	if err != nil {
		c.Fail(err)
		return
	}

	stats, err := uc.users.Stats(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(stats)
}

// authorizeOwner fails the request unless the authenticated user is the
// one addressed by the route.
func (uc *UserController) authorizeOwner(c *ctx.Context, id uint) bool {
	userID, ok := middleware.UserID(c.Context())
	if !ok {
		c.Fail(apperr.Unauthorized("authentication required"))
		return false
	}
	if userID != id {
		c.Fail(apperr.Forbidden("you can only modify your own account"))
		return false
	}
	return true
}
