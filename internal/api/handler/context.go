package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookloop/bookloop-api/internal/core/domain"
	"github.com/bookloop/bookloop-api/internal/core/ports"
)

// ctxActor extracts the authenticated actor injected by the Auth middleware
// and performs a fast-fail check before any service call: both the user id
// and the role must be present, otherwise the middleware did not run or the
// token carried an incomplete claim set.
func ctxActor(c echo.Context) (ports.Actor, error) {
	id, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if id == "" || role == "" {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return ports.Actor{ID: id, Role: domain.Role(role)}, nil
}

// ctxIdentity returns the full claim set for endpoints that echo the
// caller's identity back.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	actor, err := ctxActor(c)
	if err != nil {
		return domain.Identity{}, err
	}
	email, _ := c.Get("email").(string)
	name, _ := c.Get("name").(string)
	return domain.Identity{
		ID:    actor.ID,
		Email: email,
		Name:  name,
		Role:  actor.Role,
	}, nil
}
