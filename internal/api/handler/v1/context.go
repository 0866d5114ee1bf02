package v1

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/campushub/competition-api/internal/api/handler/v1/response"
)

var errNotAuthenticated = errors.New("request is not authenticated")

// currentUserID reads the authenticated user's id set by the JWT middleware.
func currentUserID(ctx *gin.Context) (uint, *response.Err) {
	raw, exists := ctx.Get("userID")
	if !exists {
		return 0, response.ErrUnauthorized(errNotAuthenticated)
	}

	userID, ok := raw.(uint)
	if !ok || userID == 0 {
		return 0, response.ErrUnauthorized(errNotAuthenticated)
	}

	return userID, nil
}

func currentUserRole(ctx *gin.Context) (string, *response.Err) {
	raw, exists := ctx.Get("userRole")
	if !exists {
		return "", response.ErrUnauthorized(errNotAuthenticated)
	}

	role, ok := raw.(string)
	if !ok || role == "" {
		return "", response.ErrUnauthorized(errNotAuthenticated)
	}

	return role, nil
}
