package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/usersvc/internal/server/models"
	"github.com/dmitrijs2005/usersvc/internal/server/validation"
	"github.com/labstack/echo/v4"
)

const (
	msgUserNotFound       = "User not found"
	msgEmailExists        = "Email already exists"
	msgInvalidCredentials = "Invalid credentials"
	msgMissingName        = "Missing name parameter"
	msgInternal           = "Internal server error"
	msgBodyRequired       = "Request body is required"
	msgInvalidJSON        = "Invalid JSON body"

	msgUserCreated  = "User created"
	msgUserUpdated  = "User updated"
	msgUserDeleted  = "User deleted"
	msgLoginSuccess = "Login successful"
)

type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

func toUserResponses(users []*models.User) []userResponse {
	result := make([]userResponse, 0, len(users))
	for _, u := range users {
		result = append(result, toUserResponse(u))
	}
	return result
}

// decodeBody reads a JSON object into dst. A missing body or malformed JSON
// yields a *validation.Error; an oversized body yields echo's 413.
func decodeBody(c echo.Context, dst any) error {
	body := c.Request().Body
	if body == nil || body == http.NoBody {
		return validation.NewError(msgBodyRequired)
	}

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var he *echo.HTTPError
		switch {
		case errors.As(err, &he):
			return he
		case errors.Is(err, io.EOF):
			return validation.NewError(msgBodyRequired)
		default:
			return validation.NewError(msgInvalidJSON)
		}
	}
	return nil
}
