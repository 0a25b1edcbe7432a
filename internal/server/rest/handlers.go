package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"github.com/dmitrijs2005/usersvc/internal/server/validation"
	"github.com/labstack/echo/v4"
)

func (s *HTTPServer) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, statusResponse{Status: "ok"})
}

func (s *HTTPServer) ListUsers(c echo.Context) error {
	users, err := s.users.List(c.Request().Context())
	if err != nil {
		return s.internalError(c, "list users", err)
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

func (s *HTTPServer) GetUser(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: msgUserNotFound})
	}

	user, err := s.users.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: msgUserNotFound})
		}
		return s.internalError(c, "get user", err)
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func (s *HTTPServer) CreateUser(c echo.Context) error {
	var p validation.UserPayload
	if err := decodeBody(c, &p); err != nil {
		return s.badRequest(c, err)
	}
	if err := validation.ValidateUser(p, validation.ModeCreate); err != nil {
		return s.badRequest(c, err)
	}

	_, err := s.users.Create(c.Request().Context(), p.Name, p.Email, p.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorConflict):
			return c.JSON(http.StatusConflict, errorResponse{Error: msgEmailExists})
		case errors.Is(err, common.ErrorValidation):
			return s.badRequest(c, err)
		}
		return s.internalError(c, "create user", err)
	}
	return c.JSON(http.StatusCreated, messageResponse{Message: msgUserCreated})
}

func (s *HTTPServer) UpdateUser(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: msgUserNotFound})
	}

	var p validation.UserPayload
	if err := decodeBody(c, &p); err != nil {
		return s.badRequest(c, err)
	}
	if err := validation.ValidateUser(p, validation.ModeUpdate); err != nil {
		return s.badRequest(c, err)
	}

	if err := s.users.Update(c.Request().Context(), id, p.Name, p.Email); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: msgUserNotFound})
		}
		return s.internalError(c, "update user", err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msgUserUpdated})
}

func (s *HTTPServer) DeleteUser(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, errorResponse{Error: msgUserNotFound})
	}

	if err := s.users.Delete(c.Request().Context(), id); err != nil {
		return s.internalError(c, "delete user", err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msgUserDeleted})
}

func (s *HTTPServer) SearchUsers(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: msgMissingName})
	}

	users, err := s.users.Search(c.Request().Context(), name)
	if err != nil {
		return s.internalError(c, "search users", err)
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

func (s *HTTPServer) Login(c echo.Context) error {
	var p validation.LoginPayload
	if err := decodeBody(c, &p); err != nil {
		return s.badRequest(c, err)
	}
	if err := validation.ValidateLogin(p); err != nil {
		return s.badRequest(c, err)
	}

	if _, err := s.users.Login(c.Request().Context(), p.Email, p.Password); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: msgInvalidCredentials})
		}
		return s.internalError(c, "login", err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msgLoginSuccess})
}

// parseID accepts only positive decimal ids.
func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// badRequest renders a *validation.Error as 400. Anything else is passed to
// echo's error handler.
func (s *HTTPServer) badRequest(c echo.Context, err error) error {
	var ve *validation.Error
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: ve.Reason})
	}
	return err
}

func (s *HTTPServer) internalError(c echo.Context, op string, err error) error {
	s.logger.Error(c.Request().Context(), op+" failed", "error", err)
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: msgInternal})
}
