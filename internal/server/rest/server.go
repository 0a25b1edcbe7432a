// Package rest exposes UserService over HTTP/JSON using echo.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/usersvc/internal/logging"
	"github.com/dmitrijs2005/usersvc/internal/server/models"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// MaxBodySize caps request bodies; larger ones get 413.
const MaxBodySize = "1M"

type userService interface {
	List(ctx context.Context) ([]*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Search(ctx context.Context, namePart string) ([]*models.User, error)
	Create(ctx context.Context, name, email, password string) (*models.User, error)
	Update(ctx context.Context, id int64, name, email string) error
	Delete(ctx context.Context, id int64) error
	Login(ctx context.Context, email, password string) (*models.User, error)
}

type HTTPServer struct {
	address         string
	users           userService
	logger          logging.Logger
	shutdownTimeout time.Duration
	echo            *echo.Echo
}

func NewHTTPServer(a string, l logging.Logger, us userService, shutdownTimeout time.Duration) *HTTPServer {
	s := &HTTPServer{
		address:         a,
		users:           us,
		logger:          l.With("module", "http_server"),
		shutdownTimeout: shutdownTimeout,
	}
	s.echo = s.newEcho()
	return s
}

// Handler returns the routed echo instance.
func (s *HTTPServer) Handler() http.Handler { return s.echo }

func (s *HTTPServer) newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(s.requestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(MaxBodySize))

	e.GET("/", s.Health)
	e.GET("/users", s.ListUsers)
	e.POST("/users", s.CreateUser)
	e.GET("/user/:id", s.GetUser)
	e.PUT("/user/:id", s.UpdateUser)
	e.DELETE("/user/:id", s.DeleteUser)
	e.GET("/search", s.SearchUsers)
	e.POST("/login", s.Login)

	return e
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most the shutdown timeout.
func (s *HTTPServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.echo,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		sctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(sctx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-shutdownErr
}

// errorHandler renders every error that reaches echo as {"error": ...}.
func (s *HTTPServer) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := msgInternal

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	} else {
		s.logger.Error(c.Request().Context(), "unhandled error", "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, errorResponse{Error: msg})
	}
	if err != nil {
		s.logger.Error(c.Request().Context(), "write error response", "error", err)
	}
}
