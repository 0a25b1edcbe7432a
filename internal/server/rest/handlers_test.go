package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"github.com/dmitrijs2005/usersvc/internal/logging"
	"github.com/dmitrijs2005/usersvc/internal/server/models"
	"github.com/dmitrijs2005/usersvc/internal/server/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type fakeUsers struct {
	listOut []*models.User
	listErr error

	getOut *models.User
	getErr error
	gotID  int64

	searchOut  []*models.User
	searchErr  error
	searchedBy string

	createErr  error
	createdArg [3]string

	updateErr  error
	updatedArg struct {
		id          int64
		name, email string
	}

	deleteErr error
	deletedID int64

	loginErr error

	calls int
}

func (f *fakeUsers) List(context.Context) ([]*models.User, error) {
	f.calls++
	return f.listOut, f.listErr
}

func (f *fakeUsers) Get(_ context.Context, id int64) (*models.User, error) {
	f.calls++
	f.gotID = id
	return f.getOut, f.getErr
}

func (f *fakeUsers) Search(_ context.Context, name string) ([]*models.User, error) {
	f.calls++
	f.searchedBy = name
	return f.searchOut, f.searchErr
}

func (f *fakeUsers) Create(_ context.Context, name, email, password string) (*models.User, error) {
	f.calls++
	f.createdArg = [3]string{name, email, password}
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.User{ID: 1, Name: name, Email: email}, nil
}

func (f *fakeUsers) Update(_ context.Context, id int64, name, email string) error {
	f.calls++
	f.updatedArg.id, f.updatedArg.name, f.updatedArg.email = id, name, email
	return f.updateErr
}

func (f *fakeUsers) Delete(_ context.Context, id int64) error {
	f.calls++
	f.deletedID = id
	return f.deleteErr
}

func (f *fakeUsers) Login(context.Context, string, string) (*models.User, error) {
	f.calls++
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &models.User{ID: 1}, nil
}

// ---- helpers ----

func newTestServer(us userService) *HTTPServer {
	return NewHTTPServer("127.0.0.1:0", logging.Nop(), us, time.Second)
}

func do(t *testing.T, s *HTTPServer, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json"),
		"content type %q", rec.Header().Get("Content-Type"))
	return rec
}

// ---- tests ----

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(&fakeUsers{}), http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListUsers(t *testing.T) {
	t.Run("empty is an array", func(t *testing.T) {
		rec := do(t, newTestServer(&fakeUsers{listOut: []*models.User{}}), http.MethodGet, "/users", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("hash never leaves", func(t *testing.T) {
		f := &fakeUsers{listOut: []*models.User{
			{ID: 1, Name: "Alice", Email: "a@x.com", PasswordHash: "$2a$secret"},
			{ID: 2, Name: "Bob", Email: "b@x.com"},
		}}
		rec := do(t, newTestServer(f), http.MethodGet, "/users", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[{"id":1,"name":"Alice","email":"a@x.com"},{"id":2,"name":"Bob","email":"b@x.com"}]`, rec.Body.String())
		assert.NotContains(t, rec.Body.String(), "secret")
	})

	t.Run("store failure", func(t *testing.T) {
		rec := do(t, newTestServer(&fakeUsers{listErr: errBoom{}}), http.MethodGet, "/users", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
	})
}

func TestGetUser(t *testing.T) {
	f := &fakeUsers{getOut: &models.User{ID: 7, Name: "Alice", Email: "a@x.com", PasswordHash: "h"}}
	rec := do(t, newTestServer(f), http.MethodGet, "/user/7", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":7,"name":"Alice","email":"a@x.com"}`, rec.Body.String())
	assert.Equal(t, int64(7), f.gotID)

	rec = do(t, newTestServer(&fakeUsers{getErr: common.ErrorNotFound}), http.MethodGet, "/user/8", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"User not found"}`, rec.Body.String())
}

func TestUserRoutes_RejectNonPositiveIDs(t *testing.T) {
	for _, id := range []string{"abc", "0", "-1", "1.5", "99999999999999999999"} {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			f := &fakeUsers{}
			rec := do(t, newTestServer(f), method, "/user/"+id, `{"name":"A","email":"a@x.com"}`)
			assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", method, id)
			assert.JSONEq(t, `{"error":"User not found"}`, rec.Body.String())
			assert.Zero(t, f.calls, "store must not be reached")
		}
	}
}

func TestCreateUser(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		createErr error
		code      int
		want      string
		reached   bool
	}{
		{
			name:    "created",
			body:    `{"name":"Alice","email":"a@x.com","password":"secret"}`,
			code:    http.StatusCreated,
			want:    `{"message":"User created"}`,
			reached: true,
		},
		{
			name: "missing password",
			body: `{"name":"Alice","email":"a@x.com"}`,
			code: http.StatusBadRequest,
			want: `{"error":"Missing required field: password"}`,
		},
		{
			name: "empty name counts as missing",
			body: `{"name":"","email":"a@x.com","password":"p"}`,
			code: http.StatusBadRequest,
			want: `{"error":"Missing required field: name"}`,
		},
		{
			name: "bad email",
			body: `{"name":"Alice","email":"not-an-email","password":"p"}`,
			code: http.StatusBadRequest,
			want: `{"error":"Invalid email format"}`,
		},
		{
			name: "no body",
			body: "",
			code: http.StatusBadRequest,
			want: `{"error":"Request body is required"}`,
		},
		{
			name: "malformed json",
			body: `{"name":`,
			code: http.StatusBadRequest,
			want: `{"error":"Invalid JSON body"}`,
		},
		{
			name: "wrong field type",
			body: `{"name":1,"email":"a@x.com","password":"p"}`,
			code: http.StatusBadRequest,
			want: `{"error":"Invalid JSON body"}`,
		},
		{
			name:      "duplicate email",
			body:      `{"name":"Alice","email":"a@x.com","password":"secret"}`,
			createErr: common.ErrorConflict,
			code:      http.StatusConflict,
			want:      `{"error":"Email already exists"}`,
			reached:   true,
		},
		{
			name:      "password rejected by hasher",
			body:      `{"name":"Alice","email":"a@x.com","password":"secret"}`,
			createErr: validation.NewError("Password is too long"),
			code:      http.StatusBadRequest,
			want:      `{"error":"Password is too long"}`,
			reached:   true,
		},
		{
			name:      "store failure",
			body:      `{"name":"Alice","email":"a@x.com","password":"secret"}`,
			createErr: errBoom{},
			code:      http.StatusInternalServerError,
			want:      `{"error":"Internal server error"}`,
			reached:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeUsers{createErr: tt.createErr}
			rec := do(t, newTestServer(f), http.MethodPost, "/users", tt.body)
			assert.Equal(t, tt.code, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
			assert.Equal(t, tt.reached, f.calls > 0)
		})
	}
}

func TestCreateUser_PassesFields(t *testing.T) {
	f := &fakeUsers{}
	rec := do(t, newTestServer(f), http.MethodPost, "/users", `{"name":"Alice","email":"a@x.com","password":"secret","extra":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, [3]string{"Alice", "a@x.com", "secret"}, f.createdArg)
}

func TestUpdateUser(t *testing.T) {
	t.Run("updated without password", func(t *testing.T) {
		f := &fakeUsers{}
		rec := do(t, newTestServer(f), http.MethodPut, "/user/3", `{"name":"Alicia","email":"alicia@x.com"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"User updated"}`, rec.Body.String())
		assert.Equal(t, int64(3), f.updatedArg.id)
		assert.Equal(t, "Alicia", f.updatedArg.name)
		assert.Equal(t, "alicia@x.com", f.updatedArg.email)
	})

	t.Run("missing id", func(t *testing.T) {
		f := &fakeUsers{updateErr: common.ErrorNotFound}
		rec := do(t, newTestServer(f), http.MethodPut, "/user/3", `{"name":"A","email":"a@x.com"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"User not found"}`, rec.Body.String())
	})

	t.Run("validation before store", func(t *testing.T) {
		f := &fakeUsers{}
		rec := do(t, newTestServer(f), http.MethodPut, "/user/3", `{"name":"A"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Missing required field: email"}`, rec.Body.String())
		assert.Zero(t, f.calls)
	})

	t.Run("no body", func(t *testing.T) {
		rec := do(t, newTestServer(&fakeUsers{}), http.MethodPut, "/user/3", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Request body is required"}`, rec.Body.String())
	})

	t.Run("email collision surfaces as server fault", func(t *testing.T) {
		f := &fakeUsers{updateErr: errBoom{}}
		rec := do(t, newTestServer(f), http.MethodPut, "/user/3", `{"name":"A","email":"a@x.com"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestDeleteUser(t *testing.T) {
	f := &fakeUsers{}
	rec := do(t, newTestServer(f), http.MethodDelete, "/user/5", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"User deleted"}`, rec.Body.String())
	assert.Equal(t, int64(5), f.deletedID)

	rec = do(t, newTestServer(&fakeUsers{deleteErr: errBoom{}}), http.MethodDelete, "/user/5", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSearchUsers(t *testing.T) {
	t.Run("missing name", func(t *testing.T) {
		for _, target := range []string{"/search", "/search?name="} {
			f := &fakeUsers{}
			rec := do(t, newTestServer(f), http.MethodGet, target, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"Missing name parameter"}`, rec.Body.String())
			assert.Zero(t, f.calls)
		}
	})

	t.Run("matches", func(t *testing.T) {
		f := &fakeUsers{searchOut: []*models.User{{ID: 1, Name: "Alice", Email: "a@x.com"}}}
		rec := do(t, newTestServer(f), http.MethodGet, "/search?name=al", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[{"id":1,"name":"Alice","email":"a@x.com"}]`, rec.Body.String())
		assert.Equal(t, "al", f.searchedBy)
	})

	t.Run("no matches", func(t *testing.T) {
		rec := do(t, newTestServer(&fakeUsers{searchOut: []*models.User{}}), http.MethodGet, "/search?name=zz", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		loginErr error
		code     int
		want     string
	}{
		{"ok", `{"email":"a@x.com","password":"secret"}`, nil, http.StatusOK, `{"message":"Login successful"}`},
		{"missing password", `{"email":"a@x.com"}`, nil, http.StatusBadRequest, `{"error":"Email and password required"}`},
		{"empty email", `{"email":"","password":"x"}`, nil, http.StatusBadRequest, `{"error":"Email and password required"}`},
		{"no body", "", nil, http.StatusBadRequest, `{"error":"Request body is required"}`},
		{"bad credentials", `{"email":"a@x.com","password":"wrong"}`, common.ErrorUnauthorized, http.StatusUnauthorized, `{"error":"Invalid credentials"}`},
		{"store failure", `{"email":"a@x.com","password":"x"}`, errBoom{}, http.StatusInternalServerError, `{"error":"Internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer(&fakeUsers{loginErr: tt.loginErr}), http.MethodPost, "/login", tt.body)
			assert.Equal(t, tt.code, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}
