package transport

import (
	"io"
	"net/http"
	"testing"

	"amber-storefront/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_LoginAndSession(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/auth/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var state domain.AuthState
	decode(t, w, &state)
	assert.False(t, state.IsAuthenticated)

	w = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "  ANA@example.com ", "password": "secreto1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &state)
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "u1", state.User.ID)
	assert.NotContains(t, w.Body.String(), "jwt-ana", "token stays on the device")
	assert.JSONEq(t, `{"emailUsr":"ana@example.com","contraseña":"secreto1"}`, env.backend.body("POST /usuarios/login"))

	token, err := env.session.Token()
	require.NoError(t, err)
	assert.Equal(t, "jwt-ana", token)
}

func TestAuthHandler_LoginFailures(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "ana", "password": "secreto1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "El email no es válido", errorMessage(t, w))

	w = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "luis@example.com", "password": "secreto1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Credenciales inválidas", errorMessage(t, w))

	env.backend.on("POST /usuarios/login", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"message":"ok"}`)
	})
	w = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "luis@example.com", "password": "secreto1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Correo o contraseña incorrectos.", errorMessage(t, w))

	assert.False(t, env.session.State().IsAuthenticated)
}

func TestAuthHandler_AdminNeverReachesBackend(t *testing.T) {
	env := newTestEnv(t)
	env.backend.on("POST /usuarios/login", func(w http.ResponseWriter, r *http.Request) {
		t.Error("admin login must be resolved locally")
	})

	env.loginAdmin(t)

	w := env.do(t, http.MethodGet, "/api/auth/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var user domain.User
	decode(t, w, &user)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	assert.Equal(t, "admin@gmail.com", user.Email)
}

func TestAuthHandler_Register(t *testing.T) {
	env := newTestEnv(t)
	env.backend.on("POST /usuarios/registrar", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"success":true,"usuario":{"_id":"u9","emailUsr":"luis@example.com","roleUsr":true}}`)
	})

	form := map[string]string{
		"name":            "Luis",
		"lastName":        "Quispe",
		"phone":           "712 345 6789",
		"email":           "Luis@Example.com",
		"password":        "secreto1",
		"confirmPassword": "secreto1",
	}
	w := env.do(t, http.MethodPost, "/api/auth/register", form)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var state domain.AuthState
	decode(t, w, &state)
	assert.Equal(t, "u9", state.User.ID)
	assert.Equal(t, domain.RoleUser, state.User.Role, "registration never grants admin")
	assert.Contains(t, env.backend.body("POST /usuarios/registrar"), `"celUsr":"7123456789"`)

	form["confirmPassword"] = "otra"
	w = env.do(t, http.MethodPost, "/api/auth/register", form)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Las contraseñas no coinciden", errorMessage(t, w))
}

func TestAuthHandler_LogoutAndProfileGuard(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/auth/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	env.loginCustomer(t)
	env.backend.on("GET /usuarios/perfil", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer jwt-ana", r.Header.Get("Authorization"))
		io.WriteString(w, `{"success":true,"data":{"_id":"u1","emailUsr":"ana@example.com","nombreUsr":"Ana"}}`)
	})

	w = env.do(t, http.MethodGet, "/api/auth/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, env.session.State().IsAuthenticated)

	w = env.do(t, http.MethodGet, "/api/auth/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
