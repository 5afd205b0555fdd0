package normalize

import (
	"fmt"
	"strings"

	"amber-storefront/internal/domain"
)

// fallbackUserID is assigned when the backend returns a user without an id.
const fallbackUserID = "1"

// AuthPayload is the interesting part of a login or register response
type AuthPayload struct {
	Success    bool
	Token      string
	HasUsuario bool
	UserFound  bool
	User       domain.User
}

// Accepted reports whether the backend signalled success in any of the
// ways it is known to: a success flag, a token, or a usuario object.
func (p AuthPayload) Accepted() bool {
	return p.Success || p.Token != "" || p.HasUsuario
}

// Auth reads a login or register response. The user is looked up under
// usuario, data.usuario and user, falling back to the root object.
// fallbackEmail fills in a missing email.
func Auth(raw []byte, fallbackEmail string) (AuthPayload, error) {
	root, err := Decode(raw)
	if err != nil {
		return AuthPayload{}, err
	}
	m, ok := asObject(root)
	if !ok {
		return AuthPayload{}, fmt.Errorf("%w: auth response is not an object", ErrUnrecognizedShape)
	}

	var payload AuthPayload
	payload.Success, _ = m["success"].(bool)
	if tok, ok := str(m["token"]); ok {
		payload.Token = tok
	} else if tok, ok := str(path(m, "data", "token")); ok {
		payload.Token = tok
	}
	_, payload.HasUsuario = asObject(m["usuario"])

	userObj := m
	for _, keys := range [][]string{{"usuario"}, {"data", "usuario"}, {"user"}} {
		if um, ok := asObject(path(m, keys...)); ok {
			userObj = um
			payload.UserFound = true
			break
		}
	}
	payload.User = user(userObj, fallbackEmail)
	return payload, nil
}

// User extracts the user from a login, register or profile response. The
// root object itself is the last candidate.
func User(raw []byte, fallbackEmail string) (domain.User, error) {
	root, err := Decode(raw)
	if err != nil {
		return domain.User{}, err
	}
	for _, keys := range [][]string{{"usuario"}, {"data", "usuario"}, {"user"}, {"data"}, {}} {
		m, ok := asObject(path(root, keys...))
		if !ok {
			continue
		}
		if _, found := firstString(m, "_id", "id", "emailUsr", "email"); found {
			return user(m, fallbackEmail), nil
		}
	}
	return domain.User{}, fmt.Errorf("%w: no user found", ErrUnrecognizedShape)
}

func user(m map[string]any, fallbackEmail string) domain.User {
	email := stringOr(m, fallbackEmail, "emailUsr", "email")

	name, ok := firstString(m, "nombreUsr", "name")
	if !ok {
		name, _, _ = strings.Cut(email, "@")
	}

	role := domain.RoleUser
	if isAdmin(m) {
		role = domain.RoleAdmin
	}

	return domain.User{
		ID:       stringOr(m, fallbackUserID, "id", "_id"),
		Email:    email,
		Name:     name,
		LastName: stringOr(m, "", "apellidoUsr", "lastName"),
		Phone:    stringOr(m, "", "celUsr", "phone"),
		Role:     role,
	}
}

func isAdmin(m map[string]any) bool {
	if b, ok := m["roleUsr"].(bool); ok {
		return b
	}
	for _, k := range []string{"roleUsr", "role"} {
		if s, ok := m[k].(string); ok && strings.EqualFold(s, string(domain.RoleAdmin)) {
			return true
		}
	}
	return false
}
