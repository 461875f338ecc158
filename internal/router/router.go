// Package router decides which view a profile may reach. It is a pure
// function over (profile, path) with no hidden state, so every routing
// property is directly testable.
package router

import (
	"strings"

	"github.com/sekolahapps/kebiasaan/pkg/entity"
)

const (
	PathLogin = "/login"
	PathRoot  = "/"
	PathSiswa = "/siswa"
	PathWali  = "/wali"
	PathAdmin = "/admin"
)

type Decision struct {
	Allow    bool
	Redirect string
}

func allow() Decision {
	return Decision{Allow: true}
}

func redirect(to string) Decision {
	return Decision{Redirect: to}
}

// Home maps a role to its landing path. Unknown or unset roles land on
// the login view: nobody reaches a role home without a recognized role.
func Home(role entity.Role) string {
	switch role {
	case entity.RoleAdmin:
		return PathAdmin
	case entity.RoleWaliKelas:
		return PathWali
	case entity.RoleSiswa:
		return PathSiswa
	}
	return PathLogin
}

// RequiredRole returns the role a path section is reserved for.
func RequiredRole(path string) (entity.Role, bool) {
	switch firstSegment(path) {
	case "siswa":
		return entity.RoleSiswa, true
	case "wali":
		return entity.RoleWaliKelas, true
	case "admin":
		return entity.RoleAdmin, true
	}
	return "", false
}

// Resolve is the whole routing contract:
//   - anonymous visitors may only see the login view;
//   - authenticated visitors are bounced off the login view to their home;
//   - the root path forwards to the role home;
//   - role-reserved sections reject profiles of any other role.
//
// A nil profile stands for "no resolved profile", which includes subjects
// whose credential is valid but whose profile lookup failed.
func Resolve(user *entity.Profile, path string) Decision {
	if user == nil {
		if path == PathLogin {
			return allow()
		}
		return redirect(PathLogin)
	}
	if path == PathLogin || path == PathRoot {
		home := Home(user.Role)
		if home == path {
			// Unknown role already on the login view: show it rather
			// than redirecting to itself.
			return allow()
		}
		return redirect(home)
	}
	if required, ok := RequiredRole(path); ok && user.Role != required {
		return redirect(Home(user.Role))
	}
	return allow()
}

func firstSegment(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}
