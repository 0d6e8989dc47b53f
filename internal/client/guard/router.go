package guard

import (
	"context"
	"fmt"
)

const (
	PathLanding        = "/"
	PathSignIn         = "/signin"
	PathSignUp         = "/signup"
	PathForgotPassword = "/forgot-password"
	PathResetPassword  = "/reset-password"
	PathChat           = "/chat"
)

type Route struct {
	Path string
	Mode Mode
}

// maxHops bounds redirects within one Resolve call.
const maxHops = 8

type Router struct {
	guard  *Guard
	routes map[string]Route
}

func NewRouter(g *Guard) *Router {
	r := &Router{guard: g, routes: map[string]Route{}}
	for _, rt := range []Route{
		{PathLanding, Public},
		{PathSignIn, Public},
		{PathSignUp, Public},
		{PathForgotPassword, Public},
		{PathResetPassword, Public},
		{PathChat, Private},
	} {
		r.routes[rt.Path] = rt
	}
	return r
}

// Lookup returns the route for path. Unknown paths map to the landing page.
func (r *Router) Lookup(path string) Route {
	if rt, ok := r.routes[path]; ok {
		return rt
	}
	return r.routes[PathLanding]
}

// Resolve follows guard decisions from path until a route may be rendered.
func (r *Router) Resolve(ctx context.Context, path string) (Route, error) {
	rt := r.Lookup(path)
	for i := 0; i < maxHops; i++ {
		switch r.guard.Check(ctx, rt.Mode) {
		case OK:
			return rt, nil
		case Redirect:
			rt = r.Lookup(PathChat)
		default:
			rt = r.Lookup(PathLanding)
		}
	}
	return Route{}, fmt.Errorf("too many redirects resolving %q", path)
}
