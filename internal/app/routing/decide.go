// Package routing decides whether a navigation may proceed given the session state.
package routing

const (
	LoginPath    = "/login"
	RegisterPath = "/register"
	HomePath     = "/trips"
)

// Target is the navigation destination. The zero value requires authentication.
type Target struct {
	Path   string
	Public bool
}

// Decision is either Proceed or a redirect.
type Decision struct {
	// RedirectTo is empty when navigation may proceed.
	RedirectTo string
}

var Proceed = Decision{}

func Redirect(path string) Decision { return Decision{RedirectTo: path} }

func (d Decision) Proceeds() bool { return d.RedirectTo == "" }

func (d Decision) String() string {
	if d.Proceeds() {
		return "proceed"
	}
	return "redirect " + d.RedirectTo
}

// Decide is a pure function of the target and the authentication state.
func Decide(target Target, authenticated bool) Decision {
	if !target.Public && !authenticated {
		return Redirect(LoginPath)
	}
	if authenticated && (target.Path == LoginPath || target.Path == RegisterPath) {
		return Redirect(HomePath)
	}
	return Proceed
}
