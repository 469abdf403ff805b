package routing

// SessionState is the part of the session the guard needs.
type SessionState interface {
	IsLoggedIn() bool
}

// Guard is consulted before every navigation.
type Guard struct {
	Table   *Table
	Session SessionState
}

// Check applies the route's redirect, then Decide. Unknown paths require authentication.
func (g Guard) Check(path string) Decision {
	p := CleanPath(path)
	target := Target{Path: p}
	if g.Table != nil {
		if r, _, ok := g.Table.Resolve(p); ok {
			if r.Redirect != "" {
				return Redirect(r.Redirect)
			}
			target.Public = r.Public
		}
	}
	return Decide(target, g.Session.IsLoggedIn())
}
