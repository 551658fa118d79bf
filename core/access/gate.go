package access

// Outcome is the gate's verdict for one navigation.
type Outcome int

const (
	Render Outcome = iota
	RedirectToLogin
	RedirectToForbidden
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case RedirectToLogin:
		return "redirect_to_login"
	case RedirectToForbidden:
		return "redirect_to_forbidden"
	}
	return "unknown"
}

// Decision carries the verdict plus, on Render, the resolved view
// (which may differ from the requested one when landing at the root).
type Decision struct {
	Outcome Outcome
	View    View
}

// SessionSource reports the currently authenticated role, if any.
// *session.Store satisfies it.
type SessionSource interface {
	CurrentRole() (Role, bool)
}

// Gate decides render/redirect outcomes from the current session and the
// static access policy. Decisions are pure functions of (role, view) and
// are re-evaluated on every navigation; nothing is memoized, since the
// session may change between navigations.
type Gate struct {
	policy   *Policy
	sessions SessionSource
}

// NewGate builds a gate over a validated policy. sessions may be nil for
// callers that only evaluate explicit subjects via Evaluate.
func NewGate(policy *Policy, sessions SessionSource) *Gate {
	return &Gate{policy: policy, sessions: sessions}
}

// Evaluate decides whether an authenticated subject with the given role may
// render a view. An unregistered view is a ConfigurationError: every
// reachable view must be in the policy before the first navigation.
func (g *Gate) Evaluate(role Role, view View) (Decision, error) {
	req, ok := g.policy.Requirement(view)
	if !ok {
		return Decision{}, NewConfigurationError("view %q is not registered", view)
	}
	if req.Allows(role) {
		return Decision{Outcome: Render, View: view}, nil
	}
	return Decision{Outcome: RedirectToForbidden, View: view}, nil
}

// Resolve reads the current session and evaluates the requested view.
// An empty view means the application root: it resolves to the role's
// default view. Without a session the decision is RedirectToLogin,
// regardless of the view.
func (g *Gate) Resolve(view View) (Decision, error) {
	var (
		role Role
		ok   bool
	)
	if g.sessions != nil {
		role, ok = g.sessions.CurrentRole()
	}
	if !ok {
		return Decision{Outcome: RedirectToLogin, View: view}, nil
	}
	if view == "" {
		view = g.policy.DefaultView(role)
	}
	return g.Evaluate(role, view)
}

// DefaultView maps a role to its landing view.
func (g *Gate) DefaultView(r Role) View { return g.policy.DefaultView(r) }

// Policy exposes the gate's immutable policy table.
func (g *Gate) Policy() *Policy { return g.policy }
