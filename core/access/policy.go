package access

import (
	"fmt"
	"sort"
)

// View identifies a navigable view (a page or screen of the dashboard).
type View string

// RouteRequirement states which roles may render a given view.
type RouteRequirement struct {
	View         View
	AllowedRoles []Role
}

// Allows reports whether the requirement admits the given role.
func (rr RouteRequirement) Allows(r Role) bool {
	for _, allowed := range rr.AllowedRoles {
		if allowed == r {
			return true
		}
	}
	return false
}

// ConfigurationError reports an invalid access policy: an unregistered view,
// a requirement with no roles, or a role without a default view. It is a
// programmer fault and must abort application bootstrap.
type ConfigurationError struct {
	Detail string
}

func NewConfigurationError(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Detail: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string {
	return "access policy misconfigured: " + e.Detail
}

// Policy is the immutable view -> requirement table plus the total
// role -> default view mapping. Built and validated once at startup;
// never mutated afterwards.
type Policy struct {
	requirements map[View]RouteRequirement
	defaults     map[Role]View
}

// NewPolicy validates and builds a Policy. All misconfigurations are caught
// here, at registration time, never at navigation time:
//   - duplicate view registrations
//   - requirements with an empty or invalid role set
//   - roles missing a default view (the mapping must be total over the enum)
//   - default views pointing at unregistered views, or at views the role
//     itself may not render
func NewPolicy(reqs []RouteRequirement, defaults map[Role]View) (*Policy, error) {
	p := &Policy{
		requirements: make(map[View]RouteRequirement, len(reqs)),
		defaults:     make(map[Role]View, len(defaults)),
	}

	for _, req := range reqs {
		if req.View == "" {
			return nil, NewConfigurationError("requirement with empty view")
		}
		if _, dup := p.requirements[req.View]; dup {
			return nil, NewConfigurationError("view %q registered twice", req.View)
		}
		if len(req.AllowedRoles) == 0 {
			return nil, NewConfigurationError("view %q allows no roles", req.View)
		}
		for _, r := range req.AllowedRoles {
			if !r.Valid() {
				return nil, NewConfigurationError("view %q allows unknown role %q", req.View, r)
			}
		}
		p.requirements[req.View] = req
	}

	for r, v := range defaults {
		if !r.Valid() {
			return nil, NewConfigurationError("default view for unknown role %q", r)
		}
		p.defaults[r] = v
	}
	for _, r := range Roles() {
		v, ok := p.defaults[r]
		if !ok {
			return nil, NewConfigurationError("role %q has no default view", r)
		}
		req, ok := p.requirements[v]
		if !ok {
			return nil, NewConfigurationError("default view %q of role %q is not registered", v, r)
		}
		if !req.Allows(r) {
			return nil, NewConfigurationError("role %q may not render its own default view %q", r, v)
		}
	}

	return p, nil
}

// Requirement looks up the access requirement for a view.
func (p *Policy) Requirement(v View) (RouteRequirement, bool) {
	req, ok := p.requirements[v]
	return req, ok
}

// DefaultView maps a role to its landing view. Total over the role
// enumeration for any Policy built by NewPolicy.
func (p *Policy) DefaultView(r Role) View { return p.defaults[r] }

// Views lists all registered views, sorted.
func (p *Policy) Views() []View {
	views := make([]View, 0, len(p.requirements))
	for v := range p.requirements {
		views = append(views, v)
	}
	sort.Slice(views, func(i, j int) bool { return views[i] < views[j] })
	return views
}
