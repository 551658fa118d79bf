package access

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type (
	yamlRequirement struct {
		View  string   `yaml:"view"`
		Roles []string `yaml:"roles"`
	}

	yamlPolicy struct {
		Views    []yamlRequirement `yaml:"views"`
		Defaults map[string]string `yaml:"defaults"`
	}
)

// LoadPolicy reads a policy document and validates it with the same
// strictness as NewPolicy. Role strings are parsed against the closed
// enumeration; anything unknown fails.
func LoadPolicy(r io.Reader) (*Policy, error) {
	var doc yamlPolicy
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding policy document")
	}

	reqs := make([]RouteRequirement, 0, len(doc.Views))
	for _, yr := range doc.Views {
		roles := make([]Role, 0, len(yr.Roles))
		for _, rs := range yr.Roles {
			role, err := ParseRole(rs)
			if err != nil {
				return nil, NewConfigurationError("view %q: %v", yr.View, err)
			}
			roles = append(roles, role)
		}
		reqs = append(reqs, RouteRequirement{View: View(yr.View), AllowedRoles: roles})
	}

	defaults := make(map[Role]View, len(doc.Defaults))
	for rs, vs := range doc.Defaults {
		role, err := ParseRole(rs)
		if err != nil {
			return nil, NewConfigurationError("default: %v", err)
		}
		defaults[role] = View(vs)
	}

	return NewPolicy(reqs, defaults)
}

// LoadPolicyFile reads and validates a policy from a YAML file.
func LoadPolicyFile(path string) (*Policy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening policy file %s", path)
	}
	defer f.Close()
	return LoadPolicy(f)
}
