package auth

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// PermissionChecker decides whether a role holds a permission on a
// resource.
type PermissionChecker interface {
	CheckPermission(ctx context.Context, roleID int, permission, resource string) bool
}

// AllowAll grants every permission. It only logs what was asked.
type AllowAll struct {
	Logger *zap.Logger
}

func (a AllowAll) CheckPermission(_ context.Context, roleID int, permission, resource string) bool {
	if a.Logger != nil {
		a.Logger.Debug("checkPermission",
			zap.Int("role_id", roleID),
			zap.String("permission", permission),
			zap.String("resource", resource))
	}
	return true
}

// RolePolicy is a static role → resource → permissions table, usually
// loaded from YAML:
//
//	roles:
//	  1:
//	    author: [read]
//	    book: [read, add]
//	  2:
//	    "*": ["*"]
//
// "*" matches any resource or any permission. Unknown roles hold nothing.
type RolePolicy struct {
	Roles map[int]map[string][]string `yaml:"roles"`
}

// ParseRolePolicy decodes a YAML role table.
func ParseRolePolicy(raw []byte) (*RolePolicy, error) {
	var p RolePolicy
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, errors.Wrap(err, "decode role policy")
	}
	normalized := make(map[int]map[string][]string, len(p.Roles))
	for role, resources := range p.Roles {
		normalized[role] = make(map[string][]string, len(resources))
		for resource, perms := range resources {
			lower := make([]string, len(perms))
			for i, perm := range perms {
				lower[i] = strings.ToLower(strings.TrimSpace(perm))
			}
			normalized[role][strings.ToLower(strings.TrimSpace(resource))] = lower
		}
	}
	p.Roles = normalized
	return &p, nil
}

// LoadRolePolicy reads and decodes the YAML role table at path.
func LoadRolePolicy(path string) (*RolePolicy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read role policy %s", path)
	}
	return ParseRolePolicy(raw)
}

func (p *RolePolicy) CheckPermission(_ context.Context, roleID int, permission, resource string) bool {
	resources, ok := p.Roles[roleID]
	if !ok {
		return false
	}
	for _, key := range []string{resource, "*"} {
		for _, perm := range resources[key] {
			if perm == permission || perm == "*" {
				return true
			}
		}
	}
	return false
}
