package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// policies is the static permission matrix for the closed role set. Tenancy
// checks happen in the services; casbin only answers "may this role perform
// this action on this resource".
var policies = [][]string{
	{string(RoleUser), "session", "read"},
	{string(RoleUser), "attendance", "scan"},

	{string(RoleAdmin), "session", "create"},
	{string(RoleAdmin), "session", "update"},
	{string(RoleAdmin), "session", "delete"},
	{string(RoleAdmin), "attendance", "read"},
	{string(RoleAdmin), "attendance", "write"},
	{string(RoleAdmin), "user", "read"},
	{string(RoleAdmin), "user", "manage"},
	{string(RoleAdmin), "organization", "read"},
	{string(RoleAdmin), "organization", "update"},
	{string(RoleAdmin), "report", "read"},
	{string(RoleAdmin), "invitation", "send"},

	{string(RoleSuperadmin), "organization", "manage"},
	{string(RoleSuperadmin), "orgrequest", "manage"},
	{string(RoleSuperadmin), "orgrequest", "read"},
	{string(RoleSuperadmin), "user", "read_all"},
}

// groupings give role inheritance: admin covers user, superadmin covers admin.
var groupings = [][]string{
	{string(RoleAdmin), string(RoleUser)},
	{string(RoleSuperadmin), string(RoleAdmin)},
}

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(role Role, resource, action string) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
}

func NewService() (Service, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	for _, g := range groupings {
		if _, err := enforcer.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}

	return &service{enforcer: enforcer}, nil
}

func (s *service) Enforce(role Role, resource, action string) (bool, error) {
	return s.enforcer.Enforce(string(role), resource, action)
}
