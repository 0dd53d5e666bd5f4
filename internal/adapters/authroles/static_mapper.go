package authroles

import (
	domainauth "github.com/gestaocx/acesso-api/internal/domain/auth"
)

// StaticRoleMapper maps provider groups to a coarse application role by
// simple string membership rules. Unmatched identities land on Guest,
// which carries no route access.
type StaticRoleMapper struct {
	AdminGroup string
	UserGroup  string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	for _, g := range groups {
		if m.AdminGroup != "" && g == m.AdminGroup {
			return domainauth.RoleAdmin
		}
	}
	for _, g := range groups {
		if m.UserGroup != "" && g == m.UserGroup {
			return domainauth.RoleUser
		}
	}
	return domainauth.RoleGuest
}
