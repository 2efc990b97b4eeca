package auth

import "github.com/civnet/issue-service/internal/domain"

// Action enumerates every operation gated by the role policy.
type Action string

const (
	ActionCreateIssue     Action = "issue.create"
	ActionReadOwnIssues   Action = "issue.read_own"
	ActionReadAllIssues   Action = "issue.read_all"
	ActionTransitionIssue Action = "issue.transition"
	ActionPostComment     Action = "comment.post"
	ActionManageAdmins    Action = "admin.manage"
	ActionViewAdminRoster Action = "admin.roster"
)

// policyTable is the single source of truth for role authorization. Every
// mutating or listing operation consults it; no other code compares roles.
var policyTable = map[Action]map[domain.Role]bool{
	ActionCreateIssue: {
		domain.RoleCitizen:     true,
		domain.RoleAdmin:       true,
		domain.RoleSystemAdmin: true,
	},
	ActionReadOwnIssues: {
		domain.RoleCitizen:     true,
		domain.RoleAdmin:       true,
		domain.RoleSystemAdmin: true,
	},
	ActionReadAllIssues: {
		domain.RoleAdmin:       true,
		domain.RoleSystemAdmin: true,
	},
	ActionTransitionIssue: {
		domain.RoleAdmin:       true,
		domain.RoleSystemAdmin: true,
	},
	ActionPostComment: {
		domain.RoleCitizen:     true,
		domain.RoleAdmin:       true,
		domain.RoleSystemAdmin: true,
	},
	ActionManageAdmins: {
		domain.RoleSystemAdmin: true,
	},
	ActionViewAdminRoster: {
		domain.RoleSystemAdmin: true,
	},
}

// Allows reports whether the role may perform the action. Unknown roles and
// unknown actions are denied.
func Allows(role domain.Role, action Action) bool {
	return policyTable[action][role]
}

// AllowsOwned evaluates actions with an "own" qualifier: roles permitted to
// act on any resource pass regardless of ownership, otherwise the principal
// must own the resource.
func AllowsOwned(role domain.Role, broad, owned Action, principalID, ownerID string) bool {
	if Allows(role, broad) {
		return true
	}
	return Allows(role, owned) && principalID == ownerID
}
