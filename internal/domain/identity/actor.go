package identity

// Actor is the caller on whose behalf a usecase runs. It is always passed
// explicitly; nothing reads the current user from ambient state.
type Actor struct {
	UserID   uint64
	Role     Role
	BranchID uint64
}

func ActorOf(u *User) Actor {
	return Actor{UserID: u.ID, Role: u.Role, BranchID: u.BranchID}
}

func (a Actor) IsAdmin() bool   { return a.Role == RoleAdministrator }
func (a Actor) IsManager() bool { return a.Role == RoleManager }
func (a Actor) IsAgent() bool   { return a.Role == RoleAgent }

// CanAccess reports whether the actor may see data owned by u:
// agents see themselves, managers their branch, administrators everything.
func (a Actor) CanAccess(u *User) bool {
	if u == nil {
		return false
	}
	switch a.Role {
	case RoleAdministrator:
		return true
	case RoleManager:
		return u.BranchID == a.BranchID
	case RoleAgent:
		return u.ID == a.UserID
	}
	return false
}

// Scope narrows optional branch/agent filters to what the actor may see.
// A nil pointer means "no filter".
func (a Actor) Scope(branchID, agentID *uint64) (*uint64, *uint64) {
	switch a.Role {
	case RoleAgent:
		id := a.UserID
		return branchID, &id
	case RoleManager:
		b := a.BranchID
		return &b, agentID
	}
	return branchID, agentID
}
