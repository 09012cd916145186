package identity

import "testing"

func TestActor_CanAccess(t *testing.T) {
	agent := &User{ID: 7, Role: RoleAgent, BranchID: 1}
	other := &User{ID: 8, Role: RoleAgent, BranchID: 2}

	tests := []struct {
		name  string
		actor Actor
		user  *User
		want  bool
	}{
		{"agent self", Actor{UserID: 7, Role: RoleAgent, BranchID: 1}, agent, true},
		{"agent other", Actor{UserID: 7, Role: RoleAgent, BranchID: 1}, other, false},
		{"manager same branch", Actor{UserID: 2, Role: RoleManager, BranchID: 1}, agent, true},
		{"manager other branch", Actor{UserID: 2, Role: RoleManager, BranchID: 1}, other, false},
		{"admin", Actor{UserID: 1, Role: RoleAdministrator}, other, true},
		{"nil user", Actor{UserID: 1, Role: RoleAdministrator}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.actor.CanAccess(tt.user); got != tt.want {
				t.Fatalf("CanAccess = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestActor_Scope(t *testing.T) {
	req := uint64(99)

	b, a := Actor{UserID: 7, Role: RoleAgent, BranchID: 1}.Scope(nil, &req)
	if b != nil || a == nil || *a != 7 {
		t.Fatalf("agent scope = %v %v", b, a)
	}

	b, a = Actor{UserID: 2, Role: RoleManager, BranchID: 3}.Scope(&req, nil)
	if b == nil || *b != 3 || a != nil {
		t.Fatalf("manager scope = %v %v", b, a)
	}

	b, a = Actor{UserID: 1, Role: RoleAdministrator}.Scope(nil, nil)
	if b != nil || a != nil {
		t.Fatalf("admin scope should pass filters through, got %v %v", b, a)
	}
}

func TestValidISO2(t *testing.T) {
	if !ValidISO2("CO") || ValidISO2("co") || ValidISO2("COL") {
		t.Fatal("ValidISO2 mismatch")
	}
}
