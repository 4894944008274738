package identity

import "testing"

func TestCanRequiresEveryQueriedBit(t *testing.T) {
	cases := []struct {
		name string
		mask int
		perm Permission
		want bool
	}{
		{"user can follow", MaskUser, PermFollow, true},
		{"user can comment", MaskUser, PermComment, true},
		{"user cannot moderate", MaskUser, PermModerateComments, false},
		{"user cannot administer", MaskUser, PermAdminister, false},
		{"moderator can moderate", MaskModerator, PermModerateComments, true},
		{"moderator cannot follow", MaskModerator, PermFollow, false},
		{"moderator cannot administer", MaskModerator, PermAdminister, false},
		{"administrator can do everything", MaskAdministrator, PermAdminister, true},
		{"combined bits must all be present", MaskUser, PermFollow | PermModerateComments, false},
		{"combined bits all present", MaskModerator, PermComment | PermModerateComments, true},
		{"empty mask grants nothing", 0, PermFollow, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Can(tc.mask, tc.perm); got != tc.want {
				t.Fatalf("Can(%#x, %#x) = %v, want %v", tc.mask, tc.perm, got, tc.want)
			}
		})
	}
}

func TestMemberIdentity(t *testing.T) {
	member := Member{Permissions: MaskModerator}
	if !member.Can(PermModerateComments) {
		t.Fatal("expected moderator member to moderate")
	}
	if member.IsAdministrator() {
		t.Fatal("moderator must not be administrator")
	}

	admin := Member{Permissions: MaskAdministrator}
	if !admin.IsAdministrator() {
		t.Fatal("expected administrator mask to grant administer")
	}
}

func TestAnonymousGrantsNothing(t *testing.T) {
	var anon Identity = Anonymous{}
	for _, p := range []Permission{PermFollow, PermComment, PermModerateComments, PermAdminister} {
		if anon.Can(p) {
			t.Fatalf("anonymous must not hold %#x", p)
		}
	}
	if anon.IsAdministrator() {
		t.Fatal("anonymous must not be administrator")
	}
}
