package identity

import "github.com/google/uuid"

// Permission is a single grantable capability. Permissions combine into a
// role's bitmask, so each value occupies a distinct bit.
type Permission int

const (
	PermFollow           Permission = 0x01
	PermComment          Permission = 0x02
	PermModerateComments Permission = 0x08
	PermAdminister       Permission = 0x80
)

// Role permission masks seeded into the database. The User role is the
// default assigned at registration.
const (
	MaskUser          = int(PermFollow | PermComment)
	MaskModerator     = int(PermComment | PermModerateComments)
	MaskAdministrator = 0xff
)

// Can reports whether a mask grants every bit of the queried permission.
func Can(mask int, p Permission) bool {
	return mask&int(p) == int(p)
}

// Identity is the actor behind a request. Handlers never branch on whether
// a caller is signed in; they ask the identity the same questions either way.
type Identity interface {
	Can(p Permission) bool
	IsAdministrator() bool
}

// Member is an authenticated user with the permission mask carried in their
// access token.
type Member struct {
	UserID      uuid.UUID
	Username    string
	Permissions int
	Confirmed   bool
	AccessID    string
}

func (m Member) Can(p Permission) bool {
	return Can(m.Permissions, p)
}

func (m Member) IsAdministrator() bool {
	return m.Can(PermAdminister)
}

// Anonymous is the identity of an unauthenticated request. It grants nothing.
type Anonymous struct{}

func (Anonymous) Can(Permission) bool { return false }

func (Anonymous) IsAdministrator() bool { return false }
