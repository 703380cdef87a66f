package roles

// Role is the access level attached to a user account.
type Role string

const (
	Admin    Role = "admin"
	Peminjam Role = "peminjam"
	Instansi Role = "instansi"
)

func (r Role) IsValid() bool {
	switch r {
	case Admin, Peminjam, Instansi:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// Scope narrows which rows a caller may see. RoleID is the key into
// the role extension table: id_peminjam for borrowers, id_instansi
// for institutions, id_admin for admins.
type Scope struct {
	Role   Role
	RoleID int
}

func (s Scope) SeesAll() bool {
	return s.Role == Admin
}

// Capabilities is the action set granted to a role, consumed by every
// handler instead of per-screen role branching.
type Capabilities struct {
	CanManageItems bool
	CanApprove     bool
	CanManageUsers bool
	Scope          Scope
}

func CapabilitiesFor(role Role, roleID int) Capabilities {
	scope := Scope{Role: role, RoleID: roleID}
	switch role {
	case Admin:
		return Capabilities{
			CanManageItems: true,
			CanApprove:     true,
			CanManageUsers: true,
			Scope:          scope,
		}
	case Instansi:
		// institutions manage only the items they own; ownership is
		// checked against the record by the handler
		return Capabilities{CanManageItems: true, Scope: scope}
	default:
		return Capabilities{Scope: scope}
	}
}
