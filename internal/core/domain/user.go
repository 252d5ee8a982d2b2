package domain

type Role string

const (
	RoleSupplier Role = "supplier"
	RoleCreator  Role = "creator"
	RoleMedia    Role = "media"
	RoleAdmin    Role = "admin"
)

func ValidRole(role Role) bool {
	switch role {
	case RoleSupplier, RoleCreator, RoleMedia, RoleAdmin:
		return true
	}
	return false
}
