package authz

const (
	RoleMember    = 10
	RoleGestor    = 20
	RoleModerator = 30
	RoleAdmin     = 40
)

func IsStaff(roleID int) bool {
	return roleID == RoleGestor || roleID == RoleModerator || roleID == RoleAdmin
}

func CanModerate(roleID int) bool {
	return roleID == RoleModerator || roleID == RoleAdmin
}
