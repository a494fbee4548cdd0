package auth

// Operation identifies a route-level operation. Each route is bound to
// exactly one operation; the table below declares the permission tags the
// caller must hold for it. An operation absent from the table, or mapped to
// an empty set, requires authentication only.
type Operation string

const (
	OpCategoryCreate Operation = "category.create"
	OpCategoryList   Operation = "category.list"
	OpCategoryRead   Operation = "category.read"
	OpCategoryUpdate Operation = "category.update"
	OpCategoryDelete Operation = "category.delete"
	OpCategoryAssign Operation = "category.assign"

	OpComplainCreate Operation = "complain.create"
	OpComplainList   Operation = "complain.list"
	OpComplainListMy Operation = "complain.list_my"
	OpComplainRead   Operation = "complain.read"
	OpActivityCreate Operation = "complain.activity.create"

	OpUserProfile       Operation = "user.profile"
	OpUserList          Operation = "user.list"
	OpUserRead          Operation = "user.read"
	OpUserUpdateProfile Operation = "user.update_profile"
	OpUserUpdate        Operation = "user.update"
)

// OperationPermissions maps operations to the permission tags they require.
// Every tag in the set must be held (logical AND); there is no OR or
// wildcard support.
var OperationPermissions = map[Operation][]string{
	OpCategoryCreate: {"category.create"},
	OpCategoryList:   {},
	OpCategoryRead:   {"category.read"},
	OpCategoryUpdate: {"category.update"},
	OpCategoryDelete: {"category.delete"},
	OpCategoryAssign: {"category.assign"},

	OpComplainCreate: {},
	OpComplainList:   {"complain.read"},
	OpComplainListMy: {},
	OpComplainRead:   {"complain.read"},
	OpActivityCreate: {"complain.activity.create"},

	OpUserProfile:       {"user.read"},
	OpUserList:          {"user.read"},
	OpUserRead:          {"user.read"},
	OpUserUpdateProfile: {},
	OpUserUpdate:        {"user.update"},
}

// RequiredPermissions returns the tags declared for an operation.
func RequiredPermissions(op Operation) []string {
	return OperationPermissions[op]
}
