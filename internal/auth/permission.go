package auth

import (
	"pacificpro/internal/model"
)

// Operation adalah operasi invoice yang dijaga izin.
type Operation string

const (
	OpCreate  Operation = "create"
	OpEdit    Operation = "edit"
	OpDelete  Operation = "delete"
	OpView    Operation = "view"
	OpApprove Operation = "approve"
)

// Tabel kapabilitas tetap per role. Role di luar tabel berarti ditolak
// untuk semua operasi.
var invoicePermissions = map[model.Role]map[Operation]bool{
	model.RoleAdmin: {
		OpCreate: true, OpEdit: true, OpDelete: true, OpView: true, OpApprove: true,
	},
	model.RoleStaff: {
		OpCreate: true, OpEdit: true, OpDelete: false, OpView: true, OpApprove: false,
	},
	model.RoleViewer: {
		OpCreate: false, OpEdit: false, OpDelete: false, OpView: true, OpApprove: false,
	},
}

// Can melaporkan apakah role boleh menjalankan operasi.
func Can(role model.Role, op Operation) bool {
	perms, ok := invoicePermissions[role]
	if !ok {
		return false
	}
	return perms[op]
}

// UserCan seperti Can, dengan penolakan untuk pemanggil tanpa user.
func UserCan(user *model.User, op Operation) bool {
	if user == nil {
		return false
	}
	return Can(user.Role, op)
}
