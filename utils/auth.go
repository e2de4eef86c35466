package utils

import (
	"clipbot/model"
	"slices"
)

// CheckAuth 检查用户是否有权限
func CheckAuth(auth model.Auth, userID string, roles []string) bool {
	// 检查是否为开发者
	if slices.Contains(auth.Developers, userID) {
		return true
	}

	// 检查是否拥有管理员角色
	for _, role := range roles {
		if slices.Contains(auth.AdminsRoles, role) {
			return true
		}
	}

	return false
}
