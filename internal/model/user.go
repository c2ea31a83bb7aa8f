package model

import (
	"time"
)

// User 用户模型
// 角色不放在用户表里，而是挂在 user_roles 关联表上，一个用户可以有多个角色
type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email" gorm:"unique"`
	Username     string    `json:"username" db:"username" gorm:"unique"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// UserRole 用户角色关联（admin / moderator / editor / user）
type UserRole struct {
	ID     int    `json:"id" gorm:"primaryKey"`
	UserID int    `json:"user_id" gorm:"uniqueIndex:idx_user_role"`
	Role   string `json:"role" gorm:"uniqueIndex:idx_user_role"`
}

// TableName 指定表名
func (UserRole) TableName() string {
	return "user_roles"
}

// SessionUser 专门用于 Session 存储的用户信息结构
type SessionUser struct {
	ID       int
	Email    string
	Username string
	Roles    []string
}

// HasRole 是否拥有指定角色
func (u *SessionUser) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
