package models

import "time"

type User struct {
	ID           int       `json:"id" db:"id_user"`
	Username     string    `json:"username" db:"username"`
	Nama         string    `json:"nama" db:"nama"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func (u *User) IsActive() bool {
	return u.Status == "aktif"
}

type CreateUserRequest struct {
	Username     string `json:"username" binding:"required"`
	Password     string `json:"password" binding:"required"`
	Nama         string `json:"nama" binding:"required"`
	Role         string `json:"role" binding:"required"`
	NoTelepon    string `json:"no_telepon"`
	NamaInstansi string `json:"nama_instansi"`
}

type UpdateUserRequest struct {
	Password *string `json:"password"`
	Nama     *string `json:"nama"`
	Status   *string `json:"status"`
}

type UserChanges struct {
	PasswordHash *string
	Nama         *string
	Status       *string
}

func (c *UserChanges) HasChanges() bool {
	return c.PasswordHash != nil || c.Nama != nil || c.Status != nil
}
