package models

type Institution struct {
	ID           int    `json:"id" db:"id_instansi"`
	UserID       int    `json:"user_id" db:"id_user"`
	NamaInstansi string `json:"nama_instansi" db:"nama_instansi"`
}
