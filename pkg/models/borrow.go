package models

import "time"

const (
	BorrowStatusPending  = "pending"
	BorrowStatusActive   = "dipinjam"
	BorrowStatusReturned = "dikembalikan"
)

type Borrow struct {
	ID               int        `json:"id"`
	PeminjamID       int        `json:"id_peminjam"`
	AdminID          *int       `json:"id_admin,omitempty"`
	KodeBarang       string     `json:"kode_barang"`
	JumlahPinjam     int        `json:"jumlah_pinjam"`
	TglPeminjaman    time.Time  `json:"tgl_peminjaman"`
	TglPinjam        time.Time  `json:"tgl_pinjam"`
	DlKembali        time.Time  `json:"dl_kembali"`
	TglKembali       *time.Time `json:"tgl_kembali,omitempty"`
	KondisiBarang    *string    `json:"kondisi_barang,omitempty"`
	FotoPengembalian *string    `json:"foto_pengembalian,omitempty"`
	StatusBarang     string     `json:"status_barang"`
	Overdue          bool       `json:"overdue"`
	NamaPeminjam     string     `json:"nama_peminjam,omitempty"`
	NoTelepon        string     `json:"no_telepon,omitempty"`
	NamaBarang       string     `json:"nama_barang,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// IsOverdue derives the overdue label; it is never stored.
func (b *Borrow) IsOverdue(today time.Time) bool {
	return b.StatusBarang == BorrowStatusActive && b.DlKembali.Before(today.Truncate(24*time.Hour))
}

type FlatBorrowRecord struct {
	ID               int        `db:"id_peminjaman"`
	PeminjamID       int        `db:"id_peminjam"`
	AdminID          *int       `db:"id_admin"`
	KodeBarang       string     `db:"kode_barang"`
	JumlahPinjam     int        `db:"jumlah_pinjam"`
	TglPeminjaman    time.Time  `db:"tgl_peminjaman"`
	TglPinjam        time.Time  `db:"tgl_pinjam"`
	DlKembali        time.Time  `db:"dl_kembali"`
	TglKembali       *time.Time `db:"tgl_kembali"`
	KondisiBarang    *string    `db:"kondisi_barang"`
	FotoPengembalian *string    `db:"foto_pengembalian"`
	StatusBarang     string     `db:"status_barang"`
	NamaPeminjam     string     `db:"nama_peminjam"`
	NoTelepon        *string    `db:"no_telepon"`
	NamaBarang       string     `db:"nama_barang"`
	CreatedAt        time.Time  `db:"created_at"`
}

func (f *FlatBorrowRecord) TransformToBorrow(today time.Time) Borrow {
	borrow := Borrow{
		ID:               f.ID,
		PeminjamID:       f.PeminjamID,
		AdminID:          f.AdminID,
		KodeBarang:       f.KodeBarang,
		JumlahPinjam:     f.JumlahPinjam,
		TglPeminjaman:    f.TglPeminjaman,
		TglPinjam:        f.TglPinjam,
		DlKembali:        f.DlKembali,
		TglKembali:       f.TglKembali,
		KondisiBarang:    f.KondisiBarang,
		FotoPengembalian: f.FotoPengembalian,
		StatusBarang:     f.StatusBarang,
		NamaPeminjam:     f.NamaPeminjam,
		NamaBarang:       f.NamaBarang,
		CreatedAt:        f.CreatedAt,
	}

	if f.NoTelepon != nil {
		borrow.NoTelepon = *f.NoTelepon
	}
	borrow.Overdue = borrow.IsOverdue(today)

	return borrow
}

type BorrowRequest struct {
	PeminjamID   int    `json:"id_peminjam"`
	KodeBarang   string `json:"kode_barang" binding:"required"`
	JumlahPinjam int    `json:"jumlah_pinjam" binding:"required"`
	TglPinjam    Date   `json:"tgl_pinjam" binding:"required"`
	DlKembali    Date   `json:"dl_kembali" binding:"required"`
}

type ReturnRequest struct {
	KondisiBarang string `json:"kondisi_barang" binding:"required"`
	Foto          string `json:"foto"`
}
