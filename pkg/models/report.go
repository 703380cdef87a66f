package models

import "time"

const (
	ReportStatusProcessing = "diproses"
	ReportStatusCompleted  = "selesai"
	ReportStatusRejected   = "ditolak"
)

type Report struct {
	ID           int       `json:"id"`
	NoLaporan    string    `json:"no_laporan"`
	PeminjamanID int       `json:"id_peminjaman"`
	KodeBarang   string    `json:"kode_barang"`
	Status       string    `json:"status"`
	TglLaporan   time.Time `json:"tgl_laporan"`
	NamaPeminjam string    `json:"nama_peminjam,omitempty"`
	NamaBarang   string    `json:"nama_barang,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type FlatReportRecord struct {
	ID           int       `db:"id_laporan"`
	NoLaporan    string    `db:"no_laporan"`
	PeminjamanID int       `db:"id_peminjaman"`
	KodeBarang   string    `db:"kode_barang"`
	Status       string    `db:"status"`
	TglLaporan   time.Time `db:"tgl_laporan"`
	NamaPeminjam string    `db:"nama_peminjam"`
	NamaBarang   string    `db:"nama_barang"`
	CreatedAt    time.Time `db:"created_at"`
}

func (f *FlatReportRecord) TransformToReport() Report {
	return Report{
		ID:           f.ID,
		NoLaporan:    f.NoLaporan,
		PeminjamanID: f.PeminjamanID,
		KodeBarang:   f.KodeBarang,
		Status:       f.Status,
		TglLaporan:   f.TglLaporan,
		NamaPeminjam: f.NamaPeminjam,
		NamaBarang:   f.NamaBarang,
		CreatedAt:    f.CreatedAt,
	}
}

type CreateReportRequest struct {
	PeminjamanID int `json:"id_peminjaman" binding:"required"`
}
