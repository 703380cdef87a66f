package models

import "time"

type Item struct {
	ID             int          `json:"id"`
	KodeBarang     string       `json:"kode_barang"`
	NamaBarang     string       `json:"nama_barang"`
	LokasiBarang   string       `json:"lokasi_barang"`
	JumlahTotal    int          `json:"jumlah_total"`
	JumlahTersedia int          `json:"jumlah_tersedia"`
	Deskripsi      string       `json:"deskripsi,omitempty"`
	KondisiBarang  string       `json:"kondisi_barang"`
	Status         string       `json:"status"`
	Foto           string       `json:"foto,omitempty"`
	Pemilik        *Institution `json:"pemilik,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// CommonlyOwned reports whether the item has no owning institution.
func (i *Item) CommonlyOwned() bool {
	return i.Pemilik == nil
}

type FlatItemRecord struct {
	ID             int        `db:"id_barang"`
	KodeBarang     string     `db:"kode_barang"`
	NamaBarang     string     `db:"nama_barang"`
	LokasiBarang   *string    `db:"lokasi_barang"`
	JumlahTotal    int        `db:"jumlah_total"`
	JumlahTersedia int        `db:"jumlah_tersedia"`
	Deskripsi      *string    `db:"deskripsi"`
	KondisiBarang  string     `db:"kondisi_barang"`
	Status         string     `db:"status"`
	Foto           *string    `db:"foto"`
	InstansiID     *int       `db:"id_instansi"`
	NamaInstansi   *string    `db:"nama_instansi"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

func (f *FlatItemRecord) TransformToItem() Item {
	item := Item{
		ID:             f.ID,
		KodeBarang:     f.KodeBarang,
		NamaBarang:     f.NamaBarang,
		JumlahTotal:    f.JumlahTotal,
		JumlahTersedia: f.JumlahTersedia,
		KondisiBarang:  f.KondisiBarang,
		Status:         f.Status,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}

	if f.LokasiBarang != nil {
		item.LokasiBarang = *f.LokasiBarang
	}
	if f.Deskripsi != nil {
		item.Deskripsi = *f.Deskripsi
	}
	if f.Foto != nil {
		item.Foto = *f.Foto
	}
	if f.InstansiID != nil {
		item.Pemilik = &Institution{ID: *f.InstansiID}
		if f.NamaInstansi != nil {
			item.Pemilik.NamaInstansi = *f.NamaInstansi
		}
	}

	return item
}
