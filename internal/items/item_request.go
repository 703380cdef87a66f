package items

import (
	"fmt"

	"github.com/annisazulfa99/inventaris/pkg/metadata"
)

type CreateItemRequest struct {
	KodeBarang    string `json:"kode_barang" binding:"required"`
	NamaBarang    string `json:"nama_barang" binding:"required"`
	LokasiBarang  string `json:"lokasi_barang"`
	JumlahTotal   int    `json:"jumlah_total" binding:"required"`
	Deskripsi     string `json:"deskripsi"`
	KondisiBarang string `json:"kondisi_barang"`
	Status        string `json:"status"`
	Foto          string `json:"foto"`
	InstansiID    *int   `json:"id_instansi"`
}

func (r *CreateItemRequest) Validate() error {
	if !metadata.ValidItemCode(r.KodeBarang) {
		return fmt.Errorf("kode_barang must match BRG-NN format, got %q", r.KodeBarang)
	}
	if r.JumlahTotal < 1 {
		return fmt.Errorf("jumlah_total must be positive")
	}

	if r.KondisiBarang == "" {
		r.KondisiBarang = string(metadata.ConditionGood)
	} else if _, err := metadata.NewCondition(r.KondisiBarang); err != nil {
		return err
	}

	if r.Status == "" {
		r.Status = string(metadata.ItemAvailable)
	} else if _, err := metadata.NewItemStatus(r.Status); err != nil {
		return err
	}

	return nil
}

type PatchItemRequest struct {
	NamaBarang    *string `json:"nama_barang"`
	LokasiBarang  *string `json:"lokasi_barang"`
	JumlahTotal   *int    `json:"jumlah_total"`
	Deskripsi     *string `json:"deskripsi"`
	KondisiBarang *string `json:"kondisi_barang"`
	Status        *string `json:"status"`
	Foto          *string `json:"foto"`
}

func (r *PatchItemRequest) Validate() error {
	if r.KondisiBarang != nil {
		if _, err := metadata.NewCondition(*r.KondisiBarang); err != nil {
			return err
		}
	}
	if r.Status != nil {
		if _, err := metadata.NewItemStatus(*r.Status); err != nil {
			return err
		}
	}
	if r.JumlahTotal != nil && *r.JumlahTotal < 0 {
		return fmt.Errorf("jumlah_total must not be negative")
	}

	return nil
}

func (r *PatchItemRequest) HasChanges() bool {
	return r.NamaBarang != nil || r.LokasiBarang != nil || r.JumlahTotal != nil ||
		r.Deskripsi != nil || r.KondisiBarang != nil || r.Status != nil || r.Foto != nil
}
