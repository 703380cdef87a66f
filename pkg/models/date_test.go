package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBorrowRequestAcceptsDateOnlyPayload(t *testing.T) {
	payload := `{
		"id_peminjam": 5,
		"kode_barang": "BRG-01",
		"jumlah_pinjam": 2,
		"tgl_pinjam": "2024-01-01",
		"dl_kembali": "2024-01-08"
	}`

	var req BorrowRequest
	err := json.Unmarshal([]byte(payload), &req)

	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), req.TglPinjam.Time)
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), req.DlKembali.Time)
}

func TestDateUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "date only",
			input: `"2024-03-15"`,
			want:  time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "rfc3339",
			input: `"2024-03-15T08:30:00Z"`,
			want:  time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC),
		},
		{
			name:    "garbage",
			input:   `"15/03/2024"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.True(t, tt.want.Equal(d.Time))
		})
	}
}

func TestDateMarshalIsDateOnly(t *testing.T) {
	d := Date{Time: time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC)}

	out, err := json.Marshal(d)

	assert.NoError(t, err)
	assert.Equal(t, `"2024-03-15"`, string(out))
}
