package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/financeflow/internal/encoding"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		want    string
		charset string
	}{
		{
			name:    "utf-8 passes through",
			input:   []byte("Date,Note,Amount\n2024-06-01,Café,12.50\n"),
			want:    "Date,Note,Amount\n2024-06-01,Café,12.50\n",
			charset: encoding.CharsetUTF8,
		},
		{
			name:    "utf-8 bom is stripped",
			input:   append([]byte{0xEF, 0xBB, 0xBF}, "Date,Note\n"...),
			want:    "Date,Note\n",
			charset: encoding.CharsetUTF8,
		},
		{
			name:    "utf-16le with bom",
			input:   []byte{0xFF, 0xFE, 'D', 0, 'a', 0, 't', 0, 'e', 0, '\n', 0},
			want:    "Date\n",
			charset: encoding.CharsetUTF16LE,
		},
		{
			name:    "utf-16be with bom",
			input:   []byte{0xFE, 0xFF, 0, 'N', 0, 'o', 0, 't', 0, 'e'},
			want:    "Note",
			charset: encoding.CharsetUTF16BE,
		},
		{
			name:    "empty input",
			input:   nil,
			want:    "",
			charset: encoding.CharsetUTF8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, charset, err := encoding.Detect(bytes.NewReader(tt.input))
			require.NoError(t, err)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
			assert.Equal(t, tt.charset, charset)
		})
	}
}

func TestDetect_SingleByteCharset(t *testing.T) {
	// "Catatan;Jumlah\nKopi tubruk é;12,50\n" with é as 0xE9.
	input := []byte("Catatan;Jumlah\nKopi tubruk \xe9;12,50\n")

	r, charset, err := encoding.Detect(bytes.NewReader(input))
	require.NoError(t, err)
	assert.NotEqual(t, encoding.CharsetUTF8, charset)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Catatan;Jumlah\nKopi tubruk é;12,50\n", string(got))
}

func TestDetect_RuneCutBySniffWindow(t *testing.T) {
	// 4095 ASCII bytes followed by a two-byte rune straddling the sniff window.
	input := strings.Repeat("a", 4095) + "é\n"

	r, charset, err := encoding.Detect(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, encoding.CharsetUTF8, charset)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestNewUTF8Reader(t *testing.T) {
	r, err := encoding.NewUTF8Reader(strings.NewReader("Tanggal,Jumlah\n"))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Tanggal,Jumlah\n", string(got))
}
