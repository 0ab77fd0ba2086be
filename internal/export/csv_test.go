package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contacthub/internal/scraper"
	"contacthub/pkg/models"
)

func strPtr(s string) *string { return &s }

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"Smith, MD", "Smith; MD"},
		{"a,,b", "a;;b"},
		{"line\r\nbreak", "line break"},
		{"one\ntwo\rthree", "one two three"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Escape(tt.in), "Escape(%q)", tt.in)
	}
}

func TestRow_AlwaysEightColumns(t *testing.T) {
	c := models.Contact{
		Name:    "Doe, Jane",
		Degrees: strPtr("MD, PhD"),
		Phone:   strPtr("555,1111"),
		State:   strPtr("C,A"),
		Company: strPtr("Acme, Inc\nWest"),
		Address: strPtr("1 Main St, LA, CA, 90001"),
		URL:     "x.com/?a=1,2",
		Source:  "a4m",
	}

	row := Row(c)

	require.True(t, strings.HasSuffix(row, "\n"))
	assert.Len(t, strings.Split(strings.TrimSuffix(row, "\n"), Separator), len(Header))
	assert.Equal(t, 1, strings.Count(row, "\n"))
}

func TestRow_SentinelFidelity(t *testing.T) {
	c := models.Contact{Name: "Ann Lee", Phone: strPtr(""), Source: "AANP"}

	assert.Equal(t, "Ann Lee, N/A, , N/A, N/A, N/A, , AANP\n", Row(c))
}

func TestRow_EndToEndFromRawRecord(t *testing.T) {
	recs := models.NewRecords[models.A4MRecord](1)
	recs.Add("jane  doe", models.A4MRecord{
		Degrees:  strPtr("MD"),
		Phone:    strPtr("555-1111"),
		State:    strPtr("CA"),
		Address1: strPtr("1 Main St"),
		City:     strPtr("LA"),
		Zip:      strPtr("90001"),
		Country:  strPtr("United States"),
		URL:      "x.com",
	})

	contacts := scraper.Normalize("a4m", recs)
	require.Len(t, contacts, 1)

	assert.Equal(t, "Jane Doe, MD, 555-1111, CA, N/A, 1 Main St; LA; CA; 90001, x.com, a4m\n", Row(contacts[0]))
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteAll([]models.Contact{{Name: "A", Source: "a4m"}, {Name: "B", Source: "AANP"}}))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Source Name, Degrees, Phone Number, State, Company, Address, URL, Dataset", lines[0])
	assert.Equal(t, 2, w.Rows())
}

func TestWriteFile_TruncateReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "sources.csv")
	contacts := []models.Contact{{Name: "A", Source: "a4m"}}

	n, err := WriteFile(path, ModeTruncate, contacts)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = WriteFile(path, ModeTruncate, contacts)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "Source Name"))
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}

func TestWriteFile_AppendWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.csv")

	_, err := WriteFile(path, ModeAppend, []models.Contact{{Name: "A", Source: "a4m"}})
	require.NoError(t, err)
	_, err = WriteFile(path, ModeAppend, []models.Contact{{Name: "B", Source: "AANP"}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Source Name"))
	assert.True(t, strings.HasPrefix(lines[1], "A, "))
	assert.True(t, strings.HasPrefix(lines[2], "B, "))
}

func TestWriteFile_EmptyDatasetStillHasHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.csv")

	n, err := WriteFile(path, ModeTruncate, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(Header, Separator)+"\n", string(data))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Append")
	require.NoError(t, err)
	assert.Equal(t, ModeAppend, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeTruncate, m)

	_, err = ParseMode("overwrite")
	assert.Error(t, err)

	_, err = WriteFile(filepath.Join(t.TempDir(), "x.csv"), Mode("bogus"), nil)
	assert.Error(t, err)
}
