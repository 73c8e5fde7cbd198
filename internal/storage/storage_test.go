package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/govolunteer/govolunteer-api/internal/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	return s
}

func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	s, err := New(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, s.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNew_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := New("~/gv-data")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "gv-data"), s.Dir())
}

func TestStorage_RoundTrip(t *testing.T) {
	s := newTestStorage(t)
	rows := [][]string{
		{"User_Name", "CCCD", "Date"},
		{"Nguyễn Văn A", "123456", "2024-01-01"},
		{"Trần Thị B", "654321"},
	}

	require.NoError(t, s.WriteRows("activity", rows))

	got, err := s.Rows(context.Background(), "activity")
	require.NoError(t, err)
	assert.Equal(t, rows, got)
	assert.FileExists(t, filepath.Join(s.Dir(), "activity.csv"))
}

func TestStorage_PathStaysInDataDir(t *testing.T) {
	s := newTestStorage(t)
	assert.Equal(t, filepath.Join(s.Dir(), "passwd.csv"), s.Path("../../etc/passwd"))
}

func TestStorage_MissingDataset(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.Rows(context.Background(), "certificate")
	require.Error(t, err)
	assert.ErrorIs(t, err, records.ErrDataSourceUnavailable)
	assert.Contains(t, err.Error(), "has not been synced")
}

func TestStorage_AsMatcherSource(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.WriteRows("activity", [][]string{
		{"User_Name", "CCCD", "Date"},
		{"Nguyen Van A", "123456", "2024-01-01"},
	}))

	m := records.NewMatcher(s,
		records.Dataset{Type: records.TypeActivity, Ref: "activity"},
	)

	result, err := m.Lookup(context.Background(), "nguyen van a", "123456")
	require.NoError(t, err)
	require.Len(t, result.Activities, 1)
	assert.Equal(t, "2024-01-01", result.Activities[0].Fields["Date"])

	result, err = m.Lookup(context.Background(), "nguyen van a", "1234560")
	require.NoError(t, err)
	assert.True(t, result.Empty())
}

func TestStorage_MarkPDFRequested(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.WriteRows("certificate", [][]string{
		{"User_Name", "CCCD", "Email", "PDF_Requested"},
		{"Le Van C", "111"},
		{"Le Van C", "111", "", ""},
	}))

	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "first match is updated", id: "111", want: true},
		{name: "no match", id: "112", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := s.MarkPDFRequested(context.Background(), "certificate", "le van c", tt.id, "c@example.com")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}

	rows, err := s.Rows(context.Background(), "certificate")
	require.NoError(t, err)
	assert.Equal(t, []string{"Le Van C", "111", "c@example.com", "TRUE"}, rows[1])
	assert.Equal(t, []string{"Le Van C", "111", "", ""}, rows[2])
}

func TestStorage_MarkPDFRequestedSchema(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.WriteRows("certificate", [][]string{{"User_Name", "CCCD"}, {"A", "1"}}))

	_, err := s.MarkPDFRequested(context.Background(), "certificate", "A", "1", "a@example.com")
	assert.ErrorIs(t, err, records.ErrSchema)
}
