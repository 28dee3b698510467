package firebase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		data    []byte
		wantErr string
	}{
		{name: "ok", path: "grades/karakterer_2023.csv", data: []byte("x")},
		{name: "empty path", path: "  ", data: []byte("x"), wantErr: "cannot be empty"},
		{name: "empty data", path: "grades/a.csv", wantErr: "data cannot be empty"},
		{name: "traversal", path: "grades/../secret.csv", data: []byte("x"), wantErr: "unsafe"},
		{name: "double slash", path: "grades//a.csv", data: []byte("x"), wantErr: "unsafe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateUpload(tt.path, tt.data)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "text/csv", detectContentType("grades/karakterer_2023.CSV"))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", detectContentType("a.xlsx"))
	assert.Equal(t, "application/octet-stream", detectContentType("grades/noext"))
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "karakterer_2023.csv", sheetName("grades/karakterer_2023.csv", "grades/"))
	assert.Equal(t, "karakterer_2023.csv", sheetName("grades/karakterer_2023.csv", "grades"))
	assert.Equal(t, "2022/h.csv", sheetName("grades/2022/h.csv", "grades/"))
	assert.Equal(t, "a.csv", sheetName("a.csv", "a.csv"))
}
