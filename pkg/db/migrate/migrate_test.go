package migrate

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestToDriverURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgresql://u:p@localhost:5432/db", "pgx5://u:p@localhost:5432/db"},
		{"postgres://u:p@db/racemetrics?sslmode=disable", "pgx5://u:p@db/racemetrics?sslmode=disable"},
		{"pgx5://u:p@db/x", "pgx5://u:p@db/x"},
	}
	for _, tt := range tests {
		assert.Equal(t, toDriverURL(tt.in), tt.want)
	}
}
