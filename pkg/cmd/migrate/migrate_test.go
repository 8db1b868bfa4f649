package migrate

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestPrepareURLForDB(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"postgresql://u:p@db/rm", "postgresql://u:p@db/rm?sslmode=disable"},
		{"postgresql://u:p@db/rm?x=1", "postgresql://u:p@db/rm?x=1&sslmode=disable"},
		{"postgresql://u:p@db/rm?sslmode=require", "postgresql://u:p@db/rm?sslmode=require"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, prepareURLForDB(tt.url), tt.want)
		})
	}
}
