package certificate

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedGenerator(at time.Time, n int) *IDGenerator {
	return &IDGenerator{
		Prefix: "MD",
		Now:    func() time.Time { return at },
		Rand:   func(int) int { return n },
	}
}

func TestIDGeneratorFormat(t *testing.T) {
	at := time.UnixMilli(1753773632653)
	g := fixedGenerator(at, 42)

	assert.Equal(t, "MD-1753773632653-42", g.Next())
}

func TestNewIDGeneratorDefaultsPrefix(t *testing.T) {
	g := NewIDGenerator("  ")
	id := g.Next()

	require.True(t, strings.HasPrefix(id, "MD-"), id)
	assert.Len(t, strings.Split(id, "-"), 3)
}

func TestNewRequestStampsIDAndTime(t *testing.T) {
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	req := fixedGenerator(at, 7).NewRequest("Jane", "Doe", "jane@doe.com", "9876543210", nil)

	assert.Equal(t, "Jane Doe", req.FullName())
	assert.Equal(t, at, req.IssuedAt)
	assert.False(t, req.HasPhoto())
	assert.Equal(t, "MD-"+"1773133200000"+"-7", req.ID)
}

func TestValidUntil(t *testing.T) {
	tests := []struct {
		name   string
		issued time.Time
		want   string
	}{
		{"mid month", time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), "15/07/2026"},
		{"crosses year", time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), "18/04/2027"},
		{"month end rolls over", time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), "03/03/2027"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Request{IssuedAt: tt.issued}
			assert.Equal(t, tt.want, FormatDate(r.ValidUntil()))
		})
	}
}

func TestExportSummaryText(t *testing.T) {
	r := Request{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@doe.com",
		Phone:     "9876543210",
		ID:        "MD-1-2",
		IssuedAt:  time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}

	got := ExportSummaryText(r, "mother-dairy-certificate-Jane-Doe.png")
	want := strings.Join([]string{
		"# MD-1-2",
		"name: Jane Doe",
		"email: jane@doe.com",
		"phone: 9876543210",
		"issued: 15/01/2026",
		"valid_until: 15/07/2026",
		"file: mother-dairy-certificate-Jane-Doe.png",
	}, "\n")
	assert.Equal(t, want, got)
}
