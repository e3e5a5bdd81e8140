package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountContaining(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		keyword string
		want    int
	}{
		{"ascii any case", []string{"DB Database down", "DATABASE", "database", "data base"}, "database", 3},
		{"long s folds to s", []string{"DATABAſE a", "DATABAſE b"}, "database", 2},
		{"kelvin sign folds to k", []string{"\u212Aeepalive lost"}, "keepalive", 1},
		{"multibyte before match", []string{"é timeout"}, "TIMEOUT", 1},
		{"needle longer than line", []string{"time"}, "timeout", 0},
		{"empty keyword matches every line", []string{"a", ""}, "", 2},
		{"no lines", nil, "database", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountContaining(tt.lines, tt.keyword))
		})
	}
}

func TestCountContainingExact(t *testing.T) {
	lines := []string{"Disk full", "disk full", "DISK FULL"}
	assert.Equal(t, 1, CountContainingExact(lines, "disk"))
}

func TestDatabaseRule_FoldedKeyword(t *testing.T) {
	result := DatabaseRule(Input{Lines: []string{"DATABAſE a", "DATABAſE b"}})

	assert.True(t, result.Triggered)
	assert.Equal(t, "Database connection failures detected", result.Alert.Title)
}
