package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"incoming", CategoryIncoming, false},
		{"outgoing", CategoryOutgoing, false},
		{"Incoming", CategoryIncoming, false},
		{" OUTGOING ", CategoryOutgoing, false},
		{"", "", true},
		{"sideways", "", true},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		assert.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestIssueDay(t *testing.T) {
	d := Document{IssueDate: "2024-03-05"}
	day, ok := d.IssueDay()
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), day)

	for _, bad := range []string{"", "05/03/2024", "not-a-date", "2024-13-40"} {
		_, ok := Document{IssueDate: bad}.IssueDay()
		assert.False(t, ok, "input %q", bad)
	}
}
