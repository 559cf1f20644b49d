//go:build unit
// +build unit

package core

import (
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
)

type testSettingPeople struct {
	PeopleNames []string `toml:"people_names"`
	Limit       int      `toml:"limit"`
}

func TestParseSettings(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantError  bool
		wantFound  bool
		wantPeople testSettingPeople
	}{
		{
			name:       "empty",
			in:         "",
			wantFound:  false,
			wantPeople: testSettingPeople{Limit: 3},
		},
		{
			name: "people table",
			in: heredoc.Doc(`
				[com.people]
				people_names = ["alice", "bob"]
			`),
			wantFound:  true,
			wantPeople: testSettingPeople{PeopleNames: []string{"alice", "bob"}, Limit: 3},
		},
		{
			name: "other table only",
			in: heredoc.Doc(`
				[com.vehicle]
				vehicle_names = ["bus"]
			`),
			wantFound:  false,
			wantPeople: testSettingPeople{Limit: 3},
		},
		{
			name:      "broken toml",
			in:        "[com.people",
			wantError: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetSetting()
			err := ParseSettingFromString(tt.in)
			if tt.wantError {
				assert.NotNil(t, err)
				return
			}
			assert.Nil(t, err)
			people := testSettingPeople{Limit: 3}
			found, err := DecodeComponentSetting("people", &people)
			assert.Nil(t, err)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantPeople, people)
		})
	}
}

func TestDecodeComponentSettingTypeMismatch(t *testing.T) {
	ResetSetting()
	assert.Nil(t, ParseSettingFromString(heredoc.Doc(`
		[com.people]
		limit = "many"
	`)))
	people := testSettingPeople{}
	found, err := DecodeComponentSetting("people", &people)
	assert.True(t, found)
	assert.NotNil(t, err)
}
