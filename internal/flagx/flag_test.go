package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "ledger.json", "-r", "/data"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-c", "ledger.json"},
		},
		{
			name:         "flag with equals",
			args:         []string{"-config=alt.json", "-r", "/data"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-config=alt.json"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "flag without value at end",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "next flag is not taken as value",
			args:         []string{"-w", "-l", "debug"},
			allowedFlags: []string{"-w", "-l"},
			want:         []string{"-w", "-l", "debug"},
		},
		{
			name:         "equals value may start with dash",
			args:         []string{"-x=--odd"},
			allowedFlags: []string{"-x"},
			want:         []string{"-x=--odd"},
		},
		{
			name:         "repeated flag keeps order",
			args:         []string{"-r", "one", "-w", "64", "-r", "two"},
			allowedFlags: []string{"-r"},
			want:         []string{"-r", "one", "-r", "two"},
		},
		{
			name:         "empty args",
			args:         nil,
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigPath(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "short", args: []string{"-c", "/etc/ledger.json"}, want: "/etc/ledger.json"},
		{name: "long", args: []string{"-config", "/etc/long.json"}, want: "/etc/long.json"},
		{name: "equals", args: []string{"-r", "/data", "-config=/etc/eq.json"}, want: "/etc/eq.json"},
		{name: "absent", args: []string{"-r", "/data", "-w", "64"}, want: ""},
		{name: "last wins", args: []string{"-c", "/a.json", "-config", "/b.json"}, want: "/b.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfigPath(tt.args))
		})
	}
}
