package cli

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgen/internal/app"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		want     *app.Config
		wantExit bool
		wantCode int
		wantErr  string
	}{
		{
			name: "defaults",
			args: []string{"etc/evergreen.hcl"},
			want: &app.Config{
				ProjectPaths: []string{"etc/evergreen.hcl"},
				EnvFile:      ".env",
				OutputDir:    "generated",
				LogFormat:    "json",
				LogLevel:     "info",
				Seed:         -1,
			},
		},
		{
			name: "repeated and comma separated projects",
			args: []string{
				"-project", "etc/a.hcl,etc/b.hcl", "-project", "etc/c",
				"-settings", "settings.hcl", "-output", "out", "-workers", "8", "-seed", "3",
				"-log-format", "TEXT", "-log-level", "Debug", "etc/d.hcl",
			},
			want: &app.Config{
				ProjectPaths: []string{"etc/a.hcl", "etc/b.hcl", "etc/c", "etc/d.hcl"},
				SettingsPath: "settings.hcl",
				EnvFile:      ".env",
				OutputDir:    "out",
				LogFormat:    "text",
				LogLevel:     "debug",
				WorkerCount:  8,
				Seed:         3,
			},
		},
		{name: "help", args: []string{"-h"}, wantExit: true},
		{name: "no project prints usage", args: nil, wantExit: true},
		{name: "unknown flag", args: []string{"-verbose", "x"}, wantCode: 2, wantErr: "flag provided but not defined"},
		{name: "bad log format", args: []string{"-log-format", "yaml", "p"}, wantCode: 2, wantErr: "invalid log-format"},
		{name: "bad log level", args: []string{"-log-level", "trace", "p"}, wantCode: 2, wantErr: "invalid log-level"},
		{name: "negative workers", args: []string{"-workers", "-1", "p"}, wantCode: 2, wantErr: "worker count"},
		{name: "empty output", args: []string{"-output", "", "p"}, wantCode: 2, wantErr: "OutputDir"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			cfg, exit, err := Parse(tc.args, out)

			if tc.wantErr != "" {
				require.Error(t, err)
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Equal(t, tc.wantCode, exitErr.Code)
				assert.Contains(t, exitErr.Message, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantExit, exit)
			if tc.wantExit {
				assert.Nil(t, cfg)
				assert.Contains(t, out.String(), "Usage:")
				return
			}
			if diff := cmp.Diff(tc.want, cfg); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
