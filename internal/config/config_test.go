package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "secureshare.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		env     map[string]string
		want    *Config
		wantErr bool
	}{
		{name: "defaults", want: Default()},
		{
			name: "file",
			yaml: "db_file: /tmp/x.db\nlog_level: debug\nsql_log: true\ninspect_workers: 8\n",
			want: &Config{DBFile: "/tmp/x.db", LogLevel: "debug", SQLLog: true, InspectWorkers: 8},
		},
		{
			name: "env wins over file",
			yaml: "db_file: /tmp/x.db\nlog_level: debug\n",
			env:  map[string]string{EnvDBFile: "/tmp/y.db", EnvLogLevel: "error", EnvInspectWorkers: "2"},
			want: &Config{DBFile: "/tmp/y.db", LogLevel: "error", InspectWorkers: 2},
		},
		{name: "bad yaml", yaml: "db_file: [", wantErr: true},
		{name: "bad level", yaml: "log_level: loud\n", wantErr: true},
		{name: "bad workers env", env: map[string]string{EnvInspectWorkers: "many"}, wantErr: true},
		{name: "zero workers", yaml: "inspect_workers: 0\n", wantErr: true},
		{name: "empty db file", yaml: "db_file: \"\"\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{EnvDBFile, EnvLogLevel, EnvInspectWorkers} {
				t.Setenv(k, tt.env[k])
			}
			path := ""
			if tt.yaml != "" {
				path = writeConfig(t, tt.yaml)
			}
			got, err := Load(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Load()\n%s", diff)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfig_Logger(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "debug"
	l := cfg.Logger()
	assert.Equal(t, log.DebugLevel, l.Logger.GetLevel())
	assert.Equal(t, cfg.DBFile, l.Data["db_file"])
}
