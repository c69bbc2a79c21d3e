package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Contains(t, info.String(), "safequery version "+Version)
	assert.Contains(t, info.FullString(), "Git Commit: "+GitCommit)
}

func TestCheckServer(t *testing.T) {
	tests := []struct {
		raw     string
		min     string
		want    string
		wantErr bool
	}{
		{raw: "16.2 (Debian 16.2-1.pgdg120+2)", min: "12.0", want: "16.2.0"},
		{raw: "11.22", min: "12.0", want: "11.22.0", wantErr: true},
		{raw: "8.0.36-0ubuntu0.22.04.1", min: "5.7.0", want: "8.0.36"},
		{raw: "10.11.6-MariaDB", min: "5.7.0", want: "10.11.6"},
		{raw: "3.45.1", min: "3.8.3", want: "3.45.1"},
		{raw: "3.7.17", min: "3.8.3", want: "3.7.17", wantErr: true},
		{raw: "3.7.17", min: "", want: "3.7.17"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v, err := CheckServer(tt.raw, tt.min)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			require.NotNil(t, v)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestCheckServerInvalid(t *testing.T) {
	_, err := CheckServer("not a version", "1.0")
	assert.Error(t, err)

	_, err = CheckServer("1.0", "garbage")
	assert.Error(t, err)
}
