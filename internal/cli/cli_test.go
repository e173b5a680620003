package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/sramgo/internal/options"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options.Program
	}{
		{
			name: "defaults",
			args: []string{"prog", "test.bin"},
			want: options.Program{Parameters: options.Parameters{Input: "test.bin"}},
		},
		{
			name: "verify flag",
			args: []string{"prog", "-verify", "test.bin"},
			want: options.Program{
				Parameters: options.Parameters{Input: "test.bin"},
				Flags:      options.Flags{Verify: true},
			},
		},
		{
			name: "fill flag",
			args: []string{"prog", "-fill", "170", "test.bin"},
			want: options.Program{
				Parameters: options.Parameters{Input: "test.bin"},
				Flags:      options.Flags{Fill: true, FillValue: 0xaa},
			},
		},
		{
			name: "size flag",
			args: []string{"prog", "-size", "32768", "test.bin"},
			want: options.Program{
				Parameters: options.Parameters{Input: "test.bin"},
				Flags:      options.Flags{Capacity: 32768},
			},
		},
		{
			name: "dump flag",
			args: []string{"prog", "-o", "out.bin", "test.bin"},
			want: options.Program{
				Parameters: options.Parameters{Input: "test.bin", Dump: "out.bin"},
			},
		},
		{
			name: "quiet and debug flags",
			args: []string{"prog", "-q", "-debug", "test.bin"},
			want: options.Program{
				Parameters: options.Parameters{Input: "test.bin"},
				Flags:      options.Flags{Quiet: true, Debug: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })

			os.Args = tt.args

			got, err := ParseFlags()
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"fill value out of range", []string{"prog", "-fill", "300", "test.bin"}},
		{"unsupported size", []string{"prog", "-size", "12345", "test.bin"}},
		{"flag after file argument", []string{"prog", "test.bin", "-verify"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })

			os.Args = tt.args

			_, err := ParseFlags()
			assert.Error(t, err)
		})
	}
}

func TestParseFlagsMissingFileShowsUsage(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	os.Args = []string{"prog"}

	_, err := ParseFlags()
	var usageErr *UsageError
	assert.True(t, errors.As(err, &usageErr))
}
