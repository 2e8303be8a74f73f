package cli

import (
	"testing"
)

func TestRootCommand_HasRunSubcommand(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "run" {
			found = true
		}
	}
	if !found {
		t.Error("Expected run subcommand to be registered")
	}
}

func TestRunCommand_FlagDefaults(t *testing.T) {
	tests := []struct {
		flag     string
		expected string
	}{
		{"prefix", ""},
		{"suffix", ""},
		{"header", ""},
		{"footer", ""},
		{"await", ""},
		{"no-flush", "false"},
		{"source-encoding", ""},
		{"output-encoding", ""},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			f := runCmd.Flags().Lookup(tt.flag)
			if f == nil {
				t.Fatalf("Expected flag --%s to exist", tt.flag)
			}
			if f.DefValue != tt.expected {
				t.Errorf("Expected default %q, got %q", tt.expected, f.DefValue)
			}
		})
	}

	if runCmd.Flags().Lookup("pattern") == nil {
		t.Error("Expected flag --pattern to exist")
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	if rootCmd.PersistentFlags().Lookup("verbose") == nil {
		t.Error("Expected persistent flag --verbose")
	}
	if rootCmd.PersistentFlags().Lookup("json") == nil {
		t.Error("Expected persistent flag --json")
	}
}
