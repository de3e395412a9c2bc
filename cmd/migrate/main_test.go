package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestDownRequiresConfirmation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no flag", []string{"down"}, "--allow-destructive"},
		{"no flag with steps", []string{"down", "2"}, "--allow-destructive"},
		{"too many args", []string{"down", "1", "2", "--allow-destructive"}, "accepts at most 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowDestructive = false
			var out bytes.Buffer
			rootCmd.SetOut(&out)
			rootCmd.SetErr(&out)
			rootCmd.SetArgs(tt.args)

			err := rootCmd.Execute()
			if err == nil {
				t.Fatal("expected the command to refuse")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}
