package main

import (
	"strings"
	"testing"
)

func TestColorize(t *testing.T) {
	old := noColor
	defer func() { noColor = old }()

	noColor = true
	result := colorize(colorGreen, "test message")
	if strings.Contains(result, "\033") {
		t.Errorf("colorize with noColor=true should not contain ANSI codes, got %q", result)
	}

	noColor = false
	result = colorize(colorGreen, "test message")
	if !strings.HasPrefix(result, colorGreen) || !strings.HasSuffix(result, colorReset) {
		t.Errorf("colorize with noColor=false should wrap in ANSI codes, got %q", result)
	}
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	want := []string{"chat", "serve", "candidates", "export", "config"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestConfigSet_UnknownKey(t *testing.T) {
	err := runConfigSet("no.such.key", "value")
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "valid keys") {
		t.Errorf("error %q should list valid keys", err)
	}
}
