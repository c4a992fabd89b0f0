package main

import (
	"strconv"
	"testing"

	"github.com/dialdexdev/dialdex/internal/config"
)

// TestNewHistoryCmd tests the history command creation.
//
// Full execution is not covered here: the history database lives under the
// XDG data directory, which the xdg library resolves at package
// initialization and t.Setenv cannot redirect. Reading and writing crawl
// runs is covered by the database package tests.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "history" {
			t.Errorf("expected use 'history', got %q", cmd.Use)
		}
	})

	t.Run("has limit flag with default", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("limit")
		if flag == nil {
			t.Fatal("expected limit flag")
		}
		if flag.DefValue != strconv.Itoa(config.DefaultHistoryLimit) {
			t.Errorf("expected default %d, got %q", config.DefaultHistoryLimit, flag.DefValue)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})
}
