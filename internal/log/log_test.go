// ABOUTME: Tests for the leveled logging package
// ABOUTME: Validates level get/set and that all levels emit without panicking

package log

import (
	"log/slog"
	"testing"
)

func TestSetLevel(t *testing.T) {
	savedLevel := GetLevel()
	defer SetLevel(savedLevel)

	SetLevel(LevelDebug)
	if GetLevel() != LevelDebug {
		t.Errorf("GetLevel() = %v, want LevelDebug", GetLevel())
	}

	SetLevel(LevelError)
	if GetLevel() != LevelError {
		t.Errorf("GetLevel() = %v, want LevelError", GetLevel())
	}
}

func TestDefaultLevelIsInfo(t *testing.T) {
	savedLevel := GetLevel()
	defer SetLevel(savedLevel)

	SetLevel(slog.LevelInfo)
	if GetLevel() != slog.LevelInfo {
		t.Errorf("GetLevel() = %v, want LevelInfo", GetLevel())
	}
}

func TestDebugSuppressedAtInfoLevel(t *testing.T) {
	savedLevel := GetLevel()
	defer SetLevel(savedLevel)

	SetLevel(LevelInfo)

	// Suppressed at Info level; not panicking is enough.
	Debug("suppressed: %s", "tick")
}

func TestAllLevelsEmit(t *testing.T) {
	savedLevel := GetLevel()
	defer SetLevel(savedLevel)

	SetLevel(LevelDebug)

	Debug("debug: %d", 1)
	Info("info: %d", 2)
	Warn("warn: %d", 3)
	Error("error: %d", 4)
}
