package testutil

import (
	"os"
	"testing"
)

func TestCreateTempCrontab(t *testing.T) {
	content := "0 2 * * * /usr/bin/backup.sh\n*/15 * * * * /usr/bin/check.sh\n"

	file, cleanup := CreateTempCrontab(t, content)
	defer cleanup()

	if !FileExists(file) {
		t.Fatal("temp crontab file should exist")
	}

	readContent, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read temp crontab: %v", err)
	}
	if string(readContent) != content {
		t.Errorf("content mismatch: got %q, want %q", string(readContent), content)
	}
}

func TestFileExists(t *testing.T) {
	file, cleanup := CreateTempCrontab(t, "test content")
	defer cleanup()

	if !FileExists(file) {
		t.Error("FileExists should return true for existing file")
	}
	if FileExists("/nonexistent/file.cron") {
		t.Error("FileExists should return false for non-existent file")
	}
}
