package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GROCERY_COMPLETION_API_KEY", "")
	t.Setenv("GROCERY_BACKUP_S3_BUCKET", "")
	t.Setenv("GROCERY_LOG_LEVEL", "error")

	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func testDB(t *testing.T) []string {
	t.Helper()
	return []string{"--env", filepath.Join(t.TempDir(), "missing.env"), "--db", filepath.Join(t.TempDir(), "grocery.db")}
}

func TestRootHelp(t *testing.T) {
	out, err := run(t, "", "--help")
	if err != nil {
		t.Fatalf("execute root help: %v", err)
	}
	for _, cmd := range []string{"chat", "logs", "users", "keys", "backup", "restore"} {
		if !strings.Contains(out, cmd) {
			t.Errorf("help is missing %q", cmd)
		}
	}
}

func TestUsersListsDemoAccount(t *testing.T) {
	out, err := run(t, "", append(testDB(t), "users")...)
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	if !strings.Contains(out, "demo@example.com") {
		t.Errorf("output = %q", out)
	}
}

func TestKeysListsStoredEntries(t *testing.T) {
	args := testDB(t)
	out, err := run(t, "", append(args, "keys", "groceryApp")...)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if !strings.Contains(out, "groceryAppUsers") {
		t.Errorf("output = %q", out)
	}

	out, err = run(t, "", append(args, "keys", "groceryItems_")...)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if !strings.Contains(out, "No keys stored.") {
		t.Errorf("output = %q", out)
	}
}

func TestLogsEmpty(t *testing.T) {
	out, err := run(t, "", append(testDB(t), "logs")...)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if !strings.Contains(out, "No API calls logged.") {
		t.Errorf("output = %q", out)
	}
}

func TestChatOneShot(t *testing.T) {
	out, err := run(t, "", append(testDB(t), "chat", "--lang", "en", "What's", "on", "my", "grocery", "list?")...)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if strings.TrimSpace(out) == "" {
		t.Error("expected an answer")
	}
}

func TestChatConversation(t *testing.T) {
	out, err := run(t, "tell me about apples\nexit\n", append(testDB(t), "chat", "--lang", "en")...)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if !strings.Contains(out, "Nutrition Buddy: ") {
		t.Errorf("output = %q", out)
	}
}

func TestBackupWithoutStorage(t *testing.T) {
	_, err := run(t, "", append(testDB(t), "backup", "--passphrase", "pw")...)
	if err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Errorf("err = %v", err)
	}
}
