package notifier

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/peptalk/peptalk-cli/internal/constants"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func TestGetTrayAppConfigDir(t *testing.T) {
	tempDir := t.TempDir()

	oldUserConfigDirFunc := userConfigDirFunc
	defer func() { userConfigDirFunc = oldUserConfigDirFunc }()
	userConfigDirFunc = func() (string, error) {
		return tempDir, nil
	}

	t.Run("default location", func(t *testing.T) {
		want := filepath.Join(tempDir, constants.TrayAppIdentifier)
		dir, err := GetTrayAppConfigDir()
		if err != nil {
			t.Fatalf("GetTrayAppConfigDir() failed: %v", err)
		}
		if dir != want {
			t.Errorf("GetTrayAppConfigDir() = %s, want %s", dir, want)
		}
	})

	t.Run("lockfile dir override", func(t *testing.T) {
		trayConfigDir := filepath.Join(tempDir, constants.TrayAppIdentifier)
		if err := os.MkdirAll(trayConfigDir, 0755); err != nil {
			t.Fatal(err)
		}

		customDir := "/custom/peptalk/dir"
		settingsJSON := fmt.Sprintf(`{"settings": {"lockfile_dir": "%s"}}`, customDir)
		if err := os.WriteFile(filepath.Join(trayConfigDir, "settings.json"), []byte(settingsJSON), 0644); err != nil {
			t.Fatal(err)
		}

		dir, err := GetTrayAppConfigDir()
		if err != nil {
			t.Fatalf("GetTrayAppConfigDir() failed: %v", err)
		}
		if dir != customDir {
			t.Errorf("GetTrayAppConfigDir() = %s, want %s", dir, customDir)
		}
	})
}

func TestFindAndValidateTrayProcess(t *testing.T) {
	oldFindProcessFunc := findProcessFunc
	defer func() { findProcessFunc = oldFindProcessFunc }()

	lockfilePath := filepath.Join(t.TempDir(), constants.NotifierLockfileName)
	writeLockfile := func(content string) {
		t.Helper()
		if err := os.WriteFile(lockfilePath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("missing lockfile", func(t *testing.T) {
		if _, _, err := findAndValidateTrayProcess(filepath.Join(t.TempDir(), "nope.lock")); err == nil {
			t.Error("expected error for missing lockfile")
		}
	})

	badLockfiles := map[string]string{
		"two fields":        "8080|12345",
		"not delimited":     "invalid",
		"empty secret":      "8080|12345|",
		"empty port":        "|12345|testsecret123",
		"port out of range": "99999|12345|testsecret123",
		"non-numeric pid":   "8080|abc|testsecret123",
	}
	for name, content := range badLockfiles {
		t.Run(name, func(t *testing.T) {
			writeLockfile(content)
			if _, _, err := findAndValidateTrayProcess(lockfilePath); err == nil {
				t.Errorf("expected error for lockfile %q", content)
			}
		})
	}

	t.Run("process not running", func(t *testing.T) {
		writeLockfile("8080|12345|testsecret123")
		findProcessFunc = func(pid int) (ps.Process, error) {
			return nil, nil
		}
		if _, _, err := findAndValidateTrayProcess(lockfilePath); err == nil {
			t.Error("expected error for missing process")
		}
	})

	t.Run("wrong executable", func(t *testing.T) {
		writeLockfile("8080|12345|testsecret123")
		findProcessFunc = func(pid int) (ps.Process, error) {
			return &mockProcess{pid: pid, executable: "other-app"}, nil
		}
		if _, _, err := findAndValidateTrayProcess(lockfilePath); err == nil {
			t.Error("expected error for wrong executable")
		}
	})

	t.Run("valid tray process", func(t *testing.T) {
		writeLockfile("8080|12345|testsecret123")
		findProcessFunc = func(pid int) (ps.Process, error) {
			return &mockProcess{pid: pid, executable: "peptalk-tray"}, nil
		}
		port, secret, err := findAndValidateTrayProcess(lockfilePath)
		if err != nil {
			t.Fatalf("findAndValidateTrayProcess() failed: %v", err)
		}
		if port != "8080" {
			t.Errorf("port = %s, want 8080", port)
		}
		if secret != "testsecret123" {
			t.Errorf("secret = %s, want testsecret123", secret)
		}
	})
}

func TestSendNotification(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("X-Peptalk-Secret") != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Unauthorized"))
			return
		}

		var payload WebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if payload.Text == "fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	parts := strings.Split(server.URL, ":")
	port := parts[len(parts)-1]

	t.Run("success", func(t *testing.T) {
		if err := sendNotification(port, "test-secret", WebhookPayload{Title: "PepTalk Buddy", Text: "hello"}); err != nil {
			t.Errorf("sendNotification() failed: %v", err)
		}
	})

	t.Run("missing secret", func(t *testing.T) {
		if err := sendNotification(port, "", WebhookPayload{Text: "hello"}); err == nil {
			t.Error("expected error for missing secret")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		if err := sendNotification(port, "wrong-secret", WebhookPayload{Text: "hello"}); err == nil {
			t.Error("expected error for wrong secret")
		}
	})

	t.Run("server failure", func(t *testing.T) {
		if err := sendNotification(port, "test-secret", WebhookPayload{Text: "fail"}); err == nil {
			t.Error("expected error for server failure")
		}
	})
}
