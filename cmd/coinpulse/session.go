package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"coinpulse/pkg/client"
)

// session is what login persists between invocations.
type session struct {
	Server string      `json:"server"`
	Token  string      `json:"token"`
	User   client.User `json:"user"`
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".coinpulse-session.json"
	}
	return filepath.Join(dir, "coinpulse", "session.json")
}

func loadSession() (*session, error) {
	b, err := os.ReadFile(*sessionPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("not logged in, run login first")
	}
	if err != nil {
		return nil, err
	}
	var s session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("corrupt session file %s: %w", *sessionPath, err)
	}
	return &s, nil
}

func saveSession(s *session) error {
	if err := os.MkdirAll(filepath.Dir(*sessionPath), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(*sessionPath, b, 0o600)
}

// authedClient returns a client carrying the saved token.
func authedClient() (*client.Client, *session, error) {
	s, err := loadSession()
	if err != nil {
		return nil, nil, err
	}
	server := s.Server
	if server == "" {
		server = *serverURL
	}
	return client.New(server, client.WithToken(s.Token)), s, nil
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
}
