package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GameRef remembers which server-side game the CLI is playing.
type GameRef struct {
	GameID  string `json:"game_id"`
	Country string `json:"country"`
	Crop    string `json:"crop"`
}

func baseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".harvest")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

func gamePath() (string, error) {
	dir, err := baseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "game.json"), nil
}

func SaveGameRef(ref GameRef) error {
	path, err := gamePath()
	if err != nil {
		return err
	}
	body, err := json.MarshalIndent(ref, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o600)
}

func LoadGameRef() (GameRef, error) {
	path, err := gamePath()
	if err != nil {
		return GameRef{}, err
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return GameRef{}, err
	}
	var ref GameRef
	if err := json.Unmarshal(body, &ref); err != nil {
		return GameRef{}, err
	}
	if strings.TrimSpace(ref.GameID) == "" {
		return GameRef{}, fmt.Errorf("no game in progress, start one with `harvest new`")
	}
	return ref, nil
}

func ClearGameRef() error {
	path, err := gamePath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return os.Remove(path)
}
