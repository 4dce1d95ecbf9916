package commands

import (
	"NoteKeeper/internal/cli/api"
	"NoteKeeper/internal/config"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// noteListItem — строка публичного списка заметок.
type noteListItem struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	IsProtected  bool   `json:"is_protected"`
	VersionCount int64  `json:"version_count"`
	User         *struct {
		Name string `json:"name"`
	} `json:"user"`
}

type notesCmd struct{}

func (notesCmd) Name() string        { return "notes" }
func (notesCmd) Description() string { return "List all notes" }
func (notesCmd) Usage() string       { return "notes" }

func (notesCmd) Run(_ context.Context, cfg *config.Config, _ []string) error {
	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/notes/"
	resp, body, err := api.GetJSON(endpoint, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var notes []noteListItem
	if err := json.Unmarshal(body, &notes); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if len(notes) == 0 {
		fmt.Fprintln(Out, "No notes yet")
		return nil
	}
	for _, n := range notes {
		lock := " "
		if n.IsProtected {
			lock = "*"
		}
		owner := "?"
		if n.User != nil {
			owner = n.User.Name
		}
		fmt.Fprintf(Out, "%s %s  %-24s v%-3d by %s\n", lock, n.ID, n.Title, n.VersionCount, owner)
	}
	return nil
}

func init() { RegisterCmd(notesCmd{}) }
