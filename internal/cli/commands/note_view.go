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

type viewRequest struct {
	Password string `json:"password,omitempty"`
}

type noteViewResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsProtected bool   `json:"is_protected"`
	Message     string `json:"message"`
	Versions    []struct {
		ID      string `json:"id"`
		Version int64  `json:"version"`
		Title   string `json:"title"`
	} `json:"versions"`
}

type viewCmd struct{}

func (viewCmd) Name() string        { return "view" }
func (viewCmd) Description() string { return "Show a note (password for protected ones)" }
func (viewCmd) Usage() string       { return "view <note-id> [password]" }

func (viewCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return ErrUsage
	}
	id := args[0]
	var req viewRequest
	if len(args) > 1 {
		req.Password = args[1]
	}
	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/notes/" + id + "/view"
	resp, body, err := api.PostJSON(endpoint, req, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusUnauthorized {
		return fmt.Errorf("server status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var note noteViewResponse
	if err := json.Unmarshal(body, &note); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	fmt.Fprintf(Out, "%s\n", note.Title)
	if note.Message != "" {
		fmt.Fprintln(Out, note.Message)
		return nil
	}
	fmt.Fprintln(Out, note.Description)
	if len(note.Versions) > 0 {
		fmt.Fprintln(Out, "History:")
		for _, v := range note.Versions {
			fmt.Fprintf(Out, "  v%d %s (%s)\n", v.Version, v.Title, v.ID)
		}
	}
	return nil
}

func init() { RegisterCmd(viewCmd{}) }
