package commands

import (
	"NoteKeeper/internal/cli/api"
	"NoteKeeper/internal/cli/auth"
	"NoteKeeper/internal/config"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type createNoteRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Password    string `json:"password,omitempty"`
}

type addCmd struct{}

func (addCmd) Name() string        { return "add" }
func (addCmd) Description() string { return "Create a note, optionally protected" }
func (addCmd) Usage() string       { return "add <title> <description> [password]" }

func (addCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	token, err := auth.LoadToken()
	if err != nil {
		return errors.New("not logged in")
	}
	req := createNoteRequest{Title: args[0], Description: args[1]}
	if len(args) > 2 {
		req.Password = args[2]
	}
	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/notes/create"
	resp, body, err := api.PostJSON(endpoint, req, token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusCreated:
		var note struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(body, &note); err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		fmt.Fprintf(Out, "Created note %s\n", note.ID)
		return nil
	case http.StatusUnauthorized:
		return errors.New("session expired, login again")
	case http.StatusBadRequest:
		return fmt.Errorf("rejected: %s", strings.TrimSpace(string(body)))
	default:
		return fmt.Errorf("server status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
}

func init() { RegisterCmd(addCmd{}) }
