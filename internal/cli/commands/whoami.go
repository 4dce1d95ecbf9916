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

type whoamiCmd struct{}

func (whoamiCmd) Name() string        { return "whoami" }
func (whoamiCmd) Description() string { return "Show the current profile" }
func (whoamiCmd) Usage() string       { return "whoami" }

func (whoamiCmd) Run(_ context.Context, cfg *config.Config, _ []string) error {
	token, err := auth.LoadToken()
	if err != nil {
		return errors.New("not logged in")
	}
	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/users/me"
	resp, body, err := api.GetJSON(endpoint, token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		return errors.New("session expired, login again")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var user struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &user); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	fmt.Fprintf(Out, "#%d %s <%s>\n", user.ID, user.Name, user.Email)
	return nil
}

func init() { RegisterCmd(whoamiCmd{}) }
