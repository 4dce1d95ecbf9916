package commands

import (
	"NoteKeeper/internal/cli/api"
	"NoteKeeper/internal/config"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	fsrepo "NoteKeeper/internal/cli/repo/fs"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Create a new account" }
func (registerCmd) Usage() string       { return "register <name> <email> <password>" }

func (registerCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) < 3 {
		return ErrUsage
	}
	name, email, password := args[0], args[1], args[2]
	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/auth/register"
	resp, body, err := api.PostJSON(endpoint, RegisterRequest{Name: name, Email: email, Password: password}, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusCreated:
		_ = fsrepo.AuthFSStore{}.SaveEmail(email)
		fmt.Fprintln(Out, "Registered successfully, now login")
		return nil
	case http.StatusBadRequest:
		return fmt.Errorf("registration rejected: %s", strings.TrimSpace(string(body)))
	default:
		return errors.New("server error: " + strings.TrimSpace(string(body)))
	}
}

func init() { RegisterCmd(registerCmd{}) }
