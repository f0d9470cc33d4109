package commands

import (
	"ClipVault/internal/cli/api"
	"ClipVault/internal/config"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Create a new account" }
func (registerCmd) Usage() string       { return "register <username> <password>" }

func (registerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/register"
	resp, body, err := api.PostJSON(endpoint, RegisterRequest{Username: args[0], Password: args[1]}, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
		fmt.Fprintln(Out, "Registered. Now run: cvcli login", args[0], "<password>")
		return nil
	case http.StatusConflict:
		return errors.New("username already taken")
	case http.StatusBadRequest:
		return errors.New("username and password must be non-empty")
	}
	return fmt.Errorf("server error: %s", strings.TrimSpace(string(body)))
}

func init() { RegisterCmd(registerCmd{}) }
