package commands

import (
	"ClipVault/internal/cli/api"
	"ClipVault/internal/config"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

type rmCmd struct{}

func (rmCmd) Name() string        { return "rm" }
func (rmCmd) Description() string { return "Удалить клип по id" }
func (rmCmd) Usage() string       { return "rm <id>" }

func (rmCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
		return ErrUsage
	}
	token := api.LoadToken()
	if token == "" {
		return errors.New("not logged in, run: cvcli login <username> <password>")
	}
	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/files/" + args[0]
	resp, body, err := api.Do(http.MethodDelete, endpoint, token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
		fmt.Fprintln(Out, "Deleted", args[0])
		return nil
	case http.StatusNotFound:
		return errors.New("no such file")
	case http.StatusForbidden:
		return errors.New("file belongs to another user")
	case http.StatusUnauthorized:
		return errors.New("session expired, login again")
	}
	return fmt.Errorf("server error: %s", strings.TrimSpace(string(body)))
}

func init() { RegisterCmd(rmCmd{}) }
