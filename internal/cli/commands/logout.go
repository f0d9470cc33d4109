package commands

import (
	"ClipVault/internal/cli/api"
	fsrepo "ClipVault/internal/cli/repo/fs"
	"ClipVault/internal/config"
	"context"
	"fmt"
	"net/http"
	"strings"
)

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "Revoke the session and forget the stored cookie" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	token := api.LoadToken()
	if token != "" {
		endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/logout"
		resp, _, err := api.Do(http.MethodGet, endpoint, token)
		if err == nil {
			resp.Body.Close()
		}
		// сервер мог уже забыть сессию — локальный токен чистим в любом случае
	}
	if err := (fsrepo.AuthFSStore{}).Clear(); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Logged out")
	return nil
}

func init() { RegisterCmd(logoutCmd{}) }
