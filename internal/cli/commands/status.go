package commands

import (
	"ClipVault/internal/cli/api"
	"ClipVault/internal/config"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Показать текущего пользователя" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/me"
	resp, body, err := api.Do(http.MethodGet, endpoint, api.LoadToken())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var me struct {
		LoggedIn bool `json:"loggedIn"`
		User     *struct {
			ID       int64  `json:"id"`
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(body, &me); err != nil {
		return fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(body)))
	}
	if !me.LoggedIn || me.User == nil {
		fmt.Fprintln(Out, "Not logged in")
		return nil
	}
	fmt.Fprintf(Out, "Logged in as %s (id=%d, role=%s)\n", me.User.Username, me.User.ID, me.User.Role)
	return nil
}

func init() { RegisterCmd(statusCmd{}) }
