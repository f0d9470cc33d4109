package commands

import (
	"ClipVault/internal/cli/api"
	"ClipVault/internal/config"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type filesCmd struct{}

func (filesCmd) Name() string { return "files" }
func (filesCmd) Description() string {
	return "Показать доступные клипы (admin видит все)"
}
func (filesCmd) Usage() string { return "files" }

func (filesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	token := api.LoadToken()
	if token == "" {
		return errors.New("not logged in, run: cvcli login <username> <password>")
	}
	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/files"
	resp, body, err := api.Do(http.MethodGet, endpoint, token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		return errors.New("session expired, login again")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server error: %s", strings.TrimSpace(string(body)))
	}

	var list []struct {
		ID         int64  `json:"id"`
		Name       string `json:"name"`
		Path       string `json:"path"`
		UploadTime string `json:"upload_time"`
		Username   string `json:"username"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		return fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(body)))
	}
	if len(list) == 0 {
		fmt.Fprintln(Out, "Нет клипов")
		return nil
	}
	for _, f := range list {
		fmt.Fprintf(Out, "- %d  %s  by=%s  at=%s  %s\n", f.ID, f.Name, f.Username, f.UploadTime, f.Path)
	}
	fmt.Fprintf(Out, "Всего: %d\n", len(list))
	return nil
}

func init() { RegisterCmd(filesCmd{}) }
