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

type uploadCmd struct{}

func (uploadCmd) Name() string        { return "upload" }
func (uploadCmd) Description() string { return "Загрузить аудиоклип" }
func (uploadCmd) Usage() string       { return "upload <file>" }

func (uploadCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	token := api.LoadToken()
	if token == "" {
		return errors.New("not logged in, run: cvcli login <username> <password>")
	}
	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/upload"
	resp, body, err := api.PostMultipartFile(endpoint, "audio", args[0], token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
		fmt.Fprintln(Out, "Uploaded", args[0])
		return nil
	case http.StatusUnauthorized:
		return errors.New("session expired, login again")
	}
	return fmt.Errorf("server error: %s", strings.TrimSpace(string(body)))
}

func init() { RegisterCmd(uploadCmd{}) }
