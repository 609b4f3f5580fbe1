package system

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/feedingfoundation/locator/internal/cli"
	"github.com/feedingfoundation/locator/internal/constants"
	"github.com/feedingfoundation/locator/internal/server"
)

type ServeCmd struct {
	Addr    string   `help:"Listen address." default:"${listen_addr}"`
	Reload  string   `help:"Cron spec for re-reading the store; empty disables reloading." default:"${reload_spec}"`
	Rate    int      `help:"Requests per minute allowed per client IP." default:"${rate_limit}"`
	Origins []string `help:"Allowed CORS origins." default:"*"`
}

// Vars supplies the defaults referenced by ServeCmd's tags.
func Vars() map[string]string {
	return map[string]string{
		"listen_addr": constants.DefaultListenAddr,
		"reload_spec": constants.DefaultReloadSpec,
		"rate_limit":  strconv.Itoa(constants.DefaultRequestsPerMin),
	}
}

func (cmd *ServeCmd) Run(ctx *cli.Context) error {
	srv, err := server.New(ctx.Store, server.Config{
		Addr:           cmd.Addr,
		RequestsPerMin: cmd.Rate,
		AllowedOrigins: cmd.Origins,
		Location:       ctx.Location,
		ReloadSpec:     cmd.Reload,
	})
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(sigCtx)
}
