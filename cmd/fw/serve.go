package main

import (
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kvanderzwet/fieldwork/pkg/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		port      int
		noBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if port != 0 {
				cfg.Server.Port = port
			}

			log := logrus.New()
			log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

			srv := server.New(cfg, a.store, log)
			fmt.Println(successStyle.Render("fieldwork dashboard on " + srv.Addr()))
			if !cfg.Server.Auth {
				fmt.Println(warnStyle.Render("auth disabled: every caller has the admin role"))
			}

			if !noBrowser && interactive() {
				go func() {
					time.Sleep(300 * time.Millisecond)
					openBrowser(srv.Addr())
				}()
			}
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides fieldwork.yaml)")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "do not open the dashboard in a browser")
	return cmd
}

// openBrowser is best effort; serving continues regardless.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
