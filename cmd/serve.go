package cmd

import (
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/goasutlor/flexideploy/constants"
	"github.com/goasutlor/flexideploy/logstream"
	"github.com/goasutlor/flexideploy/server"
)

var port uint16

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the deployment dashboard",
	Long: `
	1.  serves the dashboard UI and its JSON endpoints
	2.  scans local directories for deployable projects
	3.  stages the chosen project, commits and pushes it to GitHub
	4.  builds the container image and pushes it to ghcr.io
	5.  streams deployment logs to the browser over server-sent events
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logs := logstream.New()
		srv := server.New(logs)

		addr := fmt.Sprintf(":%d", port)
		log.WithFields(log.Fields{
			"addr":    addr,
			"version": constants.Version,
		}).Info("starting dashboard")
		return http.ListenAndServe(addr, srv.Routes())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Uint16VarP(&port, "port", "p", constants.DefaultPort, "port on which to listen")
}
