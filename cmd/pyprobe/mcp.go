package main

import (
	"github.com/spf13/cobra"

	"github.com/leonletto/pyprobe/internal/mcpserver"
)

func mcpCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol integration",
	}
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve pyprobe's inspect/run_file/run_script tools over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := mcpserver.NewServer(mcpserver.WithVersion(Version))
			return srv.Run(cmd.Context())
		},
	})
	return root
}
