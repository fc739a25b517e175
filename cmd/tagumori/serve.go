package main

import (
	"github.com/spf13/cobra"

	"github.com/SimoHellgren/tagumori/internal/mcpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run an MCP server over stdio exposing query/add_tags/remove_tags tools",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, _, err := openVault()
		if err != nil {
			return err
		}
		return mcpserver.Serve(v)
	},
}
