package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	selectTags    []string
	excludeTags   []string
	queryPattern  string
	ignoreCase    bool
	ignoreTagCase bool
	invertMatch   bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "List files matching select/exclude tag expressions and an optional path pattern",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, _, err := openVault()
		if err != nil {
			return err
		}

		paths, err := v.ExecuteQuery(cmd.Context(), selectTags, excludeTags, ignoreTagCase, queryPattern, ignoreCase, invertMatch)
		if err != nil {
			return err
		}

		for _, p := range paths {
			fmt.Println(p)
		}
		return nil
	},
}

func init() {
	queryCmd.Flags().StringSliceVar(&selectTags, "select", nil, "tag expression(s) to select, OR'd together")
	queryCmd.Flags().StringSliceVar(&excludeTags, "exclude", nil, "tag expression(s) to exclude, OR'd together")
	queryCmd.Flags().StringVar(&queryPattern, "pattern", ".*", "regex applied to the file path")
	queryCmd.Flags().BoolVar(&ignoreCase, "ignore-case", false, "fold case when matching pattern")
	queryCmd.Flags().BoolVar(&ignoreTagCase, "ignore-tag-case", false, "fold case when matching tag names")
	queryCmd.Flags().BoolVar(&invertMatch, "invert-match", false, "invert the pattern match")
}
