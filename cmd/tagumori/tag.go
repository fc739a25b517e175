package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tagApplyTagalongs bool

var tagCmd = &cobra.Command{
	Use:   "tag <tags> <file>...",
	Short: "Attach a tag expression to one or more files",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, _, err := openVault()
		if err != nil {
			return err
		}

		tags, files := args[0], args[1:]
		if err := v.AddTagsToFiles(cmd.Context(), files, []string{tags}, tagApplyTagalongs); err != nil {
			return err
		}
		fmt.Printf("tagged %d file(s)\n", len(files))
		return nil
	},
}

var untagCmd = &cobra.Command{
	Use:   "untag <tags> <file>...",
	Short: "Detach a tag expression's terminal nodes from one or more files",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, _, err := openVault()
		if err != nil {
			return err
		}

		tags, files := args[0], args[1:]
		if err := v.RemoveTagsFromFiles(cmd.Context(), files, []string{tags}); err != nil {
			return err
		}
		fmt.Printf("untagged %d file(s)\n", len(files))
		return nil
	},
}

var setTagsCmd = &cobra.Command{
	Use:   "set-tags <tags> <file>...",
	Short: "Replace a file's tags with exactly the given tag expression",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, _, err := openVault()
		if err != nil {
			return err
		}

		tags, files := args[0], args[1:]
		if err := v.SetTagsOnFiles(cmd.Context(), files, []string{tags}, tagApplyTagalongs); err != nil {
			return err
		}
		fmt.Printf("set tags on %d file(s)\n", len(files))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{tagCmd, setTagsCmd} {
		c.Flags().BoolVar(&tagApplyTagalongs, "apply-tagalongs", true, "materialize the tagalong closure after attaching")
	}
}
