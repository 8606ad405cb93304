package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/htmldiff"
	"github.com/vango-dev/htmldiff/internal/errors"
)

func diffCmd() *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "diff <old.html> <new.html>",
		Short: "Diff two HTML files and print the resulting patches",
		Long: `diff parses old.html and new.html, computes the patch stream that
transforms the former into the latter, and prints it as JSON. Useful for
inspecting what the matcher and edit-script generator decided without a
browser in the loop.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(args[0], args[1], pretty)
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", true, "pretty-print the patch JSON")

	return cmd
}

func runDiff(oldPath, newPath string, pretty bool) error {
	oldHTML, err := os.ReadFile(oldPath)
	if err != nil {
		return errors.New("E020").WithDetail(oldPath).Wrap(err)
	}
	newHTML, err := os.ReadFile(newPath)
	if err != nil {
		return errors.New("E020").WithDetail(newPath).Wrap(err)
	}

	patches, err := htmldiff.DiffHTML(string(oldHTML), string(newHTML))
	if err != nil {
		return err
	}

	var data []byte
	if pretty {
		data, err = json.MarshalIndent(patches, "", "  ")
	} else {
		data, err = json.Marshal(patches)
	}
	if err != nil {
		return err
	}

	fmt.Println(string(data))
	if len(patches) == 0 {
		info("no patches: documents are structurally identical")
	} else {
		success("%d patches", len(patches))
	}
	return nil
}
