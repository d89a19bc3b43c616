package main

import (
	"fmt"
	"os"

	"github.com/julien-sobczak/rnotebook/internal/formats"
	"github.com/spf13/cobra"
)

var targetFormat string

func init() {
	convertCmd.Flags().StringVarP(&targetFormat, "to", "t", "", "target format. Allowed: notebook, rmarkdown (default: the other one)")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert FILE...",
	Short: "Convert notebooks",
	Long:  `Convert .ipynb files to .Rmd files (with their rendered .nb.html file) and .Rmd files to .ipynb files.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		manager := formats.CurrentManager()
		for _, path := range args {
			to := targetFormat
			if to == "" {
				format, err := manager.FormatOf(path)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(1)
				}
				to = formats.RMarkdownFormat
				if format.Name == formats.RMarkdownFormat {
					to = formats.NotebookFormat
				}
			}
			newPath, err := manager.Convert(path, to)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			fmt.Println(newPath)
		}
	},
}
