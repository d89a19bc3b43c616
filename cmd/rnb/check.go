package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/julien-sobczak/rnotebook/internal/formats"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check FILE...",
	Short: "Check notebooks are stable",
	Long:  `Read notebooks, write them back, and show the differences when the files are not reproduced identically.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		unstable := 0
		for _, path := range args {
			patch, err := formats.Check(path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			if patch == "" {
				fmt.Printf("%s: OK\n", path)
				continue
			}
			unstable++
			printDiff(patch)
		}
		if unstable > 0 {
			fmt.Fprintf(os.Stderr, "%d file(s) not reproduced identically\n", unstable)
			os.Exit(1)
		}
	},
}

func printDiff(diff string) {
	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---") {
			color.Red(line)
		} else if strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++") {
			color.Green(line)
		} else {
			fmt.Println(line)
		}
	}
}
