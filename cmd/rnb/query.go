package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/itchyny/gojq"
	"github.com/julien-sobczak/rnotebook/internal/formats"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(queryCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query FILE EXPR",
	Short: "Query a notebook",
	Long: `Run a jq expression over the canonical JSON model of a notebook.

Ex: rnb query analysis.Rmd '.cells[] | select(.cell_type == "code") | .source'`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		query, err := gojq.Parse(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid expression %q: %v\n", args[1], err)
			os.Exit(1)
		}
		doc, err := formats.CurrentManager().Load(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		value, err := documentValue(doc)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		iter := query.Run(value)
		for {
			v, ok := iter.Next()
			if !ok {
				break
			}
			if err, ok := v.(error); ok {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			result, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			fmt.Println(string(result))
		}
	},
}
