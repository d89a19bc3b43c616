package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/julien-sobczak/rnotebook/internal/formats"
	"github.com/julien-sobczak/rnotebook/internal/notebook"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var outputFormat string

func init() {
	catCmd.Flags().StringVarP(&outputFormat, "format", "o", "json", "format of output. Allowed: json, yaml, debug")
	rootCmd.AddCommand(catCmd)
}

var catCmd = &cobra.Command{
	Use:   "cat FILE",
	Short: "Display a notebook",
	Long:  `Display a notebook using the canonical JSON model whatever the format of the file.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		doc, err := formats.CurrentManager().Load(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if err := dumpDocument(doc); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func dumpDocument(doc *notebook.Document) error {
	switch outputFormat {
	case "json":
		data, err := notebook.WriteJSON(doc)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "yaml":
		value, err := documentValue(doc)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(value)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
	case "debug":
		spew.Dump(doc)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
	return nil
}

// documentValue returns the canonical JSON model as generic values.
func documentValue(doc *notebook.Document) (any, error) {
	data, err := notebook.WriteJSON(doc)
	if err != nil {
		return nil, err
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, err
	}
	return value, nil
}
