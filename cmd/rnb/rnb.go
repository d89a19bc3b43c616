package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/julien-sobczak/rnotebook/internal/core"
)

var verboseInfo bool
var verboseDebug bool
var verboseTrace bool

var rootCmd = &cobra.Command{
	Use:   "rnb",
	Short: "RNB converts notebooks to R Markdown and back",
	Long:  `Convert notebooks between the canonical JSON model and R Markdown source files with their rendered .nb.html files.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Enable verbose output. The most verbose level wins when multiple flags are passsed.
		if verboseInfo {
			core.CurrentLogger().SetVerboseLevel(core.VerboseInfo)
		}
		if verboseDebug {
			core.CurrentLogger().SetVerboseLevel(core.VerboseDebug)
		}
		if verboseTrace {
			core.CurrentLogger().SetVerboseLevel(core.VerboseTrace)
		}

		// Flags win over environment variables that win over .rnb/config
		if viper.IsSet("strict") {
			core.CurrentConfig().SetStrict(viper.GetBool("strict"))
		}
		if viper.IsSet("language") {
			core.CurrentConfig().SetLanguage(viper.GetString("language"))
		}
	},
}

func init() {
	// Use PersistentFlags to make flags accessible to sub-commands
	rootCmd.PersistentFlags().BoolVarP(&verboseInfo, "v", "", false, "enable verbose info output")
	rootCmd.PersistentFlags().BoolVarP(&verboseDebug, "vv", "", false, "enable verbose debug output")
	rootCmd.PersistentFlags().BoolVarP(&verboseTrace, "vvv", "", false, "enable verbose trace output")
	rootCmd.PersistentFlags().Bool("strict", false, "fail when merged Markdown cells define conflicting metadata")
	rootCmd.PersistentFlags().String("language", "", "language of code cells without one")

	// Ex: RNB_STRICT=true rnb convert analysis.Rmd
	viper.SetEnvPrefix("RNB")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("strict", rootCmd.PersistentFlags().Lookup("strict"))
	_ = viper.BindPFlag("language", rootCmd.PersistentFlags().Lookup("language"))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
