package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/SmileofHaven/Audion-Changes/internal/util"
)

var (
	// Version is set at build time
	Version = "dev"

	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "coverd",
		Short: "Cover art reconciler - keep cover storage consistent and deduplicated",
		Long: `coverd keeps a music library's cover art consistent across its three
representations: inline blobs in the database, cover files on disk, and the
path pointers linking rows to those files. It migrates legacy inline covers
out to files, re-syncs pointers after external file placement, and merges
byte-identical covers within an album down to one canonical file.`,
		Version: Version,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/coverd.yaml)")
	rootCmd.PersistentFlags().String("db", "library.db", "library database file")
	rootCmd.PersistentFlags().String("covers-root", "covers", "root directory of the covers tree")
	rootCmd.PersistentFlags().String("artifacts", "artifacts", "directory for event logs")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "quiet output (errors only)")

	// Bind flags to viper
	viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("covers-root", rootCmd.PersistentFlags().Lookup("covers-root"))
	viper.BindPFlag("artifacts", rootCmd.PersistentFlags().Lookup("artifacts"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.SetConfigName("coverd")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("COVERD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && !viper.GetBool("quiet") {
		util.InfoLog("Using config file: %s", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
