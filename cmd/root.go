package cmd

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/goasutlor/flexideploy/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "flexideploy",
	Short: "Deploy local projects to GitHub and the container registry",
	Long: `
	Flexideploy serves a local dashboard that stages a project directory,
	publishes it to a GitHub repository and builds and pushes its container
	image, streaming progress back to the browser.
	`,
	Version: constants.Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.flexideploy.yaml)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigName(".flexideploy")
	}

	viper.AutomaticEnv()
	viper.BindEnv(constants.TokenEnvVar)
	viper.BindEnv(constants.DockerContainerEnvVar)
	viper.BindEnv(constants.DockerEnabledEnvVar)
	viper.BindEnv(constants.CustomDrivesEnvVar)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
