package command

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type options struct {
	LineBuffering string `mapstructure:"line-buffering"`
	Errors        string `mapstructure:"errors"`
	Reset         bool   `mapstructure:"reset"`
	Color         bool   `mapstructure:"color"`
	Pager         string `mapstructure:"pager"`
	Debug         bool   `mapstructure:"debug"`
	LogFile       string `mapstructure:"log-file"`
}

// unmarshalFlags fills opts from cmd's flags, AUTOPAGE_* environment
// variables and the file named by --config, in that order of precedence.
func unmarshalFlags(cmd *cobra.Command, opts *options) error {
	v := viper.New()

	var bindErr error
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		name := flag.Name
		if name == "config" || name == "help" || bindErr != nil {
			return
		}
		if err := v.BindPFlag(name, flag); err != nil {
			bindErr = fmt.Errorf("error binding flag '%s': %w", name, err)
		}
	})
	if bindErr != nil {
		return bindErr
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetEnvPrefix("AUTOPAGE")

	cfgFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			return fmt.Errorf("error loading config file %s: %w", cfgFile, err)
		}
		v.SetConfigFile(cfgFile)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error loading config file %s: %w", cfgFile, err)
		}
	}

	return v.Unmarshal(opts)
}
