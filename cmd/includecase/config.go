package includecase

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// settings is the merged view of flags, environment and config file.
type settings struct {
	Directory string
	DryRun    bool
	Yes       bool
	Auto      bool
	Format    string
	Ext       []string
	Exclude   []string
	Gitignore bool
	IndexAll  bool
	Jobs      int
	LogLevel  string
	NoColor   bool
}

func initConfig(v *viper.Viper, cfgFile string) error {
	// a local .env may carry INCLUDECASE_* settings; real env vars win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigType("yaml")
		v.SetConfigName(".includecase")
	}

	v.SetEnvPrefix("INCLUDECASE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func loadSettings(v *viper.Viper) settings {
	return settings{
		Directory: v.GetString("directory"),
		DryRun:    v.GetBool("dry-run"),
		Yes:       v.GetBool("yes"),
		Auto:      v.GetBool("auto"),
		Format:    v.GetString("format"),
		Ext:       v.GetStringSlice("ext"),
		Exclude:   v.GetStringSlice("exclude"),
		Gitignore: v.GetBool("gitignore"),
		IndexAll:  v.GetBool("index-all"),
		Jobs:      v.GetInt("jobs"),
		LogLevel:  v.GetString("log-level"),
		NoColor:   v.GetBool("no-color"),
	}
}
