package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mkravets/claimlens/internal/cache"
	"github.com/mkravets/claimlens/internal/llm"
	"github.com/mkravets/claimlens/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "claimlens",
	Short: "ClaimLens - insurance claim extraction and grounded policy Q&A",
	Long: `ClaimLens structures insurance claim paperwork and answers questions
about it from an indexed policy knowledge base.

It has two pipelines:
- extract: parse free-form claim text into a structured claim record
- ask: retrieve relevant policy passages and generate a cited,
  evidence-grounded answer for a claim

Answers never go beyond the retrieved sources. When no relevant
passages exist, or the generator output cannot be parsed, ClaimLens
degrades to a low-confidence answer flagged for manual review rather
than guessing.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("claimlens v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.claimlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.claimlens")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match CLAIMLENS_*
	viper.SetEnvPrefix("CLAIMLENS")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig builds the effective configuration: defaults, overlaid with
// the config file when one was found.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	if path := viper.ConfigFileUsed(); path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: ignoring malformed config %s: %v\n", path, err)
				cfg = model.DefaultConfig()
			}
		}
	}

	cfg.Output.Verbose = cfg.Output.Verbose || verbose
	return cfg
}

// providerConfig resolves one provider's settings, pulling API keys and the
// Ollama base URL from the environment the way hosted providers expect.
func providerConfig(pc model.ProviderConfig) (llm.Config, error) {
	c := llm.ConfigFromModel(pc)

	switch pc.Provider {
	case "openai":
		if c.APIKey == "" {
			c.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if c.APIKey == "" {
			return c, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		if c.APIKey == "" {
			c.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if c.APIKey == "" {
			return c, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if c.BaseURL == "" {
			c.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
	}

	return c, nil
}

// newEmbedCache builds the embedding cache, or nil when disabled.
func newEmbedCache(cfg model.CacheConfig) cache.Cache {
	if !cfg.Enabled {
		return nil
	}
	return cache.NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
}
