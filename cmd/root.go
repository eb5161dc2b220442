// Package cmd implements the pmp CLI commands using Cobra.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pmp-io/pmp/internal/adapters/config"
)

// Build-time version information, set via SetVersionInfo from main.go.
var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// Persistent flag values accessible to all subcommands.
var (
	cfgFile             string
	ProjectRoot         string
	Verbose             bool
	TemplatePacksPaths  string
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "pmp",
	Short: "Parametric multi-project infrastructure orchestrator",
	Long: `pmp orchestrates infrastructure-as-code project lifecycles from
parametric templates: it renders template packs into concrete projects,
tracks their declared dependencies as a graph, and drives an external
provisioner (OpenTofu or Terraform) through preview/apply/destroy across
that graph in dependency order.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd.Root())
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (env: PMP_CONFIG_HOME)")
	rootCmd.PersistentFlags().StringVarP(&ProjectRoot, "project", "p", ".", "infrastructure root directory")
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "enable verbose output (env: PMP_VERBOSE)")
	rootCmd.PersistentFlags().StringVar(&TemplatePacksPaths, "template-packs-paths", "", "colon-separated additional template-pack search paths")

	rootCmd.AddGroup(
		&cobra.Group{ID: "scaffolding", Title: "Scaffolding"},
		&cobra.Group{ID: "lifecycle", Title: "Lifecycle"},
		&cobra.Group{ID: "inspection", Title: "Inspection"},
	)
}

// Execute runs the root command. This is the main entry point called from main.go.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets build-time version information from ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date

	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("pmp %s (commit: %s, built: %s)\n", version, commit, date))
}

// initConfig sets up Viper configuration with the full hierarchy:
// CLI flags > PMP_* env vars > project pmp.toml > global XDG pmp.toml > defaults.
func initConfig(root *cobra.Command) error {
	viper.SetConfigType("toml")

	viper.SetDefault("executor.name", "tofu")
	viper.SetDefault("paths.template_packs_paths", "")
	viper.SetDefault("paths.policies_paths", "")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	} else {
		paths := config.NewXDGPathResolver()
		viper.SetConfigFile(paths.ConfigFile())
		_ = viper.ReadInConfig()
	}

	viper.SetConfigFile("pmp.toml")
	_ = viper.MergeInConfig()

	viper.SetEnvPrefix("PMP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	applyCustomAliases(root)

	return nil
}

// applyCustomAliases reads the [aliases] section from config and appends
// custom aliases to matching top-level commands.
func applyCustomAliases(root *cobra.Command) {
	aliasMap := viper.GetStringMap("aliases")
	if len(aliasMap) == 0 {
		return
	}

	commands := root.Commands()
	cmdByName := make(map[string]*cobra.Command, len(commands))
	for _, c := range commands {
		cmdByName[c.Name()] = c
	}

	for name, value := range aliasMap {
		c, ok := cmdByName[name]
		if !ok {
			continue
		}

		var aliases []string
		switch v := value.(type) {
		case string:
			aliases = []string{v}
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					aliases = append(aliases, s)
				}
			}
		default:
			continue
		}

		c.Aliases = append(c.Aliases, aliases...)
	}
}
