package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/todos/internal/paths"
)

// configView is the printed form of settings; durations are rendered as
// strings like "1.5s".
type configView struct {
	File           string `yaml:"file"`
	ConfigDir      string `yaml:"config_dir"`
	DataDir        string `yaml:"data_dir"`
	OwnerID        int64  `yaml:"owner_id"`
	BaseURL        string `yaml:"base_url"`
	RequestTimeout string `yaml:"request_timeout"`
	LogLevel       string `yaml:"log_level"`
	LogFile        string `yaml:"log_file"`
	ListenAddr     string `yaml:"listen_addr"`
	ServerLatency  string `yaml:"server_latency"`
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.settings
			out := configView{
				File:           a.configPath(),
				ConfigDir:      s.ConfigDir,
				DataDir:        s.DataDir,
				OwnerID:        s.OwnerID,
				BaseURL:        s.BaseURL,
				RequestTimeout: s.RequestTimeout.String(),
				LogLevel:       s.LogLevel,
				LogFile:        s.LogFile,
				ListenAddr:     s.ListenAddr,
				ServerLatency:  s.ServerLatency.String(),
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(out); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

// configPath returns config.yaml in the resolved config directory.
func (a *app) configPath() string {
	if a.viper != nil && a.viper.ConfigFileUsed() != "" {
		return a.viper.ConfigFileUsed()
	}
	return filepath.Join(a.settings.ConfigDir, paths.ConfigFileName)
}
