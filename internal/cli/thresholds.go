package cli

import (
	"PostureGuard/pkg/posture"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// loadThresholds returns the built-in thresholds when path is empty.
func loadThresholds(path string) (posture.Thresholds, error) {
	if path == "" {
		return posture.DefaultThresholds(), nil
	}
	return posture.LoadThresholds(path)
}

func thresholdsCmd() *cobra.Command {
	var file string

	c := &cobra.Command{
		Use:   "thresholds",
		Short: "Print the effective rule thresholds as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := loadThresholds(file)
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()

			return enc.Encode(t)
		},
	}

	c.Flags().StringVarP(&file, "file", "f", "", "Thresholds YAML file (optional; defaults are used if omitted)")
	return c
}
