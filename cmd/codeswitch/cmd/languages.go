package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codeboard-app/codeswitch/internal/langcodes"
)

// languagesCmd represents the languages command.
var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages",
	Long: `List the languages the detection chain can assign, with their ISO
639-1 codes, English names, and native names.

Examples:
  codeswitch languages
  codeswitch languages --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		langs := langcodes.Supported()

		switch format {
		case "json":
			data, err := json.MarshalIndent(langs, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal languages: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		case "yaml":
			data, err := toYAML(langs)
			if err != nil {
				return fmt.Errorf("failed to marshal languages: %w", err)
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), string(data))
		case "text", "":
			var b strings.Builder
			fmt.Fprintf(&b, "%-6s %-22s %s\n", "CODE", "NAME", "NATIVE")
			for _, l := range langs {
				fmt.Fprintf(&b, "%-6s %-22s %s\n", l.Code, l.Name, l.NativeName)
			}
			fmt.Fprintf(&b, "\n%d languages\n", len(langs))
			_, _ = fmt.Fprint(cmd.OutOrStdout(), b.String())
		default:
			return fmt.Errorf("invalid format: %s (must be one of: text, json, yaml)", format)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
	languagesCmd.Flags().StringP("format", "f", "text", "output format: text, json, or yaml")
}
