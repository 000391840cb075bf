package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/codeboard-app/codeswitch/internal/engine"
	"github.com/codeboard-app/codeswitch/internal/langcodes"
	"github.com/codeboard-app/codeswitch/internal/pipeline"
)

// analyzeCmd represents the analyze command.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Analyze text for code-switching",
	Long: `Analyze a text for language switches: per-word language assignment,
switch points, phrase grouping, and calibrated confidence.

Examples:
  codeswitch analyze "I'm going to the store, pero first I need to finish"
  codeswitch analyze "Sí yes" --languages Spanish,English
  codeswitch analyze "Hello mundo" --mode fast --format json
  codeswitch analyze "Hello mundo" --format yaml --output result.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		text := args[0]

		var userLanguages []string
		if langsCSV, _ := cmd.Flags().GetString("languages"); langsCSV != "" {
			for _, l := range strings.Split(langsCSV, ",") {
				if l = strings.TrimSpace(l); l != "" {
					userLanguages = append(userLanguages, l)
				}
			}
		}

		mode := cfg.Engine.DefaultMode
		if cmd.Flags().Changed("mode") {
			mode, _ = cmd.Flags().GetString("mode")
		}
		switch mode {
		case engine.ModeFast, engine.ModeBalanced, engine.ModeAccurate:
		default:
			return fmt.Errorf("invalid mode: %s (must be one of: fast, balanced, accurate)", mode)
		}

		format := cfg.Output.Format
		if cmd.Flags().Changed("format") {
			format, _ = cmd.Flags().GetString("format")
		}

		opts := cfg.ToEngineOptions()
		if cmd.Flags().Changed("remote-endpoint") {
			opts.RemoteEndpoint, _ = cmd.Flags().GetString("remote-endpoint")
		}
		if cmd.Flags().Changed("low-accuracy") {
			opts.LowAccuracyMode, _ = cmd.Flags().GetBool("low-accuracy")
		}
		if cmd.Flags().Changed("timeout") {
			sec, _ := cmd.Flags().GetInt("timeout")
			opts.Timeout = time.Duration(sec) * time.Second
		}

		ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
		defer cancel()

		svc := engine.NewService(opts)
		res := svc.Analyze(ctx, engine.Request{
			Text:          text,
			UserLanguages: userLanguages,
			Mode:          mode,
		})
		res.PerformanceMode = mode

		output, err := formatResult(res, format, cfg.Output.ConfidencePrecision)
		if err != nil {
			return err
		}

		if outFile, _ := cmd.Flags().GetString("output"); outFile != "" {
			if err := os.WriteFile(outFile, []byte(output), 0o600); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			return nil
		}

		_, _ = fmt.Fprint(cmd.OutOrStdout(), output)
		return nil
	},
}

// formatResult renders an analysis result as json, yaml, or text.
func formatResult(res *pipeline.AnalysisResult, format string, precision int) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal result: %w", err)
		}
		return string(data) + "\n", nil
	case "yaml":
		data, err := toYAML(res)
		if err != nil {
			return "", fmt.Errorf("failed to marshal result: %w", err)
		}
		return string(data), nil
	case "text", "":
		return formatText(res, precision), nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be one of: text, json, yaml)", format)
	}
}

// toYAML marshals through JSON first so the YAML keys match the wire
// field names instead of Go struct names.
func toYAML(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var obj interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	return yaml.Marshal(obj)
}

// formatText renders a human-readable summary.
func formatText(res *pipeline.AnalysisResult, precision int) string {
	var b strings.Builder

	names := make([]string, len(res.DetectedLanguages))
	for i, code := range res.DetectedLanguages {
		names[i] = fmt.Sprintf("%s (%s)", langcodes.ToName(code), code)
	}
	if len(names) == 0 {
		names = []string{"none"}
	}

	fmt.Fprintf(&b, "Languages: %s\n", strings.Join(names, ", "))
	fmt.Fprintf(&b, "Switch points: %d\n", len(res.SwitchPoints))
	fmt.Fprintf(&b, "Confidence: %.*f (calibrated: %.*f, reliability: %.*f)\n",
		precision, res.Confidence, precision, res.CalibratedConfidence, precision, res.ReliabilityScore)
	fmt.Fprintf(&b, "Quality: %s\n", res.QualityAssessment)

	if len(res.Phrases) > 0 {
		b.WriteString("\nPhrases:\n")
		for _, p := range res.Phrases {
			marker := " "
			if p.IsUserLanguage {
				marker = "*"
			}
			fmt.Fprintf(&b, "  %s [%s] %.*f  %q (tokens %d-%d)\n",
				marker, p.Language, precision, p.Confidence, p.Text, p.StartIndex, p.EndIndex)
		}
	}

	return b.String()
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringP("languages", "l", "", "comma-separated user languages (names or ISO codes)")
	analyzeCmd.Flags().StringP("mode", "m", engine.ModeBalanced, "performance mode: fast, balanced, or accurate")
	analyzeCmd.Flags().StringP("format", "f", "text", "output format: text, json, or yaml")
	analyzeCmd.Flags().StringP("output", "o", "", "write output to file instead of stdout")
	analyzeCmd.Flags().String("remote-endpoint", "", "URL of an external detection service to try first")
	analyzeCmd.Flags().Bool("low-accuracy", false, "trade accuracy for lower memory usage")
	analyzeCmd.Flags().Int("timeout", int(engine.DefaultTimeout/time.Second), "engine timeout in seconds")
}
