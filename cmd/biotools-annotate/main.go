// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the biotools-annotate CLI.
// See docs/ARCHITECTURE § Pipeline Interface.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/biotools-annotate/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the biotools-annotate CLI.
var rootCmd = &cobra.Command{
	Use:   "biotools-annotate",
	Short: "LLM-assisted assessment of bio.tools candidate entries",
	Long: `biotools-annotate scores enriched candidate tool records with a local
Ollama model, classifies each candidate as add, review, or do_not_add,
and writes an auditable trace of every model exchange.

The score command runs a full scoring pass; classify recomputes decisions
from existing scores without touching the model.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./biotools-annotate.yaml or ~/.config/biotools-annotate/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("biotools-annotate")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "biotools-annotate"))
		}
	}

	viper.SetEnvPrefix("BIOTOOLS_ANNOTATE")
	viper.AutomaticEnv()
	setConfigDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setConfigDefaults() {
	def := types.DefaultPipelineConfig()
	viper.SetDefault("ollama.host", def.Scoring.Host)
	viper.SetDefault("ollama.temperature", def.Scoring.Temperature)
	viper.SetDefault("ollama.top_p", def.Scoring.TopP)
	viper.SetDefault("ollama.force_json_format", def.Scoring.ForceJSONFormat)
	viper.SetDefault("ollama.timeout_seconds", def.Scoring.TimeoutSeconds)
	viper.SetDefault("scoring.max_retries", def.Scoring.MaxRetries)
	viper.SetDefault("scoring.concurrency", def.Scoring.Concurrency)
	viper.SetDefault("scoring.trace_path", def.Scoring.TracePath)
	viper.SetDefault("classify.min_bio_score", def.Classify.MinBioScore)
	viper.SetDefault("classify.min_documentation_score", def.Classify.MinDocumentationScore)
	viper.SetDefault("classify.review_bio_score", def.Classify.ReviewBioScore)
	viper.SetDefault("classify.review_documentation_score", def.Classify.ReviewDocumentationScore)
	viper.SetDefault("output.out_dir", def.Output.OutDir)
}

// loadPipelineConfig assembles the stage configuration from viper (file,
// environment, defaults).
func loadPipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Scoring: types.ScoringConfig{
			OllamaConfig: types.OllamaConfig{
				Host:            viper.GetString("ollama.host"),
				Model:           viper.GetString("ollama.model"),
				Temperature:     viper.GetFloat64("ollama.temperature"),
				TopP:            viper.GetFloat64("ollama.top_p"),
				Seed:            viper.GetInt("ollama.seed"),
				NumCtx:          viper.GetInt("ollama.num_ctx"),
				ForceJSONFormat: viper.GetBool("ollama.force_json_format"),
				TimeoutSeconds:  viper.GetInt("ollama.timeout_seconds"),
			},
			MaxRetries:  viper.GetInt("scoring.max_retries"),
			Concurrency: viper.GetInt("scoring.concurrency"),
			Offline:     viper.GetBool("scoring.offline"),
			TracePath:   viper.GetString("scoring.trace_path"),
		},
		Classify: types.ClassifyConfig{
			MinBioScore:              viper.GetFloat64("classify.min_bio_score"),
			MinDocumentationScore:    viper.GetFloat64("classify.min_documentation_score"),
			ReviewBioScore:           viper.GetFloat64("classify.review_bio_score"),
			ReviewDocumentationScore: viper.GetFloat64("classify.review_documentation_score"),
			DocumentationWeights:     documentationWeights(),
		},
		Output: types.OutputConfig{
			OutDir:    viper.GetString("output.out_dir"),
			StorePath: viper.GetString("output.store_path"),
		},
	}
}

// documentationWeights parses classify.documentation_weights, tolerating
// numeric or string values. Unparseable entries are skipped so the
// defaults apply for their keys.
func documentationWeights() map[string]float64 {
	raw := viper.GetStringMapString("classify.documentation_weights")
	if len(raw) == 0 {
		return nil
	}
	weights := make(map[string]float64, len(raw))
	for k, v := range raw {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			continue
		}
		weights[normalizeWeightKey(k)] = f
	}
	return weights
}

// normalizeWeightKey maps config keys like "b1" to the canonical "B1".
func normalizeWeightKey(k string) string {
	if len(k) == 2 && (k[0] == 'b' || k[0] == 'B') {
		return "B" + k[1:]
	}
	return k
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
