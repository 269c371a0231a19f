package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/groqcli/internal/vision"
)

var visionPrompt string

func init() {
	rootCmd.AddCommand(visionCmd)
	visionCmd.Flags().StringVarP(&visionPrompt, "prompt", "p", "", "instruction sent with the images (default from VISION_PROMPT)")
}

var visionCmd = &cobra.Command{
	Use:   "vision [image...]",
	Short: "Describe images (paths or http(s) URLs) with the vision model",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}

		sources := args
		if len(sources) == 0 {
			sources = []string{cfg.Vision.Image}
		}
		prompt := visionPrompt
		if prompt == "" {
			prompt = cfg.Vision.Prompt
		}

		d := vision.New(newProvider(cfg), newResolver(cfg), vision.Options{
			Model:       cfg.Vision.Model,
			Temperature: cfg.Vision.Temperature,
			MaxTokens:   cfg.Vision.MaxTokens,
			TopP:        cfg.Vision.TopP,
		})

		completion, err := d.Describe(cmd.Context(), prompt, sources...)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), vision.Summary(completion))
		return nil
	},
}
