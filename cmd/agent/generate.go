package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"scad-studio-be/internal/config"
	"scad-studio-be/internal/dto"
)

func generateCmd() *cobra.Command {
	var (
		opts   loopOptions
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate <description...>",
		Short: "Generate a new design from a description, then iterate on it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			svc := newAgentService(cfg)

			start, err := svc.Start(context.Background(), &dto.AgentStartRequest{
				Mode:          "generate",
				Description:   strings.Join(args, " "),
				OutputName:    output,
				Model:         opts.model,
				TargetScore:   opts.targetScore,
				MaxIterations: opts.maxIterations,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Generated %s (session %s)\n", start.ScadFile, start.SessionId)
			return runLoop(context.Background(), svc, start.SessionId, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file name (without extension)")
	return cmd
}
