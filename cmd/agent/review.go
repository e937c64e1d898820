package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"scad-studio-be/internal/config"
	"scad-studio-be/internal/dto"
)

func reviewCmd() *cobra.Command {
	var opts loopOptions

	cmd := &cobra.Command{
		Use:   "review <file.scad>",
		Short: "Iteratively review and improve an existing design",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			svc := newAgentService(cfg)

			start, err := svc.Start(context.Background(), &dto.AgentStartRequest{
				Mode:          "review",
				ScadFile:      args[0],
				Model:         opts.model,
				TargetScore:   opts.targetScore,
				MaxIterations: opts.maxIterations,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Reviewing %s (session %s)\n", start.ScadFile, start.SessionId)
			return runLoop(context.Background(), svc, start.SessionId, opts)
		},
	}

	opts.register(cmd)
	return cmd
}
