package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"mcp-image-foundry/config"
	"mcp-image-foundry/foundry"
	"mcp-image-foundry/mcp"
	"mcp-image-foundry/tools"
)

func main() {
	cfg := config.FromEnv()
	var configFile string

	rootCmd := &cobra.Command{
		Use:          "mcp-image-foundry",
		Short:        "MCP server exposing image generation tools over stdio",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg, configFile)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "Image generation API endpoint URL (defaults to $"+config.EnvEndpoint+")")
	flags.StringVar(&cfg.APIKey, "api-key", cfg.APIKey, "Image generation API key (defaults to $"+config.EnvAPIKey+")")
	flags.StringVar(&cfg.Deployment, "deployment", cfg.Deployment, "Deployment name on the endpoint (defaults to $"+config.EnvDeployment+" or "+config.DefaultDeployment+")")
	flags.StringVar(&cfg.OutputPath, "output-path", "", "Directory for persisted generated images (defaults to the OS temp dir)")
	flags.IntVar(&cfg.TimeoutSec, "timeout", 0, "Backend call timeout in seconds")
	flags.StringVar(&cfg.LogLevelStr, "log-level", "", "Logging level (DEBUG, INFO, WARN, ERROR)")
	flags.StringVar(&configFile, "config", "", "Optional YAML config file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, configFile string) error {
	if configFile != "" {
		if err := cfg.ApplyFile(configFile); err != nil {
			return err
		}
	}
	if err := cfg.Finalize(); err != nil {
		return err
	}

	logHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})
	slog.SetDefault(slog.New(logHandler))

	client := foundry.NewClient(cfg.Endpoint, cfg.APIKey, cfg.Deployment)
	toolHandler := tools.NewHandler(client, cfg)

	slog.Info("Starting MCP image generation server on stdio...", "deployment", cfg.Deployment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server := mcp.NewStdioServer(os.Stdin, os.Stdout)
	server.Start(ctx)

	// In-flight backend calls abandon cooperatively when the server shuts
	// down mid-request.
	callCtx, cancelCalls := context.WithCancel(ctx)
	go func() {
		<-server.Done()
		cancelCalls()
	}()

	go func() {
		var wg sync.WaitGroup
		// Each request runs as its own task; the transport's writer
		// goroutine serializes the responses.
		for request := range server.ReadChannel() {
			request := request
			wg.Add(1)
			go func() {
				defer wg.Done()
				responsePtr := toolHandler.HandleRequest(callCtx, request)
				if responsePtr == nil {
					return
				}
				select {
				case server.WriteChannel() <- *responsePtr:
				case <-server.Done():
				}
			}()
		}
		wg.Wait()
		server.Close()
	}()

	server.Wait()
	return nil
}
