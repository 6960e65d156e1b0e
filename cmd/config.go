package cmd

import (
	"fmt"
	"log"
	"strconv"

	"github.com/chew-z/crop-identifier/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Manage configuration settings for crop-identifier.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value. Supported keys:
- api_key: Your Groq API key
- base_url: Base URL for the chat-completion API (default: https://api.groq.com/openai/v1)
- host: Host to bind server to (default: 127.0.0.1)
- port: Port to listen on (default: 8501)
- models_file: YAML file replacing the built-in model list`,
	Args: cobra.ExactArgs(2),
	Run:  runConfigSet,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a configuration value",
	Long: `Get a configuration value. Supported keys:
- api_key: Your Groq API key (masked)
- base_url: Base URL for the chat-completion API
- host: Host to bind server to
- port: Port to listen on
- models_file: YAML file replacing the built-in model list`,
	Args: cobra.ExactArgs(1),
	Run:  runConfigGet,
}

const validKeysHint = "api_key, base_url, host, port, models_file"

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
}

func runConfigSet(cmd *cobra.Command, args []string) {
	key := args[0]
	value := args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := setConfigValue(cfg, key, value); err != nil {
		log.Fatal(err)
	}

	if err := config.Save(cfg); err != nil {
		log.Fatalf("Failed to save configuration: %v", err)
	}

	fmt.Printf("Configuration updated: %s = %s\n", key, maskIfAPIKey(key, value))
}

func runConfigGet(cmd *cobra.Command, args []string) {
	key := args[0]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	value, err := getConfigValue(cfg, key)
	if err != nil {
		log.Fatal(err)
	}

	if value == "" {
		fmt.Printf("%s is not set\n", key)
	} else {
		fmt.Printf("%s = %s\n", key, value)
	}
}

func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "api_key":
		cfg.APIKey = value
	case "base_url":
		cfg.BaseURL = value
	case "host":
		cfg.Host = value
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("Invalid port value: %s. Must be an integer between 1 and 65535.", value)
		}
		cfg.Port = port
	case "models_file":
		cfg.ModelsFile = value
	default:
		return fmt.Errorf("Invalid key: %s. Valid keys are: %s", key, validKeysHint)
	}
	return nil
}

func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch key {
	case "api_key":
		return maskIfAPIKey(key, cfg.APIKey), nil
	case "base_url":
		return cfg.BaseURL, nil
	case "host":
		return cfg.Host, nil
	case "port":
		if cfg.Port != 0 {
			return strconv.Itoa(cfg.Port), nil
		}
		return "", nil
	case "models_file":
		return cfg.ModelsFile, nil
	default:
		return "", fmt.Errorf("Invalid key: %s. Valid keys are: %s", key, validKeysHint)
	}
}

func maskIfAPIKey(key, value string) string {
	if key == "api_key" && value != "" {
		return "********"
	}
	return value
}
