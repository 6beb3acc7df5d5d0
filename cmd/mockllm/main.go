package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mockllm",
	Short: "Deterministic mock server for the OpenAI and Anthropic chat wire protocols",
	Long: `mockllm serves /v1/chat/completions and /v1/messages with operator-supplied
responses instead of real inference. Responses come from a YAML table or a
custom response module; streaming is emulated character by character with
configurable lag.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
