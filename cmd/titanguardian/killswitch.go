package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

func newKillSwitchCmd() *cobra.Command {
	var addr string
	var reason string
	var operator string

	cmd := &cobra.Command{
		Use:   "killswitch [on|off]",
		Short: "Activate or deactivate the kill switch on a running titanguardian instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "on":
				return killSwitchRequest(addr, "activate", map[string]string{"reason": reason})
			case "off":
				if operator == "" {
					return fmt.Errorf("--operator is required to deactivate the kill switch")
				}
				return killSwitchRequest(addr, "deactivate", map[string]string{"operator_signature": operator})
			default:
				return fmt.Errorf("unknown killswitch action %q, expected \"on\" or \"off\"", args[0])
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "http://localhost:8089", "base address of a running titanguardian server")
	cmd.Flags().StringVar(&reason, "reason", "operator requested", "reason recorded when activating the kill switch")
	cmd.Flags().StringVar(&operator, "operator", "", "operator signature recorded when deactivating the kill switch")
	return cmd
}

func killSwitchRequest(addr, action string, body map[string]string) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Post(addr+"/v1/killswitch/"+action, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("calling %s: %w", addr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	fmt.Printf("kill switch %s\n", action)
	return nil
}
