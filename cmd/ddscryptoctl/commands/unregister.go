package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/secdds/ddscrypto/pkg/crypto"
	"github.com/spf13/cobra"
)

var unregisterCmd = &cobra.Command{
	Use:   "unregister",
	Short: "Unregister a participant or endpoint",
	Long: `unregister exercises an unregistration operation against a fresh
registry. Since unregistration of an unknown handle is idempotent
(never an error), this mainly demonstrates that guarantee: run it
against any handle value and it always reports success.`,
}

func unregisterRunE(kind string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		h, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid handle %q: %w", args[0], err)
		}

		r := crypto.NewRegistry()
		ctx := context.Background()
		switch kind {
		case "participant":
			r.UnregisterParticipant(ctx, crypto.Handle(h))
		case "datawriter":
			r.UnregisterDataWriter(ctx, crypto.Handle(h))
		case "datareader":
			r.UnregisterDataReader(ctx, crypto.Handle(h))
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"handle": h, "status": "unregistered"})
	}
}

var unregisterParticipantCmd = &cobra.Command{
	Use:   "participant <handle>",
	Short: "Unregister a participant",
	Args:  cobra.ExactArgs(1),
	RunE:  unregisterRunE("participant"),
}

var unregisterDataWriterCmd = &cobra.Command{
	Use:   "datawriter <handle>",
	Short: "Unregister a data writer",
	Args:  cobra.ExactArgs(1),
	RunE:  unregisterRunE("datawriter"),
}

var unregisterDataReaderCmd = &cobra.Command{
	Use:   "datareader <handle>",
	Short: "Unregister a data reader",
	Args:  cobra.ExactArgs(1),
	RunE:  unregisterRunE("datareader"),
}

func init() {
	unregisterCmd.AddCommand(unregisterParticipantCmd)
	unregisterCmd.AddCommand(unregisterDataWriterCmd)
	unregisterCmd.AddCommand(unregisterDataReaderCmd)
}
