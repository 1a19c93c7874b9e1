package commands

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/secdds/ddscrypto/pkg/crypto"
	"github.com/secdds/ddscrypto/pkg/rtps/submessage"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Decode a hex-encoded wire blob and print it as JSON",
}

var inspectDataFlags string

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func decodeHexArg(arg string) ([]byte, error) {
	data, err := hex.DecodeString(strings.ReplaceAll(strings.TrimSpace(arg), " ", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return data, nil
}

var inspectKeyMaterialCmd = &cobra.Command{
	Use:   "keymaterial <hex-bytes>",
	Short: "Decode a CDR-encoded key material sequence",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := decodeHexArg(args[0])
		if err != nil {
			return err
		}
		seq, err := crypto.DecodeKeyMaterialSequence(data)
		if err != nil {
			return err
		}
		return printJSON(seq)
	},
}

var inspectHeaderCmd = &cobra.Command{
	Use:   "header <hex-bytes>",
	Short: "Decode a 20-octet crypto header",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := decodeHexArg(args[0])
		if err != nil {
			return err
		}
		h, err := crypto.DecodeCryptoHeader(bytes.NewReader(data))
		if err != nil {
			return err
		}
		return printJSON(h)
	},
}

var inspectFooterCmd = &cobra.Command{
	Use:   "footer <hex-bytes>",
	Short: "Decode a crypto footer (common MAC + receiver-specific MACs)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := decodeHexArg(args[0])
		if err != nil {
			return err
		}
		f, err := crypto.DecodeCryptoFooter(bytes.NewReader(data))
		if err != nil {
			return err
		}
		return printJSON(f)
	},
}

var inspectDataCmd = &cobra.Command{
	Use:   "data <hex-bytes>",
	Short: "Decode an RTPS DATA submessage body",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := decodeHexArg(args[0])
		if err != nil {
			return err
		}
		d, err := submessage.Decode(data, parseSubmessageFlags(inspectDataFlags))
		if err != nil {
			return err
		}
		return printJSON(d)
	},
}

func parseSubmessageFlags(s string) submessage.Flags {
	var f submessage.Flags
	for _, name := range strings.Split(s, ",") {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "inlineqos":
			f.InlineQos = true
		case "data":
			f.Data = true
		case "key":
			f.Key = true
		}
	}
	return f
}

func init() {
	inspectDataCmd.Flags().StringVar(&inspectDataFlags, "flags", "Data", "comma-separated submessage flags: InlineQos,Data,Key")

	inspectCmd.AddCommand(inspectKeyMaterialCmd)
	inspectCmd.AddCommand(inspectHeaderCmd)
	inspectCmd.AddCommand(inspectFooterCmd)
	inspectCmd.AddCommand(inspectDataCmd)
}
