package commands

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/secdds/ddscrypto/pkg/crypto"
	"github.com/secdds/ddscrypto/pkg/rtps/submessage"
	"github.com/spf13/cobra"
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Read a JSON structure from stdin and print its hex-encoded wire form",
}

func readStdinJSON(v any) error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse stdin as JSON: %w", err)
	}
	return nil
}

func printHex(data []byte) error {
	_, err := fmt.Println(hex.EncodeToString(data))
	return err
}

var encodeKeyMaterialCmd = &cobra.Command{
	Use:   "keymaterial",
	Short: "Encode a key material sequence given as JSON on stdin",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var seq crypto.KeyMaterialSequence
		if err := readStdinJSON(&seq); err != nil {
			return err
		}
		data, err := crypto.EncodeKeyMaterialSequence(seq)
		if err != nil {
			return err
		}
		return printHex(data)
	},
}

var encodeHeaderCmd = &cobra.Command{
	Use:   "header",
	Short: "Encode a crypto header given as JSON on stdin",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var h crypto.CryptoHeader
		if err := readStdinJSON(&h); err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := h.Encode(&buf); err != nil {
			return err
		}
		return printHex(buf.Bytes())
	},
}

var encodeFooterCmd = &cobra.Command{
	Use:   "footer",
	Short: "Encode a crypto footer given as JSON on stdin",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var f crypto.CryptoFooter
		if err := readStdinJSON(&f); err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := f.Encode(&buf); err != nil {
			return err
		}
		return printHex(buf.Bytes())
	},
}

var encodeDataCmd = &cobra.Command{
	Use:   "data",
	Short: "Encode an RTPS DATA submessage body given as JSON on stdin",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var d submessage.DataSubmessage
		if err := readStdinJSON(&d); err != nil {
			return err
		}
		data, err := submessage.Encode(d)
		if err != nil {
			return err
		}
		return printHex(data)
	},
}

func init() {
	encodeCmd.AddCommand(encodeKeyMaterialCmd)
	encodeCmd.AddCommand(encodeHeaderCmd)
	encodeCmd.AddCommand(encodeFooterCmd)
	encodeCmd.AddCommand(encodeDataCmd)
}
