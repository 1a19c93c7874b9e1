package commands

import (
	"context"
	"encoding/json"
	"os"

	"github.com/secdds/ddscrypto/pkg/crypto"
	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a participant or endpoint against a fresh in-process registry",
	Long: `register exercises a single Key Factory registration operation against
a registry created fresh for this invocation, and prints the resulting
handle(s) and key material as JSON.

Since the registry is process-local, "register datawriter" and
"register datareader" also register the owning participant in the same
invocation so the endpoint has somewhere to attach.`,
}

var (
	regIdentity       uint32
	regPermissions    uint32
	regRTPSProtected  bool
	regRTPSEncrypted  bool
	regOriginAuth     bool
	regKeySize        string
	regEndpointName   string
	regSubmsgProtect  bool
	regPayloadProtect bool
	regSubmsgEncrypt  bool
	regPayloadEncrypt bool
)

func addParticipantFlags(cmd *cobra.Command) {
	cmd.Flags().Uint32Var(&regIdentity, "identity", 1, "identity handle from the authentication plugin")
	cmd.Flags().Uint32Var(&regPermissions, "permissions", 1, "permissions handle from the access control plugin")
	cmd.Flags().BoolVar(&regRTPSProtected, "rtps-protected", false, "is_rtps_protected")
	cmd.Flags().BoolVar(&regRTPSEncrypted, "rtps-encrypted", false, "plugin_participant_attributes.is_rtps_encrypted")
	cmd.Flags().BoolVar(&regOriginAuth, "origin-authenticated", false, "plugin_participant_attributes.is_rtps_origin_authenticated")
	cmd.Flags().StringVar(&regKeySize, "keysize", "256", "dds.sec.crypto.keysize (128 or 256)")
}

func addEndpointFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&regEndpointName, "endpoint-name", "", "dds.sec.builtin_endpoint_name (volatile names are rejected)")
	cmd.Flags().BoolVar(&regSubmsgProtect, "submessage-protected", false, "is_submessage_protected")
	cmd.Flags().BoolVar(&regPayloadProtect, "payload-protected", false, "is_payload_protected")
	cmd.Flags().BoolVar(&regSubmsgEncrypt, "submessage-encrypted", false, "plugin_endpoint_attributes.is_submessage_encrypted")
	cmd.Flags().BoolVar(&regPayloadEncrypt, "payload-encrypted", false, "plugin_endpoint_attributes.is_payload_encrypted")
}

func participantProperties() []crypto.Property {
	if regKeySize == "" {
		return nil
	}
	return []crypto.Property{{Name: crypto.PropertyCryptoKeySize, Value: regKeySize}}
}

func participantAttrs() crypto.ParticipantSecurityAttributes {
	var mask crypto.PluginParticipantSecurityAttributesMask = crypto.PluginParticipantIsValid
	if regRTPSEncrypted {
		mask |= crypto.PluginParticipantIsRTPSEncrypted
	}
	if regOriginAuth {
		mask |= crypto.PluginParticipantIsRTPSOriginAuthenticated
	}
	return crypto.ParticipantSecurityAttributes{
		IsRTPSProtected:        regRTPSProtected,
		PluginParticipantAttrs: mask,
	}
}

func endpointProperties() []crypto.Property {
	props := participantProperties()
	if regEndpointName != "" {
		props = append(props, crypto.Property{Name: crypto.PropertyBuiltinEndpointName, Value: regEndpointName})
	}
	return props
}

func endpointAttrs() crypto.EndpointSecurityAttributes {
	var mask crypto.PluginEndpointSecurityAttributesMask = crypto.PluginEndpointIsValid
	if regSubmsgEncrypt {
		mask |= crypto.PluginEndpointIsSubmessageEncrypted
	}
	if regPayloadEncrypt {
		mask |= crypto.PluginEndpointIsPayloadEncrypted
	}
	return crypto.EndpointSecurityAttributes{
		IsSubmessageProtected: regSubmsgProtect,
		IsPayloadProtected:    regPayloadProtect,
		PluginEndpointAttrs:   mask,
	}
}

type registrationResult struct {
	ParticipantHandle uint32                    `json:"participant_handle,omitempty"`
	Handle            uint32                    `json:"handle"`
	KeyMaterials      crypto.KeyMaterialSequence `json:"key_materials"`
}

var registerParticipantCmd = &cobra.Command{
	Use:   "participant",
	Short: "Register a local participant",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := crypto.NewRegistry()
		h, err := r.RegisterLocalParticipant(context.Background(),
			crypto.IdentityHandle(regIdentity), crypto.PermissionsHandle(regPermissions),
			participantProperties(), participantAttrs())
		if err != nil {
			return err
		}
		return printRegistration(r, uint32(h), uint32(h))
	},
}

var registerDataWriterCmd = &cobra.Command{
	Use:   "datawriter",
	Short: "Register a local participant and a local data writer under it",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := crypto.NewRegistry()
		ctx := context.Background()
		p, err := r.RegisterLocalParticipant(ctx, crypto.IdentityHandle(regIdentity), crypto.PermissionsHandle(regPermissions), participantProperties(), participantAttrs())
		if err != nil {
			return err
		}
		w, err := r.RegisterLocalDataWriter(ctx, p, endpointProperties(), endpointAttrs())
		if err != nil {
			return err
		}
		return printRegistration(r, uint32(p), uint32(w))
	},
}

var registerDataReaderCmd = &cobra.Command{
	Use:   "datareader",
	Short: "Register a local participant and a local data reader under it",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := crypto.NewRegistry()
		ctx := context.Background()
		p, err := r.RegisterLocalParticipant(ctx, crypto.IdentityHandle(regIdentity), crypto.PermissionsHandle(regPermissions), participantProperties(), participantAttrs())
		if err != nil {
			return err
		}
		d, err := r.RegisterLocalDataReader(ctx, p, endpointProperties(), endpointAttrs())
		if err != nil {
			return err
		}
		return printRegistration(r, uint32(p), uint32(d))
	},
}

func printRegistration(r *crypto.Registry, participant, handle uint32) error {
	seq, _ := r.EncodeKeyMaterials(crypto.Handle(handle))
	result := registrationResult{Handle: handle, KeyMaterials: seq}
	if participant != handle {
		result.ParticipantHandle = participant
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func init() {
	addParticipantFlags(registerParticipantCmd)

	addParticipantFlags(registerDataWriterCmd)
	addEndpointFlags(registerDataWriterCmd)

	addParticipantFlags(registerDataReaderCmd)
	addEndpointFlags(registerDataReaderCmd)

	registerCmd.AddCommand(registerParticipantCmd)
	registerCmd.AddCommand(registerDataWriterCmd)
	registerCmd.AddCommand(registerDataReaderCmd)
}
