package custody

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"strings"
)

// envelopeScheme is the scheme tag of transit signature envelopes.
const envelopeScheme = "vault"

// ParseSignatureEnvelope unwraps a "scheme:version:base64" signature
// envelope to the raw 64-byte ed25519 signature it carries.
//
// The store versions its keys; the version segment ("v1", "v2", ...)
// identifies which key version produced the signature. Callers that only
// attach the signature do not need the version, so it is validated and
// discarded here.
func ParseSignatureEnvelope(envelope string) ([]byte, error) {
	parts := strings.SplitN(envelope, ":", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected scheme:version:payload, got %q", ErrInvalidEnvelope, envelope)
	}
	if parts[0] != envelopeScheme {
		return nil, fmt.Errorf("%w: unknown scheme %q", ErrInvalidEnvelope, parts[0])
	}
	if len(parts[1]) < 2 || parts[1][0] != 'v' {
		return nil, fmt.Errorf("%w: malformed version %q", ErrInvalidEnvelope, parts[1])
	}

	sig, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: payload is not base64: %w", ErrInvalidEnvelope, err)
	}
	if len(sig) != ed25519.SignatureSize {
		return nil, fmt.Errorf("%w: signature is %d bytes, want %d", ErrInvalidEnvelope, len(sig), ed25519.SignatureSize)
	}
	return sig, nil
}
