package util

import "encoding/base64"

// Base64URLEncode renders binary credential material the way the WebAuthn
// wire format carries it (unpadded base64url).
func Base64URLEncode(raw []byte) string {
	return base64.RawURLEncoding.EncodeToString(raw)
}

func Base64URLDecode(encoded string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(encoded)
}
