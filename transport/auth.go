// Copyright 2026 The Quarry Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dghubble/oauth1"

	"github.com/quarry-project/quarry/lib/secret"
)

// Credentials hold the three elements of a region API key: consumer
// key, token key, and token secret. These are parts of the OAuth 1.0
// specification; the consumer secret is hard-wired to the empty string.
//
// The token secret lives in mlock-backed memory. Call Close when the
// credentials are no longer needed.
type Credentials struct {
	ConsumerKey string
	TokenKey    string
	TokenSecret *secret.Buffer
}

// ParseCredentials parses the colon-separated API key string issued by
// the region controller ("consumer:token:secret"). An empty string
// means anonymous access and yields nil credentials.
func ParseCredentials(apiKey string) (*Credentials, error) {
	if apiKey == "" {
		return nil, nil
	}
	parts := strings.Split(apiKey, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("transport: malformed credentials: expected 3 colon-separated parts, got %d", len(parts))
	}
	tokenSecret, err := secret.NewFromBytes([]byte(parts[2]))
	if err != nil {
		return nil, fmt.Errorf("transport: protecting token secret: %w", err)
	}
	return &Credentials{
		ConsumerKey: parts[0],
		TokenKey:    parts[1],
		TokenSecret: tokenSecret,
	}, nil
}

// Close releases the mlock-backed token secret. After Close the
// credentials must not be used for new requests.
func (c *Credentials) Close() error {
	if c == nil || c.TokenSecret == nil {
		return nil
	}
	return c.TokenSecret.Close()
}

// client wraps base so every request is signed with OAuth 1.0a
// PLAINTEXT. The token secret is copied onto the heap for the lifetime
// of the returned client; this is the API boundary where the mlock
// guarantee ends.
func (c *Credentials) client(base *http.Client) *http.Client {
	config := oauth1.Config{
		ConsumerKey: c.ConsumerKey,
		Realm:       "OAuth",
		Signer:      plaintextSigner{},
	}
	token := oauth1.NewToken(c.TokenKey, c.TokenSecret.String())
	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, base)
	return config.Client(ctx, token)
}

// plaintextSigner implements the OAuth 1.0a PLAINTEXT signature method
// (RFC 5849 section 3.4.4): the signature is the percent-encoded
// consumer secret and token secret joined by "&". The region hands out
// API keys with an empty consumer secret, so only the token secret
// contributes.
type plaintextSigner struct{}

func (plaintextSigner) Name() string {
	return "PLAINTEXT"
}

func (plaintextSigner) Sign(tokenSecret, message string) (string, error) {
	return "&" + percentEncode(tokenSecret), nil
}

// percentEncode escapes a string per RFC 3986 section 2.1, the encoding
// OAuth requires inside signatures. It differs from url.QueryEscape,
// which encodes spaces as "+".
func percentEncode(input string) string {
	var encoded strings.Builder
	for _, b := range []byte(input) {
		if isUnreservedByte(b) {
			encoded.WriteByte(b)
		} else {
			fmt.Fprintf(&encoded, "%%%02X", b)
		}
	}
	return encoded.String()
}

func isUnreservedByte(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') ||
		(b >= '0' && b <= '9') || b == '-' || b == '.' || b == '_' || b == '~'
}
