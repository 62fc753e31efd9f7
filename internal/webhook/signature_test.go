package webhook

import "testing"

func TestVerifySignature_RoundTrip(t *testing.T) {
	body := []byte(`{"ref":"refs/heads/main"}`)
	secret := "s3cret"

	sig := Sign(body, secret)
	if !VerifySignature(body, sig, secret) {
		t.Error("expected valid signature to verify")
	}
}

func TestVerifySignature_Mutations(t *testing.T) {
	body := []byte("payload body")
	secret := "secret"
	sig := Sign(body, secret)

	tests := []struct {
		name   string
		body   []byte
		sig    string
		secret string
	}{
		{"mutated body", []byte("payload bodz"), sig, secret},
		{"mutated secret", body, sig, "secres"},
		{"empty signature", body, "", secret},
		{"missing prefix", body, sig[len("sha256="):], secret},
		{"wrong prefix", body, "sha1=" + sig[len("sha256="):], secret},
		{"truncated digest", body, sig[:len(sig)-2], secret},
		{"non-hex digest", body, "sha256=zzzz", secret},
		{"empty secret", body, sig, ""},
	}

	for _, tt := range tests {
		if VerifySignature(tt.body, tt.sig, tt.secret) {
			t.Errorf("%s: expected verification to fail", tt.name)
		}
	}
}
