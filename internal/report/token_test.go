package report

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/autoheal/backend/internal/config"
	"github.com/autoheal/backend/internal/model"
)

func testCodec(t *testing.T, secret string) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec(config.TokenConfig{SigningSecret: secret})
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}
	return codec
}

func sampleToken() model.ActionToken {
	project := "proj-a"
	instance := "instance-7"
	threshold := 90.0
	value := 95.0
	action := "execute_recreate_instance"
	return model.ActionToken{
		Version: TokenVersion,
		TokenID: "4fd1c2a0-0000-4000-8000-000000000001",
		Action:  action,
		Parsed: model.ParsedAlert{
			AlertType:        model.AlertTypeDiskUtilizationLow,
			ProjectID:        &project,
			InstanceName:     &instance,
			MetricLabels:     map[string]string{},
			ThresholdPercent: &threshold,
			ValuePercent:     &value,
			Confidence:       0.9,
			MissingFields:    []string{"zone", "mig_name"},
			ParseMethod:      model.ParseMethodRegex,
		},
		Decision: model.Decision{
			Decision: model.DecisionNeedsApproval,
			Reason:   "required fields missing: zone, mig_name",
			Action:   &action,
		},
		OriginRef: "1724900000.000100",
	}
}

func TestTokenRoundTrip(t *testing.T) {
	codec := testCodec(t, "test-secret")
	token := sampleToken()

	encoded, err := codec.Encode(token)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := codec.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(*decoded, token) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", *decoded, token)
	}
}

func TestTokenTamperDetected(t *testing.T) {
	codec := testCodec(t, "test-secret")
	encoded, err := codec.Encode(sampleToken())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// Flip part of the payload segment.
	parts := strings.Split(encoded, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected JWT shape: %q", encoded)
	}
	payload := []byte(parts[1])
	payload[len(payload)/2] ^= 0x01
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := codec.Decode(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	encoded, err := testCodec(t, "secret-a").Encode(sampleToken())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := testCodec(t, "secret-b").Decode(encoded); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenVersionMismatchRejected(t *testing.T) {
	codec := testCodec(t, "test-secret")
	token := sampleToken()
	token.Version = TokenVersion + 1

	encoded, err := codec.Encode(token)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := codec.Decode(encoded); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenGarbageRejected(t *testing.T) {
	codec := testCodec(t, "test-secret")
	if _, err := codec.Decode("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("error = %v, want ErrInvalidToken", err)
	}
}

func TestNewTokenCodecRequiresSecret(t *testing.T) {
	if _, err := NewTokenCodec(config.TokenConfig{}); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
