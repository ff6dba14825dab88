package client

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/autoheal/backend/internal/config"
)

func signSlackRequest(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "v0:%s:%s", timestamp, body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "8f742231b10e8888abcd99yyyzzz85a5"
	slack := NewSlackClient(config.SlackConfig{SigningSecret: secret})

	body := []byte(`{"type":"event_callback"}`)
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	signature := signSlackRequest(secret, timestamp, body)

	if !slack.VerifySignature(timestamp, signature, body) {
		t.Fatal("valid signature rejected")
	}
	if slack.VerifySignature(timestamp, signature, []byte(`{"type":"tampered"}`)) {
		t.Error("tampered body accepted")
	}
	if slack.VerifySignature(timestamp, "v0=deadbeef", body) {
		t.Error("wrong signature accepted")
	}
}

func TestVerifySignatureStaleTimestamp(t *testing.T) {
	secret := "secret"
	slack := NewSlackClient(config.SlackConfig{SigningSecret: secret})

	body := []byte(`{}`)
	stale := strconv.FormatInt(time.Now().Add(-10*time.Minute).Unix(), 10)
	if slack.VerifySignature(stale, signSlackRequest(secret, stale, body), body) {
		t.Error("stale timestamp accepted")
	}
}

func TestVerifySignatureMissingInputs(t *testing.T) {
	slack := NewSlackClient(config.SlackConfig{SigningSecret: "secret"})
	if slack.VerifySignature("", "v0=abc", []byte(`{}`)) {
		t.Error("empty timestamp accepted")
	}
	if slack.VerifySignature("not-a-number", "v0=abc", []byte(`{}`)) {
		t.Error("non-numeric timestamp accepted")
	}

	unconfigured := NewSlackClient(config.SlackConfig{})
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	if unconfigured.VerifySignature(ts, "v0=abc", []byte(`{}`)) {
		t.Error("verification passed without a signing secret")
	}
}

func TestPostMessageRequiresBotToken(t *testing.T) {
	slack := NewSlackClient(config.SlackConfig{SigningSecret: "secret"})
	if _, err := slack.PostMessage("C123", "", "hello", nil); err == nil {
		t.Fatal("expected error without bot token")
	}
	if err := slack.UpdateMessage("C123", "1.2", "hello", nil); err == nil {
		t.Fatal("expected error without bot token")
	}
}
