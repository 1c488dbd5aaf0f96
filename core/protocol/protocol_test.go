package protocol_test

import (
	"context"
	"errors"
	"testing"

	"github.com/wadash/wadash/core/protocol"
)

func TestGetDialer_Loopback(t *testing.T) {
	d, err := protocol.GetDialer("loopback")
	if err != nil {
		t.Fatalf("get dialer: %v", err)
	}
	if d == nil {
		t.Fatal("nil dialer")
	}
}

func TestGetDialer_Unknown(t *testing.T) {
	_, err := protocol.GetDialer("nonexistent")
	if !errors.Is(err, protocol.ErrUnknownDialer) {
		t.Errorf("got %v, want ErrUnknownDialer", err)
	}
}

func TestLoopback_PairingFlowWhenUnpaired(t *testing.T) {
	dialer := protocol.NewLoopbackDialer()
	sess, err := dialer.Dial(context.Background(), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer sess.Close()

	first := <-sess.Events()
	challenge, ok := first.(protocol.PairingChallenge)
	if !ok {
		t.Fatalf("first event %T, want PairingChallenge", first)
	}
	if len(challenge.Token) == 0 {
		t.Error("empty pairing token")
	}

	second := <-sess.Events()
	rotated, ok := second.(protocol.CredentialsRotated)
	if !ok {
		t.Fatalf("second event %T, want CredentialsRotated", second)
	}
	if len(rotated.State) == 0 {
		t.Error("empty credential state")
	}

	third := <-sess.Events()
	if _, ok := third.(protocol.Opened); !ok {
		t.Fatalf("third event %T, want Opened", third)
	}
}

func TestLoopback_SkipsPairingWhenPaired(t *testing.T) {
	dialer := protocol.NewLoopbackDialer()
	sess, err := dialer.Dial(context.Background(), protocol.CredentialState("paired"))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer sess.Close()

	first := <-sess.Events()
	if _, ok := first.(protocol.Opened); !ok {
		t.Fatalf("first event %T, want Opened", first)
	}
}

func TestLoopback_SendEchoesAndRecords(t *testing.T) {
	dialer := protocol.NewLoopbackDialer()
	sess, err := dialer.Dial(context.Background(), protocol.CredentialState("paired"))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer sess.Close()
	<-sess.Events()

	if err := sess.SendText(context.Background(), "628111@s.whatsapp.net", "halo"); err != nil {
		t.Fatalf("send: %v", err)
	}

	echo := <-sess.Events()
	msg, ok := echo.(protocol.Message)
	if !ok {
		t.Fatalf("echo event %T, want Message", echo)
	}
	if !msg.FromMe || msg.Chat != "628111@s.whatsapp.net" || msg.Body != "halo" {
		t.Errorf("unexpected echo: %+v", msg)
	}

	sent := dialer.LastSession().Sent()
	if len(sent) != 1 || sent[0].Text != "halo" {
		t.Errorf("got sent %v", sent)
	}
}

func TestLoopback_ClosedSessionRejectsCalls(t *testing.T) {
	dialer := protocol.NewLoopbackDialer()
	sess, err := dialer.Dial(context.Background(), protocol.CredentialState("paired"))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	if err := sess.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := sess.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	if err := sess.SendText(context.Background(), "x@s.whatsapp.net", "hi"); !errors.Is(err, protocol.ErrSessionClosed) {
		t.Errorf("send after close: %v, want ErrSessionClosed", err)
	}
	if _, err := sess.ExistsOnNetwork(context.Background(), "x@s.whatsapp.net"); !errors.Is(err, protocol.ErrSessionClosed) {
		t.Errorf("exists after close: %v, want ErrSessionClosed", err)
	}
}

func TestCloseCause_Recoverable(t *testing.T) {
	tests := []struct {
		cause protocol.CloseCause
		want  bool
	}{
		{protocol.CauseLoggedOut, false},
		{protocol.CauseNetworkDrop, true},
		{protocol.CauseStreamError, true},
	}

	for _, tt := range tests {
		if got := tt.cause.Recoverable(); got != tt.want {
			t.Errorf("Recoverable(%q) = %v, want %v", tt.cause, got, tt.want)
		}
	}
}

func TestLocalPart(t *testing.T) {
	tests := []struct {
		address string
		want    string
	}{
		{"6281234567890@s.whatsapp.net", "6281234567890"},
		{"120363xyz@g.us", "120363xyz"},
		{"bare", "bare"},
	}

	for _, tt := range tests {
		if got := protocol.LocalPart(tt.address); got != tt.want {
			t.Errorf("LocalPart(%q) = %q, want %q", tt.address, got, tt.want)
		}
	}
}
