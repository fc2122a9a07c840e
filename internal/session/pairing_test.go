package session

import (
	"errors"
	"testing"
)

func TestParsePairingPayload(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    Pairing
		wantErr bool
	}{
		{
			name:    "token field",
			payload: `{"url":" http://192.168.1.10:8182 ","token":"abc","name":"Living Room","version":"1.2.0"}`,
			want:    Pairing{URL: "http://192.168.1.10:8182", Token: "abc", Name: "Living Room", Version: "1.2.0"},
		},
		{
			name:    "api_key fallback",
			payload: `{"url":"http://qbz.lan","api_key":"xyz"}`,
			want:    Pairing{URL: "http://qbz.lan", Token: "xyz"},
		},
		{name: "empty", payload: "   ", wantErr: true},
		{name: "not json", payload: "http://qbz.lan", wantErr: true},
		{name: "missing token", payload: `{"url":"http://qbz.lan"}`, wantErr: true},
		{name: "missing url", payload: `{"token":"abc"}`, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePairingPayload(tc.payload)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidPairing) {
					t.Fatalf("error = %v, want ErrInvalidPairing", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePairingPayload returned error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("ParsePairingPayload = %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestPairing_PayloadRoundTripsThroughSession(t *testing.T) {
	sess := Session{Address: "http://qbz.lan:8182/", Token: "abc", DeviceName: "Den"}
	payload, err := PairingFor(sess).Payload()
	if err != nil {
		t.Fatalf("Payload returned error: %v", err)
	}
	p, err := ParsePairingPayload(payload)
	if err != nil {
		t.Fatalf("ParsePairingPayload returned error: %v", err)
	}
	if got := p.Session(); got != sess.Normalize() {
		t.Fatalf("Session = %#v, want %#v", got, sess.Normalize())
	}
}
