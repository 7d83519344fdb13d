package signature

import (
	"errors"
	"strconv"
	"testing"
	"time"
)

var testNow = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

func testVerifier(secret string) Verifier {
	return Verifier{
		Secret: secret,
		Now:    func() time.Time { return testNow },
	}
}

func ts(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}

func TestVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	v := testVerifier("hush")
	body := []byte(`{"type":"event_callback"}`)
	stamp := ts(testNow)
	sig := Compute("hush", stamp, body)

	if err := v.Verify(stamp, sig, body); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
}

func TestVerifyTamper(t *testing.T) {
	t.Parallel()

	body := []byte(`{"type":"event_callback"}`)
	stamp := ts(testNow)
	sig := Compute("hush", stamp, body)

	cases := []struct {
		name   string
		secret string
		stamp  string
		body   []byte
	}{
		{"flipped body byte", "hush", stamp, []byte(`{"type":"event_callbacK"}`)},
		{"different timestamp", "hush", ts(testNow.Add(time.Second)), body},
		{"different secret", "husH", stamp, body},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			v := testVerifier(tc.secret)
			if err := v.Verify(tc.stamp, sig, tc.body); !errors.Is(err, ErrMismatch) {
				t.Fatalf("Verify() error = %v, want ErrMismatch", err)
			}
		})
	}
}

func TestVerifyReplayWindow(t *testing.T) {
	t.Parallel()

	v := testVerifier("hush")
	body := []byte("payload")
	for _, offset := range []time.Duration{-301 * time.Second, 301 * time.Second, -time.Hour} {
		stamp := ts(testNow.Add(offset))
		sig := Compute("hush", stamp, body)
		if err := v.Verify(stamp, sig, body); !errors.Is(err, ErrStaleTimestamp) {
			t.Fatalf("Verify(offset %s) error = %v, want ErrStaleTimestamp", offset, err)
		}
	}
	// Edge of the window is accepted.
	stamp := ts(testNow.Add(-300 * time.Second))
	if err := v.Verify(stamp, Compute("hush", stamp, body), body); err != nil {
		t.Fatalf("Verify(edge) error = %v", err)
	}
}

func TestVerifyMissingHeaders(t *testing.T) {
	t.Parallel()

	v := testVerifier("hush")
	if err := v.Verify("", "v0=deadbeef", []byte("x")); !errors.Is(err, ErrMissingTimestamp) {
		t.Fatalf("Verify() error = %v, want ErrMissingTimestamp", err)
	}
	if err := v.Verify(ts(testNow), "", []byte("x")); !errors.Is(err, ErrMissingSignature) {
		t.Fatalf("Verify() error = %v, want ErrMissingSignature", err)
	}
	if err := v.Verify("not-a-number", "v0=deadbeef", []byte("x")); err == nil {
		t.Fatalf("Verify(bad timestamp) expected error")
	}
}

func TestVerifySkip(t *testing.T) {
	t.Parallel()

	v := Verifier{Secret: "hush", SkipVerify: true}
	if err := v.Verify("", "", nil); err != nil {
		t.Fatalf("Verify() with SkipVerify error = %v", err)
	}
}
