package webhook

import (
	"testing"
	"time"
)

func TestDeduper(t *testing.T) {
	t.Run("Disabled Window", func(t *testing.T) {
		d := newDeduper(0)
		if d.Seen("a") || d.Seen("a") {
			t.Error("disabled deduper reported a duplicate")
		}
	})

	t.Run("Second Sighting", func(t *testing.T) {
		d := newDeduper(time.Minute)
		if d.Seen("a") {
			t.Fatal("first sighting reported as duplicate")
		}
		if !d.Seen("a") {
			t.Error("second sighting not reported")
		}
		if d.Seen("b") {
			t.Error("different id reported as duplicate")
		}
	})

	t.Run("Empty Id", func(t *testing.T) {
		d := newDeduper(time.Minute)
		if d.Seen("") || d.Seen("") {
			t.Error("empty id reported as duplicate")
		}
	})

	t.Run("Forget Allows Another Sighting", func(t *testing.T) {
		d := newDeduper(time.Minute)
		d.Seen("a")
		d.Forget("a")
		if d.Seen("a") {
			t.Error("forgotten id reported as duplicate")
		}
		if !d.Seen("a") {
			t.Error("id not recorded again after forget")
		}
	})

	t.Run("Forget On Disabled Deduper", func(t *testing.T) {
		var d *deduper
		d.Forget("a")
	})

	t.Run("Window Expiry", func(t *testing.T) {
		d := newDeduper(20 * time.Millisecond)
		d.Seen("a")
		time.Sleep(60 * time.Millisecond)
		if d.Seen("a") {
			t.Error("expired id reported as duplicate")
		}
	})
}

func TestStatusFor(t *testing.T) {
	tcs := map[string]struct {
		err  error
		want int
	}{
		"Missing Signature":  {&AuthError{Reason: ReasonMissingSignature}, 401},
		"Mismatch":           {&AuthError{Reason: ReasonSignatureMismatch}, 403},
		"Unsupported Digest": {&AuthError{Reason: ReasonUnsupportedDigest, Digest: "md5"}, 501},
		"Malformed":          {ErrMalformedBody, 400},
		"Too Large":          {ErrBodyTooLarge, 413},
		"IP":                 {ErrIPNotAllowed, 403},
		"Rate":               {ErrRateLimited, 429},
		"Resolve":            {ErrResolve, 500},
	}
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			if got := statusFor(tc.err); got != tc.want {
				t.Errorf("statusFor() = %d, want %d", got, tc.want)
			}
		})
	}
}
