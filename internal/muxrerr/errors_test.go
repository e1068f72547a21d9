package muxrerr

import (
	"errors"
	"testing"
)

func TestErrorMessageWithCause(t *testing.T) {
	cause := errors.New("broken pipe")
	err := Wrap(IO, "write pty", cause)

	want := "io: write pty: broken pipe"
	if got := err.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestErrorMessageWithoutCause(t *testing.T) {
	err := Wrap(Protocol, "server can only be started once", nil)
	want := "protocol: server can only be started once"
	if got := err.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestUnwrapChainsToCause(t *testing.T) {
	cause := errors.New("eof")
	err := Wrap(Codec, "decode grid", cause)

	if !errors.Is(err, cause) {
		t.Fatal("errors.Is should find the wrapped cause")
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		IO:       "io",
		Codec:    "codec",
		Protocol: "protocol",
		OS:       "os",
		Kind(99): "unknown",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
