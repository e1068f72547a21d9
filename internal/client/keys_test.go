package client

import (
	"testing"

	"muxr/internal/protocol"
)

func TestDecodeKeysPlainChars(t *testing.T) {
	keys, consumed := DecodeKeys([]byte("hi"))
	if consumed != 2 || len(keys) != 2 {
		t.Fatalf("got %v consumed=%d", keys, consumed)
	}
	if keys[0].R != 'h' || keys[1].R != 'i' {
		t.Fatalf("got %+v", keys)
	}
}

func TestDecodeKeysArrow(t *testing.T) {
	keys, consumed := DecodeKeys([]byte("\x1b[A"))
	if consumed != 3 || len(keys) != 1 || keys[0].Kind != protocol.KeyUp {
		t.Fatalf("got keys=%+v consumed=%d", keys, consumed)
	}
}

func TestDecodeKeysAltChar(t *testing.T) {
	keys, consumed := DecodeKeys([]byte("\x1b!"))
	if consumed != 2 || len(keys) != 1 {
		t.Fatalf("got keys=%+v consumed=%d", keys, consumed)
	}
	if keys[0].Kind != protocol.KeyAlt || keys[0].R != '!' {
		t.Fatalf("got %+v, want Alt('!')", keys[0])
	}
}

func TestDecodeKeysIncompleteEscapeLeftUnconsumed(t *testing.T) {
	keys, consumed := DecodeKeys([]byte("\x1b"))
	if consumed != 0 || len(keys) != 0 {
		t.Fatalf("got keys=%+v consumed=%d, want nothing consumed yet", keys, consumed)
	}
}

func TestDecodeKeysCtrlAndBackspace(t *testing.T) {
	keys, consumed := DecodeKeys([]byte{0x03, 0x7F})
	if consumed != 2 || len(keys) != 2 {
		t.Fatalf("got %+v consumed=%d", keys, consumed)
	}
	if keys[0].Kind != protocol.KeyCtrl || keys[0].R != 'c' {
		t.Fatalf("got %+v, want Ctrl('c')", keys[0])
	}
	if keys[1].Kind != protocol.KeyBackspace {
		t.Fatalf("got %+v, want Backspace", keys[1])
	}
}

func TestDecodeKeysDeleteTilde(t *testing.T) {
	keys, consumed := DecodeKeys([]byte("\x1b[3~"))
	if consumed != 4 || len(keys) != 1 || keys[0].Kind != protocol.KeyDelete {
		t.Fatalf("got keys=%+v consumed=%d", keys, consumed)
	}
}

func TestMetaEscapeArmsOnAltBang(t *testing.T) {
	c := &Client{}
	altBang := protocol.Key{Kind: protocol.KeyAlt, R: '!'}

	quit, err := c.handleKey(altBang)
	if err != nil || quit {
		t.Fatalf("arming meta: quit=%v err=%v", quit, err)
	}
	if !c.metaArmed {
		t.Fatal("expected metaArmed after Alt-!")
	}
}

func TestMetaEscapeQuitsOnQ(t *testing.T) {
	c := &Client{metaArmed: true}
	quit, err := c.handleKey(protocol.Key{Kind: protocol.KeyChar, R: 'q'})
	if err != nil {
		t.Fatal(err)
	}
	if !quit {
		t.Fatal("expected quit after q following Alt-!")
	}
}

func TestMetaEscapeDiscardsOtherKeys(t *testing.T) {
	c := &Client{metaArmed: true}
	quit, err := c.handleKey(protocol.Key{Kind: protocol.KeyChar, R: 'x'})
	if err != nil || quit {
		t.Fatalf("quit=%v err=%v", quit, err)
	}
	if c.metaArmed {
		t.Fatal("meta state should be one-shot: cleared after the next key")
	}
}
