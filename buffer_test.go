package lsp

import (
	"errors"
	"strings"
	"testing"
)

func frameBytes(body string) string {
	return string(NewFrame([]byte(body), "").Bytes())
}

func bodies(frames []Frame) []string {
	out := make([]string, len(frames))
	for i, f := range frames {
		out[i] = string(f.Body)
	}
	return out
}

func TestMessageBuffer_SingleFrame(t *testing.T) {
	b := NewMessageBuffer()

	frames, err := b.Write([]byte(frameBytes(`{"a":1}`)))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if len(frames) != 1 || string(frames[0].Body) != `{"a":1}` {
		t.Fatalf("frames = %v", bodies(frames))
	}
	if b.Buffered() != 0 {
		t.Errorf("Buffered = %d, want 0", b.Buffered())
	}
}

func TestMessageBuffer_SplitAnywhere(t *testing.T) {
	wire := frameBytes(`{"id":1}`) + frameBytes(`{"id":2}`) + frameBytes(`{"id":3}`)
	want := []string{`{"id":1}`, `{"id":2}`, `{"id":3}`}

	for chunk := 1; chunk <= len(wire); chunk++ {
		b := NewMessageBuffer()
		var got []string
		for i := 0; i < len(wire); i += chunk {
			end := min(i+chunk, len(wire))
			frames, err := b.Write([]byte(wire[i:end]))
			if err != nil {
				t.Fatalf("chunk %d: Write failed: %v", chunk, err)
			}
			got = append(got, bodies(frames)...)
		}
		if strings.Join(got, "|") != strings.Join(want, "|") {
			t.Errorf("chunk %d: bodies = %v, want %v", chunk, got, want)
		}
		if b.Buffered() != 0 {
			t.Errorf("chunk %d: Buffered = %d, want 0", chunk, b.Buffered())
		}
	}
}

func TestMessageBuffer_PartialHeader(t *testing.T) {
	b := NewMessageBuffer()

	for _, part := range []string{"Content-Le", "ngth: 2\r", "\n\r\n"} {
		frames, err := b.Write([]byte(part))
		if err != nil || len(frames) != 0 {
			t.Fatalf("Write(%q) = %v, %v; want nothing yet", part, bodies(frames), err)
		}
	}

	frames, err := b.Write([]byte("{}"))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if len(frames) != 1 || string(frames[0].Body) != "{}" {
		t.Errorf("frames = %v, want [{}]", bodies(frames))
	}
}

func TestMessageBuffer_WaitsForBody(t *testing.T) {
	b := NewMessageBuffer()

	frames, err := b.Write([]byte("Content-Length: 10\r\n\r\n12345"))
	if err != nil || len(frames) != 0 {
		t.Fatalf("Write = %v, %v; want nothing yet", bodies(frames), err)
	}
	if b.Buffered() == 0 {
		t.Error("Buffered = 0 while a body is pending")
	}

	frames, err = b.Write([]byte("67890Content-Length: 1\r\n\r\n"))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if len(frames) != 1 || string(frames[0].Body) != "1234567890" {
		t.Errorf("frames = %v, want [1234567890]", bodies(frames))
	}
}

func TestMessageBuffer_BodyIsCopied(t *testing.T) {
	b := NewMessageBuffer()
	frames, _ := b.Write([]byte(frameBytes("first")))
	b.Write([]byte(frameBytes("other")))

	if string(frames[0].Body) != "first" {
		t.Errorf("body changed to %q after a later write", frames[0].Body)
	}
}

func TestMessageBuffer_FramingErrorIsSticky(t *testing.T) {
	b := NewMessageBuffer()

	wire := frameBytes(`{"ok":true}`) + "Content-Length: nope\r\n\r\n"
	frames, err := b.Write([]byte(wire))

	if len(frames) != 1 {
		t.Errorf("frames before the error = %v, want one", bodies(frames))
	}
	var framingErr *FramingError
	if !errors.As(err, &framingErr) || !errors.Is(err, ErrInvalidContentLength) {
		t.Fatalf("error = %v, want FramingError for ErrInvalidContentLength", err)
	}

	frames, again := b.Write([]byte(frameBytes("{}")))
	if again != err || len(frames) != 0 {
		t.Errorf("second Write = %v, %v; want the same error and no frames", bodies(frames), again)
	}
	if b.Err() != err {
		t.Errorf("Err() = %v, want %v", b.Err(), err)
	}
}

func TestMessageBuffer_MissingContentLength(t *testing.T) {
	b := NewMessageBuffer()

	_, err := b.Write([]byte("Content-Type: text/plain\r\n\r\n{}"))
	if !errors.Is(err, ErrMissingContentLength) {
		t.Errorf("error = %v, want ErrMissingContentLength", err)
	}
}

func TestMessageBuffer_Limit(t *testing.T) {
	b := NewLimitedMessageBuffer(8)

	frames, err := b.Write([]byte(frameBytes("12345678")))
	if err != nil || len(frames) != 1 {
		t.Fatalf("frame at the limit: %v, %v", bodies(frames), err)
	}

	// Rejected as soon as the header is complete.
	_, err = b.Write([]byte("Content-Length: 9\r\n\r\n"))
	if !errors.Is(err, ErrContentTooLarge) {
		t.Errorf("error = %v, want ErrContentTooLarge", err)
	}
}

func TestMessageBuffer_HeaderSplitAtColon(t *testing.T) {
	body := strings.Repeat("x", 42)
	b := NewMessageBuffer()

	for _, part := range []string{"Content-Length", ": 42\r\n\r\n"} {
		if frames, err := b.Write([]byte(part)); err != nil || len(frames) != 0 {
			t.Fatalf("Write(%q) = %v, %v; want nothing yet", part, bodies(frames), err)
		}
	}

	frames, err := b.Write([]byte(body))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if len(frames) != 1 || string(frames[0].Body) != body {
		t.Fatalf("frames = %v", bodies(frames))
	}
	if n, _ := frames[0].Header.ContentLength(); n != 42 {
		t.Errorf("Content-Length = %d, want 42", n)
	}
}

func TestMessageBuffer_TerminatorsAgree(t *testing.T) {
	crlf, err := NewMessageBuffer().Write([]byte("Content-Length: 2\r\nContent-Type: t\r\n\r\n{}"))
	if err != nil {
		t.Fatalf("crlf: %v", err)
	}
	lf, err := NewMessageBuffer().Write([]byte("Content-Length: 2\nContent-Type: t\n\n{}"))
	if err != nil {
		t.Fatalf("lf: %v", err)
	}

	if len(crlf) != 1 || len(lf) != 1 {
		t.Fatalf("frames = %d and %d, want one each", len(crlf), len(lf))
	}
	if crlf[0].Header.String() != lf[0].Header.String() || string(crlf[0].Body) != string(lf[0].Body) {
		t.Errorf("frames differ: %q %s vs %q %s", crlf[0].Header, crlf[0].Body, lf[0].Header, lf[0].Body)
	}
}
