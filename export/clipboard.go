package export

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
)

// Clipboard writes plain text somewhere the user can paste from.
type Clipboard interface {
	WriteText(text string) error
}

// Reporter is implemented by clipboards whose WriteText only hands the text
// on; the receiving side tells the user whether the copy worked.
type Reporter interface {
	ReportsCopyResult() bool
}

// ClipboardError means every copy mechanism failed.
type ClipboardError struct {
	Primary  error
	Fallback error
}

func (e *ClipboardError) Error() string {
	return fmt.Sprintf("copy failed: %v; fallback: %v", e.Primary, e.Fallback)
}

func (e *ClipboardError) Unwrap() []error {
	return []error{e.Primary, e.Fallback}
}

// FallbackClipboard tries Primary and falls back to Fallback when it is
// unavailable or rejects the write.
type FallbackClipboard struct {
	Primary  Clipboard
	Fallback Clipboard
}

func (c FallbackClipboard) WriteText(text string) error {
	perr := errors.New("no primary clipboard")
	if c.Primary != nil {
		if perr = c.Primary.WriteText(text); perr == nil {
			return nil
		}
	}
	ferr := errors.New("no fallback clipboard")
	if c.Fallback != nil {
		if ferr = c.Fallback.WriteText(text); ferr == nil {
			return nil
		}
	}
	return &ClipboardError{Primary: perr, Fallback: ferr}
}

// SystemClipboard uses the OS clipboard (pbcopy, xclip/xsel, wl-copy, win32).
type SystemClipboard struct{}

func (SystemClipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return errors.New("system clipboard unsupported")
	}
	return clipboard.WriteAll(text)
}

// TerminalClipboard sets the terminal selection with an OSC 52 sequence.
type TerminalClipboard struct {
	W io.Writer
}

func (t TerminalClipboard) WriteText(text string) error {
	if t.W == nil {
		return errors.New("no terminal")
	}
	if f, ok := t.W.(*os.File); ok {
		fi, err := f.Stat()
		if err != nil {
			return err
		}
		if fi.Mode()&os.ModeCharDevice == 0 {
			return errors.New("output is not a terminal")
		}
	}
	_, err := fmt.Fprintf(t.W, "\x1b]52;c;%s\a", base64.StdEncoding.EncodeToString([]byte(text)))
	return err
}
