package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// BrowserNavigator opens URLs with the operating system's default
// handler.
type BrowserNavigator struct{}

func (BrowserNavigator) Open(ctx context.Context, target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", target)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", target)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", target)
	}
	return cmd.Run()
}

// NoShare is the desktop share capability: there is none. Keeping it
// explicit lets the selector treat share availability uniformly.
type NoShare struct{}

func (NoShare) Available() bool { return false }

func (NoShare) Share(context.Context, string, []byte) error {
	return errors.New("share capability unavailable")
}

// FileDownloader writes exported documents into Dir. Writes go through
// a temp file that is removed on every exit path, then renamed into
// place, so a failed export never leaves a half-written calendar file.
type FileDownloader struct {
	Dir string
}

func (d FileDownloader) Download(filename string, content []byte) (string, error) {
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, ".pillbox-export-*.tmp")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", err
	}

	final := filepath.Join(dir, filename)
	if err := os.Rename(tmpName, final); err != nil {
		return "", err
	}
	return final, nil
}

// WriterNotifier prints user-facing notices to a writer (the CLI's
// stdout).
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Notify(msg string) {
	fmt.Fprintln(n.W, msg)
}
