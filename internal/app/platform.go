package app

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
	"unicode"

	fsutil "github.com/kk-code-lab/rpack/internal/fs"
)

type lookPathFunc func(string) (string, error)

func detectClipboard() ([]string, bool) {
	return detectClipboardInternal(runtime.GOOS, os.Getenv, exec.LookPath)
}

// clipboardCandidates lists copy commands in preference order. The first
// element of each entry is looked up on PATH.
func clipboardCandidates(goos string, getenv func(string) string) [][]string {
	if strings.EqualFold(goos, "windows") {
		return [][]string{
			{"clip.exe"},
			{"clip"},
			{"powershell", "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"},
			{"powershell.exe", "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"},
			{"pwsh", "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"},
		}
	}

	x11 := [][]string{
		{"xclip", "-selection", "clipboard"},
		{"xsel", "--clipboard", "--input"},
	}
	wayland := [][]string{{"wl-copy"}}

	candidates := [][]string{{"pbcopy"}}
	if getenv("WAYLAND_DISPLAY") != "" {
		candidates = append(candidates, wayland...)
		return append(candidates, x11...)
	}
	candidates = append(candidates, x11...)
	return append(candidates, wayland...)
}

func detectClipboardInternal(goos string, getenv func(string) string, lookPath lookPathFunc) ([]string, bool) {
	for _, candidate := range clipboardCandidates(goos, getenv) {
		if resolved, err := lookPath(candidate[0]); err == nil && resolved != "" {
			return append([]string{resolved}, candidate[1:]...), true
		}
	}
	return nil, false
}

func detectEditorCommand() ([]string, bool) {
	return detectEditorCommandInternal(runtime.GOOS, os.Getenv, exec.LookPath)
}

func detectEditorCommandInternal(goos string, getenv func(string) string, lookPath lookPathFunc) ([]string, bool) {
	for _, name := range []string{"VISUAL", "EDITOR"} {
		args := parseEditorCommand(getenv(name))
		if len(args) == 0 {
			continue
		}
		if resolved, ok := resolveExecutable(args[0], lookPath); ok {
			args[0] = resolved
			return args, true
		}
	}

	defaults := [][]string{{"vim"}, {"nano"}, {"vi"}}
	if strings.EqualFold(goos, "windows") {
		defaults = [][]string{{"code", "--wait"}, {"notepad++.exe"}, {"notepad.exe"}}
	}

	for _, def := range defaults {
		if resolved, ok := resolveExecutable(def[0], lookPath); ok {
			return append([]string{resolved}, def[1:]...), true
		}
	}

	return nil, false
}

// parseEditorCommand splits $EDITOR-style values on whitespace, honoring
// single and double quotes.
func parseEditorCommand(cmd string) []string {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return nil
	}

	var args []string
	var current strings.Builder
	var quote rune

	for _, r := range cmd {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			current.WriteRune(r)
		case r == '\'' || r == '"':
			quote = r
		case unicode.IsSpace(r):
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		args = append(args, current.String())
	}

	if len(args) > 0 {
		args[0] = fsutil.ExpandUser(args[0])
	}

	return args
}

func resolveExecutable(cmd string, lookPath lookPathFunc) (string, bool) {
	if cmd == "" {
		return "", false
	}
	path, err := lookPath(fsutil.ExpandUser(cmd))
	if err != nil || path == "" {
		return "", false
	}
	return path, true
}
