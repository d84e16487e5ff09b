package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// PassphraseEnv overrides the interactive passphrase prompt.
const PassphraseEnv = "AIRVENT_KEY_PASSPHRASE"

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints prompt to w and reads a password from the user's
// terminal without echo. A newline is printed after the read to keep the
// UI tidy.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(prompt string, w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetPassphrase returns the key passphrase from PassphraseEnv, or prompts
// for it. With confirm set the prompt is repeated and both entries must
// match.
func GetPassphrase(w io.Writer, confirm bool) ([]byte, error) {
	if pass := os.Getenv(PassphraseEnv); pass != "" {
		return []byte(pass), nil
	}

	pass, err := GetPassword("Key passphrase: ", w)
	if err != nil {
		return nil, err
	}
	if len(pass) == 0 {
		return nil, errors.New("passphrase is required")
	}
	if !confirm {
		return pass, nil
	}

	again, err := GetPassword("Confirm passphrase: ", w)
	if err != nil {
		return nil, err
	}
	if string(again) != string(pass) {
		return nil, errors.New("passphrases do not match")
	}
	return pass, nil
}
