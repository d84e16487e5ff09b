package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) {
		if len(answers) == 0 {
			return nil, errors.New("no more input")
		}
		next := answers[0]
		answers = answers[1:]
		return []byte(next), nil
	}
}

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("hello world\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)
}

func TestGetSimpleTextEmptyEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader(""))
	var out bytes.Buffer
	_, err := GetSimpleText(in, "Name?", &out)
	require.Error(t, err)
}

func TestGetPassword_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	var out bytes.Buffer
	_, err := GetPassword("Enter password: ", &out)
	require.Error(t, err)
}

func TestGetPassphrase_Env(t *testing.T) {
	t.Setenv(PassphraseEnv, "from-env")
	stubPasswords(t)

	var out bytes.Buffer
	got, err := GetPassphrase(&out, true)
	require.NoError(t, err)
	assert.Equal(t, []byte("from-env"), got)
	assert.Empty(t, out.String(), "no prompt when the env var is set")
}

func TestGetPassphrase_Prompt(t *testing.T) {
	t.Setenv(PassphraseEnv, "")

	t.Run("single", func(t *testing.T) {
		stubPasswords(t, "pw")
		var out bytes.Buffer
		got, err := GetPassphrase(&out, false)
		require.NoError(t, err)
		assert.Equal(t, []byte("pw"), got)
		assert.Contains(t, out.String(), "Key passphrase: ")
	})

	t.Run("confirmed", func(t *testing.T) {
		stubPasswords(t, "pw", "pw")
		var out bytes.Buffer
		got, err := GetPassphrase(&out, true)
		require.NoError(t, err)
		assert.Equal(t, []byte("pw"), got)
	})

	t.Run("mismatch", func(t *testing.T) {
		stubPasswords(t, "pw", "other")
		var out bytes.Buffer
		_, err := GetPassphrase(&out, true)
		require.EqualError(t, err, "passphrases do not match")
	})

	t.Run("empty", func(t *testing.T) {
		stubPasswords(t, "")
		var out bytes.Buffer
		_, err := GetPassphrase(&out, false)
		require.EqualError(t, err, "passphrase is required")
	})
}
