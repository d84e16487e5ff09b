package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/airvent/subscription/internal/common"
	"github.com/airvent/subscription/internal/cryptox"
)

const keyFileVersion = 1

// ErrWrongPassphrase is returned when a key file cannot be decrypted.
var ErrWrongPassphrase = errors.New("identity: wrong passphrase or corrupted key file")

// keyFile is the on-disk form of a keypair. Only the 32-byte seed is
// stored, sealed with AES-256-GCM under an Argon2id-derived key. The
// identity is stored in the clear and authenticated as additional data.
type keyFile struct {
	Version    int      `json:"version"`
	Identity   Identity `json:"identity"`
	Salt       []byte   `json:"salt"`
	Nonce      []byte   `json:"nonce"`
	Ciphertext []byte   `json:"ciphertext"`
}

// SaveKeyFile encrypts kp with passphrase and writes it to path with 0600
// permissions. An existing file is never overwritten.
func SaveKeyFile(path string, kp *Keypair, passphrase []byte) error {
	if len(passphrase) == 0 {
		return errors.New("identity: passphrase is required")
	}

	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	key := cryptox.DeriveKey(passphrase, salt)
	defer common.WipeByteArray(key)

	seed := kp.Private.Seed()
	defer common.WipeByteArray(seed)

	ciphertext, nonce, err := cryptox.Seal(key, seed, kp.Identity[:])
	if err != nil {
		return fmt.Errorf("identity: sealing key: %w", err)
	}

	kf := keyFile{
		Version:    keyFileVersion,
		Identity:   kp.Identity,
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	}
	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return fmt.Errorf("identity: encoding key file: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("identity: creating key file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("identity: writing key file: %w", err)
	}
	return f.Close()
}

func readKeyFile(path string) (*keyFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("identity: reading key file: %w", err)
	}
	kf := &keyFile{}
	if err := json.Unmarshal(data, kf); err != nil {
		return nil, fmt.Errorf("identity: decoding key file: %w", err)
	}
	if kf.Version != keyFileVersion {
		return nil, fmt.Errorf("identity: unsupported key file version %d", kf.Version)
	}
	return kf, nil
}

// ReadKeyFileIdentity returns the public identity stored in a key file
// without decrypting it.
func ReadKeyFileIdentity(path string) (Identity, error) {
	kf, err := readKeyFile(path)
	if err != nil {
		return Identity{}, err
	}
	return kf.Identity, nil
}

// LoadKeyFile decrypts the key file at path.
func LoadKeyFile(path string, passphrase []byte) (*Keypair, error) {
	kf, err := readKeyFile(path)
	if err != nil {
		return nil, err
	}

	key := cryptox.DeriveKey(passphrase, kf.Salt)
	defer common.WipeByteArray(key)

	seed, err := cryptox.Open(key, kf.Ciphertext, kf.Nonce, kf.Identity[:])
	if errors.Is(err, cryptox.ErrOpen) {
		return nil, ErrWrongPassphrase
	}
	if err != nil {
		return nil, fmt.Errorf("identity: opening key: %w", err)
	}
	defer common.WipeByteArray(seed)

	kp, err := KeypairFromSeed(seed)
	if err != nil {
		return nil, err
	}
	if kp.Identity != kf.Identity {
		return nil, fmt.Errorf("identity: key file identity does not match its key")
	}
	return kp, nil
}
