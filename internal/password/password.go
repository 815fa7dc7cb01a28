// Package password hashes new passwords with bcrypt and verifies bcrypt as well as
// werkzeug-style "pbkdf2:..." and "scrypt:..." hashes.
package password

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"hash"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

var (
	ErrMismatch      = errors.New("password does not match")
	ErrUnknownFormat = errors.New("unknown password hash format")
)

const (
	defaultPBKDF2Iterations = 600000

	defaultScryptN = 1 << 15
	defaultScryptR = 8
	defaultScryptP = 1
	scryptKeyLen   = 64
)

// Hash returns a bcrypt hash of plain.
func Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "bcrypt")
	}
	return string(h), nil
}

// Verify checks plain against encoded. It returns nil on match, ErrMismatch on
// a wrong password and ErrUnknownFormat when encoded cannot be parsed.
func Verify(encoded, plain string) error {
	if strings.HasPrefix(encoded, "$2a$") || strings.HasPrefix(encoded, "$2b$") || strings.HasPrefix(encoded, "$2y$") {
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plain))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		if err != nil {
			return ErrUnknownFormat
		}
		return nil
	}

	parts := strings.SplitN(encoded, "$", 3)
	if len(parts) != 3 {
		return ErrUnknownFormat
	}
	method, salt, digest := parts[0], parts[1], parts[2]

	want, err := hex.DecodeString(digest)
	if err != nil || len(want) == 0 {
		return ErrUnknownFormat
	}

	got, err := derive(method, []byte(salt), []byte(plain), len(want))
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrMismatch
	}
	return nil
}

func derive(method string, salt, plain []byte, keyLen int) ([]byte, error) {
	name, args, _ := strings.Cut(method, ":")
	var params []string
	if args != "" {
		params = strings.Split(args, ":")
	}

	switch name {
	case "pbkdf2":
		return derivePBKDF2(params, salt, plain)
	case "scrypt":
		return deriveScrypt(params, salt, plain, keyLen)
	default:
		return nil, ErrUnknownFormat
	}
}

func derivePBKDF2(params []string, salt, plain []byte) ([]byte, error) {
	hashName := "sha256"
	iterations := defaultPBKDF2Iterations

	switch len(params) {
	case 0:
	case 1:
		hashName = params[0]
	case 2:
		hashName = params[0]
		n, err := strconv.Atoi(params[1])
		if err != nil || n <= 0 {
			return nil, ErrUnknownFormat
		}
		iterations = n
	default:
		return nil, ErrUnknownFormat
	}

	var newHash func() hash.Hash
	switch hashName {
	case "sha1":
		newHash = sha1.New
	case "sha256":
		newHash = sha256.New
	case "sha512":
		newHash = sha512.New
	default:
		return nil, ErrUnknownFormat
	}

	return pbkdf2.Key(plain, salt, iterations, newHash().Size(), newHash), nil
}

func deriveScrypt(params []string, salt, plain []byte, keyLen int) ([]byte, error) {
	n, r, p := defaultScryptN, defaultScryptR, defaultScryptP

	switch len(params) {
	case 0:
	case 3:
		var vals [3]int
		for i, s := range params {
			v, err := strconv.Atoi(s)
			if err != nil || v <= 0 {
				return nil, ErrUnknownFormat
			}
			vals[i] = v
		}
		n, r, p = vals[0], vals[1], vals[2]
	default:
		return nil, ErrUnknownFormat
	}

	if keyLen != scryptKeyLen {
		return nil, ErrUnknownFormat
	}

	key, err := scrypt.Key(plain, salt, n, r, p, scryptKeyLen)
	if err != nil {
		return nil, ErrUnknownFormat
	}
	return key, nil
}
