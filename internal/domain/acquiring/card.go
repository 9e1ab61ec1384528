package acquiring

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPan     = errors.New("card number is invalid")
	ErrInvalidExpDate = errors.New("card expiry date is invalid")
	ErrInvalidCvc     = errors.New("card cvc is invalid")
	ErrEmptyCardID    = errors.New("card id is required")
	ErrEmptyRebillID  = errors.New("rebill id is required")
)

// CardEncryptor encrypts card data for transport to the acquiring API.
type CardEncryptor interface {
	Encrypt(plaintext string) (string, error)
}

// RSAEncryptor encrypts with the terminal's RSA public key and encodes the
// result with standard base64, the format the acquiring API expects.
type RSAEncryptor struct {
	publicKey *rsa.PublicKey
}

func NewRSAEncryptor(pemKey string) (*RSAEncryptor, error) {
	block, _ := pem.Decode([]byte(pemKey))
	if block == nil {
		return nil, errors.New("invalid public key: not pem encoded")
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("invalid public key: %w", err)
	}
	rsaKey, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("invalid public key: not an rsa key")
	}
	return &RSAEncryptor{publicKey: rsaKey}, nil
}

func (e *RSAEncryptor) Encrypt(plaintext string) (string, error) {
	ciphertext, err := rsa.EncryptPKCS1v15(rand.Reader, e.publicKey, []byte(plaintext))
	if err != nil {
		return "", fmt.Errorf("failed to encrypt card data: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// CardSource is a payment instrument. Exactly one encoding strategy is active
// per variant: full card data, attached card id + cvc, or a bare rebill id.
type CardSource interface {
	Validate() error
	Encode(enc CardEncryptor) (string, error)
}

// CardData is a full card entered by the user.
type CardData struct {
	Pan        string
	ExpDate    string // MMYY
	CVC        string
	CardHolder string
}

func (c CardData) Validate() error {
	pan := strings.ReplaceAll(c.Pan, " ", "")
	if len(pan) < 13 || len(pan) > 28 || !isDigits(pan) || !luhnValid(pan) {
		return ErrInvalidPan
	}
	if len(c.ExpDate) != 4 || !isDigits(c.ExpDate) {
		return ErrInvalidExpDate
	}
	if len(c.CVC) < 3 || len(c.CVC) > 4 || !isDigits(c.CVC) {
		return ErrInvalidCvc
	}
	return nil
}

func (c CardData) Encode(enc CardEncryptor) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	pan := strings.ReplaceAll(c.Pan, " ", "")
	return enc.Encrypt(fmt.Sprintf("PAN=%s;ExpDate=%s;CVV=%s", pan, c.ExpDate, c.CVC))
}

// AttachedCard is a previously saved card identified by the server card id.
type AttachedCard struct {
	CardID string
	CVC    string
}

func (c AttachedCard) Validate() error {
	if c.CardID == "" {
		return ErrEmptyCardID
	}
	if len(c.CVC) < 3 || len(c.CVC) > 4 || !isDigits(c.CVC) {
		return ErrInvalidCvc
	}
	return nil
}

func (c AttachedCard) Encode(enc CardEncryptor) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	return enc.Encrypt(fmt.Sprintf("CardId=%s;CVV=%s", c.CardID, c.CVC))
}

// RebillSource charges a stored recurring consent. The rebill id is a server
// issued token and travels as a plain request parameter, so Encode returns it
// without encryption.
type RebillSource struct {
	RebillID string
}

func (c RebillSource) Validate() error {
	if c.RebillID == "" {
		return ErrEmptyRebillID
	}
	return nil
}

func (c RebillSource) Encode(CardEncryptor) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c.RebillID, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func luhnValid(pan string) bool {
	sum := 0
	double := false
	for i := len(pan) - 1; i >= 0; i-- {
		d := int(pan[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
