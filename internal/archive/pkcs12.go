package archive

import (
	"crypto/x509"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/crypto/pkcs12"
	gopkcs12 "software.sslmate.com/src/go-pkcs12"

	"p12expiry/internal/logger"
)

// Source returns the expiration of the certificate held in a protected archive.
type Source interface {
	Expiration(path, passphrase string) (time.Time, error)
}

var (
	// ErrIncorrectPassword is wrapped when the passphrase does not decrypt the archive.
	ErrIncorrectPassword = errors.New("incorrect passphrase")
	// ErrNoCertificate is wrapped when the archive decodes but holds no certificate.
	ErrNoCertificate = errors.New("no certificate in archive")
)

// ExtractionError describes a failure to get a certificate out of an archive.
type ExtractionError struct {
	Path string
	Op   string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// PKCS12Source reads PKCS#12 (.p12/.pfx) archives from disk.
type PKCS12Source struct{}

func NewPKCS12Source() *PKCS12Source {
	return &PKCS12Source{}
}

// Expiration returns the leaf certificate's NotAfter, in UTC as encoded.
func (s *PKCS12Source) Expiration(path, passphrase string) (time.Time, error) {
	cert, err := s.Certificate(path, passphrase)
	if err != nil {
		return time.Time{}, err
	}
	return cert.NotAfter, nil
}

// Certificate decodes the archive and returns its leaf certificate.
func (s *PKCS12Source) Certificate(path, passphrase string) (*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Op: "read", Err: err}
	}

	cert, err := DecodeLeaf(data, passphrase)
	if err != nil {
		return nil, &ExtractionError{Path: path, Op: "decode", Err: err}
	}

	logger.Get().Debug("certificate extracted",
		slog.String("archive", path),
		slog.String("subject", cert.Subject.String()),
		slog.String("issuer", cert.Issuer.String()),
		slog.Time("not_after", cert.NotAfter))

	return cert, nil
}

// DecodeLeaf returns the end-entity certificate from PKCS#12 data.
// Archives with a private key are decoded as key plus chain, certificate-only
// archives as a trust store. Whatever neither accepts is walked bag by bag
// with the legacy decoder.
func DecodeLeaf(data []byte, passphrase string) (*x509.Certificate, error) {
	_, cert, caCerts, err := gopkcs12.DecodeChain(data, passphrase)
	if err == nil {
		// The first certificate bag is not always the leaf.
		return selectLeaf(append([]*x509.Certificate{cert}, caCerts...))
	}
	if incorrectPassword(err) {
		return nil, fmt.Errorf("%w: %v", ErrIncorrectPassword, err)
	}

	logger.Get().Debug("key and chain decode failed, trying trust store",
		slog.String("error", err.Error()))

	certs, tsErr := gopkcs12.DecodeTrustStore(data, passphrase)
	if tsErr == nil {
		return selectLeaf(certs)
	}
	if incorrectPassword(tsErr) {
		return nil, fmt.Errorf("%w: %v", ErrIncorrectPassword, tsErr)
	}

	logger.Get().Debug("trust store decode failed, walking legacy bags",
		slog.String("error", tsErr.Error()))

	cert, legacyErr := decodeLegacyBags(data, passphrase)
	if legacyErr == nil {
		return cert, nil
	}
	if incorrectPassword(legacyErr) {
		return nil, fmt.Errorf("%w: %v", ErrIncorrectPassword, legacyErr)
	}
	if errors.Is(legacyErr, ErrNoCertificate) {
		return nil, legacyErr
	}

	return nil, fmt.Errorf("malformed archive: %w", err)
}

func incorrectPassword(err error) bool {
	return errors.Is(err, gopkcs12.ErrIncorrectPassword) || errors.Is(err, pkcs12.ErrIncorrectPassword)
}

// decodeLegacyBags converts every bag with the RC2/3DES decoder and picks the
// leaf among the certificates found. It tolerates bag layouts the strict
// decoders reject, such as several private keys.
func decodeLegacyBags(data []byte, passphrase string) (*x509.Certificate, error) {
	blocks, err := pkcs12.ToPEM(data, passphrase)
	if err != nil {
		return nil, err
	}

	var certs []*x509.Certificate
	for _, block := range blocks {
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse certificate: %w", err)
		}
		certs = append(certs, cert)
	}

	return selectLeaf(certs)
}

// selectLeaf picks the first non-CA certificate, or the first certificate
// when every one of them is a CA.
func selectLeaf(certs []*x509.Certificate) (*x509.Certificate, error) {
	if len(certs) == 0 {
		return nil, ErrNoCertificate
	}
	for _, cert := range certs {
		if !cert.IsCA {
			return cert, nil
		}
	}
	return certs[0], nil
}
