package mongodb

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
)

// TLSOptions: TLS-параметры подключения.
type TLSOptions struct {
	Enabled     bool
	CAFile      string
	CertKeyFile string // PEM с сертификатом клиента и ключом в одном файле
	Insecure    bool
}

// ErrTLSFileMissing: обязательный TLS-файл не найден. Ошибка конфигурации, старт прерывается.
var ErrTLSFileMissing = errors.New("tls file not found")

// ErrTLSMaterial: файл есть, но содержимое непригодно.
var ErrTLSMaterial = errors.New("invalid tls material")

// LoadTLS строит tls.Config по политике:
//   - Enabled: каждый указанный файл обязателен, отсутствие = ErrTLSFileMissing;
//   - выключен, CA-файл указан и существует: TLS включается с этим CA;
//   - выключен, CA-файл указан и отсутствует: подключение без TLS с предупреждением.
//
// Возвращает nil-конфиг, если TLS не используется, и список предупреждений для лога.
func LoadTLS(o TLSOptions) (*tls.Config, []string, error) {
	var warnings []string

	if !o.Enabled {
		if o.CAFile == "" {
			if o.CertKeyFile != "" {
				warnings = append(warnings, fmt.Sprintf("tls disabled, cert key file %s ignored", o.CertKeyFile))
			}
			return nil, warnings, nil
		}
		if !fileExists(o.CAFile) {
			warnings = append(warnings, fmt.Sprintf("ca file %s not found, connecting without tls", o.CAFile))
			return nil, warnings, nil
		}
		if o.CertKeyFile != "" && !fileExists(o.CertKeyFile) {
			warnings = append(warnings, fmt.Sprintf("cert key file %s not found, client certificate not used", o.CertKeyFile))
			o.CertKeyFile = ""
		}
	}

	cfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: o.Insecure, //nolint:gosec // явно включается конфигурацией
	}

	if o.CAFile != "" {
		pool, err := loadCAPool(o.CAFile)
		if err != nil {
			return nil, warnings, err
		}
		cfg.RootCAs = pool
	}

	if o.CertKeyFile != "" {
		if !fileExists(o.CertKeyFile) {
			return nil, warnings, fmt.Errorf("%w: cert key file %s", ErrTLSFileMissing, o.CertKeyFile)
		}
		cert, err := tls.LoadX509KeyPair(o.CertKeyFile, o.CertKeyFile)
		if err != nil {
			return nil, warnings, fmt.Errorf("%w: cert key file %s: %v", ErrTLSMaterial, o.CertKeyFile, err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	return cfg, warnings, nil
}

func loadCAPool(path string) (*x509.CertPool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: ca file %s", ErrTLSFileMissing, path)
		}
		return nil, fmt.Errorf("read ca file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(raw) {
		return nil, fmt.Errorf("%w: no certificates in ca file %s", ErrTLSMaterial, path)
	}
	return pool, nil
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
