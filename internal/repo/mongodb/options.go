package mongodb

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Options: параметры подключения. URI имеет приоритет над Host/Port/Username/....
type Options struct {
	URI      string
	Host     string // host или список host1:port1,host2:port2
	Port     int
	Username string
	Password string
	Params   string // сырой query, например authSource=admin&replicaSet=rs0

	Database   string
	Collection string

	ServerSelectionTimeout time.Duration
	ConnectTimeout         time.Duration
	MaxPoolSize            uint64
	AppName                string

	TLS TLSOptions

	// Monitor: монитор команд драйвера (otelmongo при включённом трейсинге).
	Monitor *event.CommandMonitor
}

// ErrInvalidTarget: адрес базы задан некорректно.
var ErrInvalidTarget = errors.New("invalid mongo target")

// Configured: задан ли URI или хост.
func (o *Options) Configured() bool {
	return strings.TrimSpace(o.URI) != "" || strings.TrimSpace(o.Host) != ""
}

// BuildURI собирает строку подключения. Явный URI возвращается как есть.
func BuildURI(o *Options) (string, error) {
	if uri := strings.TrimSpace(o.URI); uri != "" {
		return uri, nil
	}

	host := strings.TrimSpace(o.Host)
	if host == "" {
		return "", fmt.Errorf("%w: neither uri nor host set", ErrInvalidTarget)
	}
	// одиночный хост без порта дополняем портом; списки и host:port не трогаем
	if !strings.ContainsAny(host, ",:") {
		port := o.Port
		if port == 0 {
			port = 27017
		}
		host = net.JoinHostPort(host, strconv.Itoa(port))
	}

	u := url.URL{Scheme: "mongodb", Host: host, Path: "/"}
	if o.Username != "" {
		u.User = url.UserPassword(o.Username, o.Password)
	}
	if params := strings.TrimPrefix(strings.TrimSpace(o.Params), "?"); params != "" {
		if _, err := url.ParseQuery(params); err != nil {
			return "", fmt.Errorf("%w: params: %v", ErrInvalidTarget, err)
		}
		u.RawQuery = params
	}
	return u.String(), nil
}

// RedactURI прячет пароль для логов.
func RedactURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "<unparseable uri>"
	}
	return u.Redacted()
}

// clientOptions: опции драйвера: пул, server selection timeout, TLS, монитор.
func (o *Options) clientOptions(uri string, tlsCfg *tls.Config) *options.ClientOptions {
	co := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(o.ServerSelectionTimeout)

	if o.ConnectTimeout > 0 {
		co.SetConnectTimeout(o.ConnectTimeout)
	}
	if o.MaxPoolSize > 0 {
		co.SetMaxPoolSize(o.MaxPoolSize)
	}
	if o.AppName != "" {
		co.SetAppName(o.AppName)
	}
	if tlsCfg != nil {
		co.SetTLSConfig(tlsCfg)
	}
	if o.Monitor != nil {
		co.SetMonitor(o.Monitor)
	}
	return co
}
