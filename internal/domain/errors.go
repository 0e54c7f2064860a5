package domain

import "errors"

// ErrStoreNotConfigured: подключение к базе не создавалось (нет URI/хоста).
var ErrStoreNotConfigured = errors.New("no mongo client configured")

// ErrStoreClosed: подключение уже закрыто при остановке сервиса.
var ErrStoreClosed = errors.New("mongo client closed")
