package config

import (
	"errors"
)

var (
	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrSQLitePathEmpty error if the sqlite engine has no database file.
	ErrSQLitePathEmpty = errors.New("toml config storage.path can not be empty for sqlite")

	// ErrStorageHostEmpty error if a network storage engine has no host.
	ErrStorageHostEmpty = errors.New("toml config storage.host can not be empty")

	// ErrNATSSubjectEmpty error if a nats url is configured without a subject.
	ErrNATSSubjectEmpty = errors.New("toml config channel.natssubject can not be empty when natsurl is set")
)
