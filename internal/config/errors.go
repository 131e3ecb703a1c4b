package config

import "errors"

var (
	// ErrConfigNotFound means no config file exists at the resolved candidate.
	ErrConfigNotFound = errors.New("config not found")
	// ErrNotAFile means the candidate exists but is neither a directory
	// holding a config file nor a regular file.
	ErrNotAFile = errors.New("config path is not a file")
	// ErrConfigParse means the located file is not a valid config document.
	ErrConfigParse = errors.New("config parse error")
	// ErrConfigRead means the located file could not be read.
	ErrConfigRead = errors.New("config read error")
)

// ErrConfigAmbiguous is an alias of ErrNotAFile.
var ErrConfigAmbiguous = ErrNotAFile
