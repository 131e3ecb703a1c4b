package logging

import (
	"log/slog"
	"time"
)

// Common field names for consistent logging.
const (
	FieldRequestID  = "request_id"
	FieldService    = "service"
	FieldRootDir    = "root_dir"
	FieldConfigPath = "config_path"
	FieldStoreDir   = "store_dir"
	FieldFile       = "file"
	FieldEventID    = "event_id"
	FieldLevel      = "level"
	FieldCount      = "count"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatus     = "status"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldAddr       = "addr"
)

func RequestID(id string) slog.Attr {
	return slog.String(FieldRequestID, id)
}

func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

func RootDir(dir string) slog.Attr {
	return slog.String(FieldRootDir, dir)
}

func ConfigPath(path string) slog.Attr {
	return slog.String(FieldConfigPath, path)
}

func StoreDir(dir string) slog.Attr {
	return slog.String(FieldStoreDir, dir)
}

func File(path string) slog.Attr {
	return slog.String(FieldFile, path)
}

func EventID(id string) slog.Attr {
	return slog.String(FieldEventID, id)
}

// Level takes any fmt.Stringer so event levels log by name.
func Level(level interface{ String() string }) slog.Attr {
	return slog.String(FieldLevel, level.String())
}

func Count(n int) slog.Attr {
	return slog.Int(FieldCount, n)
}

func Method(method string) slog.Attr {
	return slog.String(FieldMethod, method)
}

func Path(path string) slog.Attr {
	return slog.String(FieldPath, path)
}

func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// Duration records d in milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Int64(FieldDuration, d.Milliseconds())
}

func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}

func Addr(addr string) slog.Attr {
	return slog.String(FieldAddr, addr)
}
