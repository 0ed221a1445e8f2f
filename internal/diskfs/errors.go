package diskfs

import "fmt"

// Code identifies the kind of failure on an open-file cursor or a
// filesystem-level operation. Every value but NoError denotes a failure.
// Once an error is latched in OpenFile.Err, every subsequent
// read/write/truncate on that cursor is a no-op that returns it; only a
// corrupt page link met while advancing (InvalidOF) is latched, other
// failures are returned from the call that hit them.
type Code int

const (
	NoError Code = iota
	Unknown
	FSUnchecked
	InvalidOF
	InvalidFE
	InvalidDE
	DiskFull
	DirFull
	FileNotFound
	DirNotFound
	InvalidName
	InvalidMode
	ReadOnly
	NotDirectory
	AlreadyExist
)

func (c Code) String() string {
	switch c {
	case NoError:
		return "no error"
	case Unknown:
		return "unknown error"
	case FSUnchecked:
		return "filesystem unchecked"
	case InvalidOF:
		return "invalid open file"
	case InvalidFE:
		return "invalid file entry"
	case InvalidDE:
		return "invalid directory entry"
	case DiskFull:
		return "disk full"
	case DirFull:
		return "directory full"
	case FileNotFound:
		return "file not found"
	case DirNotFound:
		return "directory not found"
	case InvalidName:
		return "invalid name"
	case InvalidMode:
		return "invalid mode"
	case ReadOnly:
		return "file in read-only mode"
	case NotDirectory:
		return "not a directory"
	case AlreadyExist:
		return "name already exists"
	default:
		return "unknown error"
	}
}

// Error is a typed error carrying one of the Code values above, the way the
// disk-image write path in the teacher codebase carries a wire status byte
// alongside a message.
type Error struct {
	Code Code
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}
