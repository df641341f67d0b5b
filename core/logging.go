package core

// Logger is any structured logging backend. Extra args are free-form pairs
// or values the implementation knows how to render; a user value attaches
// the acting user to error reports.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}
