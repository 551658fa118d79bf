package core

// Logger is the application-wide logging contract.
// args may carry errors, maps or a user object; backends decide how to
// render each.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
