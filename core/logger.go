package core

// Logger is any service that can log.
// expected args: error, map[string]interface{}, or anything the implementation knows how to attach (e.g. the request's Identity)
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
