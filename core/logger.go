package core

// Logger is any service that can log messages.
// expected args fmt: error, map[string]interface{}, Grader
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Grader identifies the person running the tool when reporting errors.
type Grader struct {
	Name  string
	Email string
}
