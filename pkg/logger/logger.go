package logger

// Logger — общий интерфейс логирования приложения.
// Errorf первым аргументом принимает ошибку, которая добавляется к записи отдельным атрибутом.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(err error, format string, args ...any)
}
