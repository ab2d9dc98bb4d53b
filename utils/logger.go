package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// Logger логгер приложения: пишет в файл журнала и дублирует в стандартный вывод
type Logger struct {
	infoLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
	isVerbose   bool
	echo        bool
	closer      io.Closer
}

// NewLogger создает логгер, пишущий в файл <prefix>_YYYY-MM-DD.log
func NewLogger(prefix string, verbose bool) (*Logger, error) {
	currentTime := time.Now().Format("2006-01-02")
	logFileName := fmt.Sprintf("%s_%s.log", prefix, currentTime)

	file, err := os.OpenFile(logFileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть или создать файл лога: %w", err)
	}

	l := newLogger(file, verbose, true)
	l.closer = file
	return l, nil
}

// NewWriterLogger создает логгер поверх произвольного writer без вывода в stdout
func NewWriterLogger(w io.Writer, verbose bool) *Logger {
	return newLogger(w, verbose, false)
}

// Discard логгер, который ничего не пишет
func Discard() *Logger {
	return newLogger(io.Discard, false, false)
}

func newLogger(w io.Writer, verbose, echo bool) *Logger {
	return &Logger{
		infoLogger:  log.New(w, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile),
		errorLogger: log.New(w, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile),
		debugLogger: log.New(w, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile),
		isVerbose:   verbose,
		echo:        echo,
	}
}

// Info логирует информационное сообщение
func (l *Logger) Info(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.infoLogger.Output(2, msg)

	if l.echo {
		log.Println("INFO:", msg)
	}
}

// Error логирует сообщение об ошибке
func (l *Logger) Error(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.errorLogger.Output(2, msg)

	if l.echo {
		log.Println("ERROR:", msg)
	}
}

// Debug логирует отладочное сообщение (только если включен verbose режим)
func (l *Logger) Debug(format string, v ...interface{}) {
	if !l.isVerbose {
		return
	}

	msg := fmt.Sprintf(format, v...)
	l.debugLogger.Output(2, msg)

	if l.echo {
		log.Println("DEBUG:", msg)
	}
}

// Close закрывает файл журнала, если он был открыт
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
