package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MaxFileSize is the size after which an existing log file is rotated on open.
const MaxFileSize = 10 * 1024 * 1024

// output lets the sink change after package-level sub loggers were created.
type output struct {
	mu sync.Mutex
	w  io.Writer
	f  *os.File
}

func (o *output) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.w.Write(p)
}

func (o *output) set(w io.Writer, f *os.File) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.f != nil {
		_ = o.f.Close()
	}
	o.w = w
	o.f = f
}

var out = &output{}

func New(component string) zerolog.Logger {
	sublogger := log.With().
		Str("component", component).
		Logger()
	return sublogger
}

func SetDebug(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// ToFile redirects all loggers to path. Used while the terminal view owns stderr.
func ToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	if info, err := os.Stat(path); err == nil && info.Size() > MaxFileSize {
		if err := os.Rename(path, path+".1"); err != nil {
			return fmt.Errorf("failed to rotate log file: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	out.set(zerolog.ConsoleWriter{
		Out:        f,
		NoColor:    true,
		TimeFormat: time.RFC3339,
	}, f)
	return nil
}

// ToConsole restores stderr output and closes a log file opened by ToFile.
func ToConsole() {
	out.set(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}, nil)
}

func init() {
	_, debug := os.LookupEnv("DEBUG")
	SetDebug(debug)

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	ToConsole()
	log.Logger = log.Output(out)
}
