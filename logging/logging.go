package logging

import (
	"io"
	"log"
	"os"
)

var (
	InfoLog = log.New(os.Stderr, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	WarnLog = log.New(os.Stderr, "WARN: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrLog  = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
)

// SetOutput redirects all loggers to w. A nil w restores stderr.
func SetOutput(w io.Writer) {

	if w == nil {
		w = os.Stderr
	}

	InfoLog.SetOutput(w)
	WarnLog.SetOutput(w)
	ErrLog.SetOutput(w)
}
