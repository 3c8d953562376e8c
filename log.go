package huff

import (
	"github.com/op/go-logging"
)

const logModule = "huff"

var log = logging.MustGetLogger(logModule)

func init() {
	// Quiet unless the program installs its own backend or raises the level.
	logging.SetLevel(logging.WARNING, logModule)
}
