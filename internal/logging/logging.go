// Package logging holds the structured logger shared across cfpulse.
package logging

import (
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
)

// Logger emits structured messages on the standard error so that the
// measurement output on stdout stays parseable. Level defaults to Info;
// the CLI raises it to Debug with --verbose.
var Logger = log.Logger{
	Handler: cli.New(os.Stderr),
	Level:   log.InfoLevel,
}
