package system

import (
	"io"
	"os"
)

// Replaced in tests.
var stdout io.Writer = os.Stdout
