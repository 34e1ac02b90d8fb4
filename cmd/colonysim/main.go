package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/msageha/colonysim/internal/sim"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var ve *sim.ValidationErrors
		if errors.As(err, &ve) {
			fmt.Fprint(os.Stderr, ve.FormatStderr())
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
