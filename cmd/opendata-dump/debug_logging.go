package main

import (
	"fmt"
	"os"
)

func debugLog(format string, a ...any) {
	if Debug {
		str := fmt.Sprintf(format, a...)
		fmt.Fprintf(os.Stderr, "[opendata-dump] %s", str)
	}
}
