package sources

import (
	"fmt"
	"strings"
)

const indent = "    "

type writer struct {
	strings.Builder
}

func (w *writer) line(depth int, format string, args ...any) {
	for range depth {
		w.WriteString(indent)
	}
	fmt.Fprintf(w, format, args...)
	w.WriteByte('\n')
}

func (w *writer) blank() {
	w.WriteByte('\n')
}
