package cmds

import (
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"
)

func (p *Executor) PrintUsage() {
	p.printCommands(p.Output, p.commands, 0)
}

func (p *Executor) printCommands(w io.Writer, commands map[string]*Command, depth int) {
	var names []string
	for name, command := range commands {
		if slices.Contains(command.Aliases, name) {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)

	indent := strings.Repeat("  ", depth)
	for _, name := range names {
		command := commands[name]
		label := name
		if command == nil {
			fmt.Fprintf(w, "%s%s\n", indent, label)
			continue
		}
		if len(command.Aliases) > 0 {
			label += " (" + strings.Join(command.Aliases, ", ") + ")"
		}
		if command.Func.IsValid() {
			for i := range command.Func.Type().NumIn() {
				t := command.Func.Type().In(i)
				if t.Kind() == reflect.Pointer {
					label += " [" + t.Elem().String() + "]"
				} else {
					label += " <" + t.String() + ">"
				}
			}
		}
		if command.Description != "" {
			fmt.Fprintf(w, "%s%-32s %s\n", indent, label, command.Description)
		} else {
			fmt.Fprintf(w, "%s%s\n", indent, label)
		}
		if len(command.Subs) > 0 {
			p.printCommands(w, command.Subs, depth+1)
		}
	}
}
