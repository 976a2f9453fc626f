// Package sqlgen turns migration operations into T-SQL command batches.
package sqlgen

import "strings"

// Command is one batch of SQL text.
type Command struct {
	SQL string
}

// Builder accumulates SQL text into commands.
type Builder struct {
	commands []Command
	current  strings.Builder
}

func (b *Builder) Append(s string) *Builder {
	b.current.WriteString(s)
	return b
}

func (b *Builder) AppendLine(s string) *Builder {
	b.current.WriteString(s)
	b.current.WriteByte('\n')
	return b
}

// EndCommand closes the current command. Empty commands are dropped.
func (b *Builder) EndCommand() *Builder {
	sql := strings.TrimRight(b.current.String(), "\n")
	if strings.TrimSpace(sql) != "" {
		b.commands = append(b.commands, Command{SQL: sql})
	}
	b.current.Reset()
	return b
}

// Commands returns the finished commands.
func (b *Builder) Commands() []Command {
	return b.commands
}

func (b *Builder) Len() int {
	return len(b.commands)
}

// Script joins commands into a single script using a batch separator such as GO.
func Script(commands []Command, separator string) string {
	var sb strings.Builder
	for _, c := range commands {
		sb.WriteString(c.SQL)
		sb.WriteByte('\n')
		if separator != "" {
			sb.WriteString(separator)
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
