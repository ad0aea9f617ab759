package sql

import (
	"fmt"
	"strings"
)

type (
	// Query is a command and its arguments.
	Query interface {
		// Cmd is the sql to execute.
		Cmd() string
		// Args are the values bound to the placeholders of the command.
		Args() []interface{}
	}

	// QueryFunction is a Query that reads data.
	QueryFunction struct {
		name      string
		cols      []string
		arguments []interface{}
	}

	// ExecFunction is a Query that changes data.
	ExecFunction struct {
		name      string
		arguments []interface{}
	}

	// RawQuery is a Query that changes data and has no arguments.
	RawQuery string
)

// NewQueryFunction creates a Query to call a query function.
func NewQueryFunction(name string, cols []string, args ...interface{}) QueryFunction {
	return QueryFunction{
		name:      name,
		cols:      cols,
		arguments: args,
	}
}

// NewExecFunction creates a Query to call an exec function.
func NewExecFunction(name string, args ...interface{}) ExecFunction {
	return ExecFunction{
		name:      name,
		arguments: args,
	}
}

// placeholders returns "$1, $2, ..." for n arguments.
func placeholders(n int) string {
	argIndexes := make([]string, n)
	for i := range argIndexes {
		argIndexes[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(argIndexes, ", ")
}

// Cmd returns a SQL string to execute the function with arguments.
func (q QueryFunction) Cmd() string {
	return fmt.Sprintf("SELECT %s FROM %s(%s)", strings.Join(q.cols, ", "), q.name, placeholders(len(q.arguments)))
}

// Cmd returns a SQL string to execute the function with arguments.
func (e ExecFunction) Cmd() string {
	return fmt.Sprintf("SELECT %s(%s)", e.name, placeholders(len(e.arguments)))
}

// Cmd returns the raw SQL query.
func (r RawQuery) Cmd() string {
	return string(r)
}

// Args returns the arguments for the query function.
func (q QueryFunction) Args() []interface{} {
	return q.arguments
}

// Args returns the arguments for the exec function.
func (e ExecFunction) Args() []interface{} {
	return e.arguments
}

// Args returns nil for the raw SQL query.
func (RawQuery) Args() []interface{} {
	return nil
}
