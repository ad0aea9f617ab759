package main

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/gammonboard/pkg/api"
)

const (
	environmentVariableDatabaseURL      = "DATABASE_URL"
	environmentVariableFirestoreProject = "FIRESTORE_PROJECT"
	environmentVariableCredentials      = "GOOGLE_APPLICATION_CREDENTIALS"
)

type mainFlags struct {
	server       api.ServerConfig
	db           string
	databaseURL  string
	project      string
	credentials  string
	queryPeriod  time.Duration
	externalAddr string
	showVersion  bool
}

func usage(fs *flag.FlagSet) {
	envVars := []string{
		environmentVariableDatabaseURL,
		environmentVariableFirestoreProject,
		environmentVariableCredentials,
	}
	fmt.Fprintln(fs.Output(), "Runs the gammonboard table server")
	fmt.Fprintln(fs.Output(), "Reads environment variables when possible:", fmt.Sprintf("[%s]", strings.Join(envVars, ",")))
	fmt.Fprintf(fs.Output(), "Usage of %s:\n", fs.Name())
	fs.PrintDefaults()
}

// newFlagSet creates a flagSet that populates the specified mainFlags.
func (m *mainFlags) newFlagSet(programName string, osLookupEnvFunc func(string) (string, bool)) *flag.FlagSet {
	fs := flag.NewFlagSet(programName, flag.ExitOnError)
	fs.Usage = func() { usage(fs) }

	envOrDefault := func(key, defaultValue string) string {
		if envValue, ok := osLookupEnvFunc(key); ok {
			return envValue
		}
		return defaultValue
	}
	d := api.DefaultConfig()
	fs.StringVar(&m.server.Host, "host", d.Host, "Host to bind to (use 0.0.0.0 for all interfaces)")
	fs.IntVar(&m.server.Port, "port", d.Port, "Port to listen on")
	fs.DurationVar(&m.server.ReadTimeout, "read-timeout", d.ReadTimeout, "HTTP read timeout")
	fs.DurationVar(&m.server.WriteTimeout, "write-timeout", d.WriteTimeout, "HTTP write timeout")
	fs.DurationVar(&m.server.IdleTimeout, "idle-timeout", d.IdleTimeout, "HTTP idle timeout")
	fs.DurationVar(&m.server.TokenTTL, "token-ttl", d.TokenTTL, "How long seat tokens are valid")
	fs.IntVar(&m.server.MaxTables, "max-tables", d.MaxTables, "Most tables open at once, 0 for no limit")
	fs.DurationVar(&m.server.TableIdle, "table-idle", d.TableIdle, "How long a table without commands or subscribers stays open, 0 for no limit")
	fs.IntVar(&m.server.MaxWorkers, "max-workers", d.MaxWorkers, "Most record operations running at once")
	fs.Float64Var(&m.server.MessageRate, "message-rate", d.MessageRate, "Websocket messages per second allowed per client")
	fs.StringVar(&m.db, "db", "memory", "Where game records are kept: none, memory, postgres, mongo or firestore")
	fs.StringVar(&m.databaseURL, "data-source", envOrDefault(environmentVariableDatabaseURL, ""), "The connection URI of the PostgreSQL or MongoDB database.")
	fs.StringVar(&m.project, "firestore-project", envOrDefault(environmentVariableFirestoreProject, ""), "The Google Cloud project of the Firestore database.")
	fs.StringVar(&m.credentials, "firestore-credentials", envOrDefault(environmentVariableCredentials, ""), "A service account key file for Firestore, application default credentials when empty.")
	fs.DurationVar(&m.queryPeriod, "query-period", 5*time.Second, "Time limit of every database operation")
	fs.StringVar(&m.externalAddr, "external-addr", "", "TCP address of the text protocol server, disabled when empty")
	fs.BoolVar(&m.showVersion, "version", false, "Show version and exit")
	return fs
}

// newMainFlags creates a new, populated mainFlags structure.
func newMainFlags(osArgs []string, osLookupEnvFunc func(string) (string, bool)) (*mainFlags, error) {
	if len(osArgs) == 0 {
		return nil, fmt.Errorf("missing program name")
	}
	var m mainFlags
	fs := m.newFlagSet(osArgs[0], osLookupEnvFunc)
	if err := fs.Parse(osArgs[1:]); err != nil {
		return nil, fmt.Errorf("parsing program args: %w", err)
	}
	return &m, nil
}
