package cli

import (
	"flag"
	"io"
)

// Flags are the command line flags of saletrack
type Flags struct {
	ConfigPath string
	EnvFile    string
	Port       int
	Check      bool
	Force      bool
	Days       int
	Verbose    bool
}

// ParseFlags parses args (without the program name)
func ParseFlags(args []string, output io.Writer) (Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("saletrack", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&flags.ConfigPath, "config", "config.yaml", "Path to the YAML config file")
	fs.StringVar(&flags.EnvFile, "env", ".env", "Optional .env file loaded before the config")
	fs.IntVar(&flags.Port, "port", 0, "Port to listen on (0 = from config)")
	fs.BoolVar(&flags.Check, "check", false, "Run a single email scan, print the orders and exit")
	fs.BoolVar(&flags.Force, "force", false, "With -check: scan the full window")
	fs.IntVar(&flags.Days, "days", 0, "With -check: window in days (0 = from config)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}
	return flags, nil
}
