package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/enigmacrack/enigmacrack"
	"github.com/enigmacrack/enigmacrack/core"
	"github.com/enigmacrack/enigmacrack/core/config"
	"github.com/enigmacrack/enigmacrack/pkg/logging"
)

const usage = "expected 'encode', 'crack' or 'keygen' subcommands"

type commonFlags struct {
	configFile string
	logLevel   string
	logFormat  string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configFile, "config", "", "Path to a YAML configuration file. Defaults are used when empty.")
	fs.StringVar(&c.logLevel, "log-level", "", "Log level (debug, info, warn, error). Overrides the config file.")
	fs.StringVar(&c.logFormat, "log-format", "", "Log format (console, json). Overrides the config file.")
}

// load reads the configuration and initializes logging from it.
func (c *commonFlags) load() *config.FileConfig {
	cfg := config.Default()
	if c.configFile != "" {
		var err error
		cfg, err = config.LoadFileConfig(c.configFile)
		if err != nil {
			logging.GetLogger().Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
	}
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
	}
	if c.logFormat != "" {
		cfg.Logging.Format = c.logFormat
	}
	logging.InitLogger(cfg.Logging.Level, cfg.Logging.Format, nil)
	return cfg
}

func main() {
	if len(os.Args) < 2 {
		logging.GetLogger().Error(usage)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "encode":
		var common commonFlags
		encodeCmd := flag.NewFlagSet("encode", flag.ExitOnError)
		common.register(encodeCmd)
		rotors := encodeCmd.String("rotors", "", "Comma separated rotor order, left to right, e.g. I,II,III")
		positions := encodeCmd.String("positions", "", "Start positions, e.g. AAA")
		plugboard := encodeCmd.String("plugboard", "", "Plugboard pairs, e.g. \"AB CD\" or A:B,C:D")
		if err := encodeCmd.Parse(os.Args[2:]); err != nil {
			logging.GetLogger().Error("Failed to parse encode flags", "error", err)
			os.Exit(1)
		}
		cfg := common.load()
		if *rotors != "" {
			cfg.Machine.Rotors = strings.Split(*rotors, ",")
		}
		if *positions != "" {
			cfg.Machine.Positions = *positions
		}
		if *plugboard != "" {
			cfg.Machine.Plugboard = *plugboard
		}
		runEncode(cfg, inputText(encodeCmd.Args()))

	case "crack":
		var common commonFlags
		crackCmd := flag.NewFlagSet("crack", flag.ExitOnError)
		common.register(crackCmd)
		crib := crackCmd.String("crib", "", "Known plaintext fragment (required)")
		fixed := crackCmd.String("fixed-plugboard", "", "Decode every candidate with this plugboard instead of annealing")
		initial := crackCmd.String("initial-plugboard", "", "Start annealing from this plugboard")
		rotors := crackCmd.String("rotors", "", "Only try this rotor order, e.g. I,II,III")
		positions := crackCmd.String("positions", "", "Only try these comma separated start positions")
		limit := crackCmd.Int("limit-positions", 0, "Sample this many start positions")
		iterations := crackCmd.Int("iterations", 0, "Annealing iterations per candidate")
		workers := crackCmd.Int("workers", 0, "Parallel workers (default: number of CPUs)")
		seed := crackCmd.Uint64("seed", 0, "Random seed; 0 picks a fresh one")
		if err := crackCmd.Parse(os.Args[2:]); err != nil {
			logging.GetLogger().Error("Failed to parse crack flags", "error", err)
			os.Exit(1)
		}
		cfg := common.load()
		s := &cfg.Search
		if *fixed != "" {
			s.FixedPlugboard = *fixed
		}
		if *initial != "" {
			s.InitialPlugboard = *initial
		}
		if *rotors != "" {
			s.RotorOrders = [][]string{strings.Split(*rotors, ",")}
		}
		if *positions != "" {
			s.Positions = strings.Split(*positions, ",")
		}
		if *limit != 0 {
			s.LimitPositions = *limit
		}
		if *iterations != 0 {
			s.Iterations = *iterations
		}
		if *workers != 0 {
			s.Workers = *workers
		}
		if *seed != 0 {
			s.Seed = *seed
		}
		runCrack(cfg, inputText(crackCmd.Args()), *crib)

	case "keygen":
		keygenCmd := flag.NewFlagSet("keygen", flag.ExitOnError)
		pairs := keygenCmd.Int("pairs", 10, "Number of plugboard pairs")
		if err := keygenCmd.Parse(os.Args[2:]); err != nil {
			logging.GetLogger().Error("Failed to parse keygen flags", "error", err)
			os.Exit(1)
		}
		runKeygen(*pairs)

	default:
		logging.GetLogger().Error(usage, "command", os.Args[1])
		os.Exit(1)
	}
}

// inputText joins the positional arguments, or reads stdin when there are none.
func inputText(args []string) string {
	if len(args) > 0 {
		return strings.Join(args, " ")
	}
	buf, err := io.ReadAll(bufio.NewReader(os.Stdin))
	if err != nil {
		logging.GetLogger().Error("Failed to read stdin", "error", err)
		os.Exit(1)
	}
	return strings.TrimRight(string(buf), "\r\n")
}

func runEncode(cfg *config.FileConfig, text string) {
	logger := logging.GetLogger()
	engine, err := enigmacrack.NewEngine(cfg, logger)
	if err != nil {
		logger.Error("Failed to create engine", "error", err)
		os.Exit(1)
	}
	out, err := engine.Encode(text)
	if err != nil {
		logger.Error("Failed to encode", "error", err)
		os.Exit(1)
	}
	fmt.Println(out)
}

func runCrack(cfg *config.FileConfig, ciphertext, crib string) {
	logger := logging.GetLogger()
	engine, err := enigmacrack.NewEngine(cfg, logger)
	if err != nil {
		logger.Error("Failed to create engine", "error", err)
		os.Exit(1)
	}

	// Stop the search on Ctrl+C and still print what was found so far.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Received shutdown signal, stopping crack...")
		if err := engine.Stop(); err != nil {
			logger.Error("Error stopping crack", "error", err)
		}
	}()

	report, err := engine.Crack(context.Background(), ciphertext, crib)
	if report == nil {
		logger.Error("Crack failed", "error", err)
		os.Exit(1)
	}
	if err != nil {
		logger.Warn("Crack ended early, results are partial", "error", err)
	}

	// Print results in a nice table format.
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	fmt.Fprintln(w, "ROTORS\tPOSITIONS\tPLUGBOARD\tOFFSET\tSCORE\tDECODED")
	fmt.Fprintln(w, "------\t---------\t---------\t------\t-----\t-------")
	for _, m := range report.Matches {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.0f\t%s\n",
			strings.Join(m.Rotors[:], ","), m.Positions, m.Plugboard, m.Offset, m.Score, m.Decoded)
	}
	w.Flush()

	fmt.Printf("\nrun %s: %d matches, %d candidates, %d skipped, seed %d, %s\n",
		report.RunID, len(report.Matches), report.Candidates, len(report.Skipped), report.Seed, report.Elapsed)
}

func runKeygen(pairs int) {
	s, err := core.GenerateSettings(pairs)
	if err != nil {
		logging.GetLogger().Error("Failed to generate key", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "rotors\t%s\n", strings.Join(s.Rotors[:], ","))
	fmt.Fprintf(w, "positions\t%s\n", s.Positions)
	fmt.Fprintf(w, "plugboard\t%s\n", s.Plugboard)
	w.Flush()
}
