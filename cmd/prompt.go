package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/alloc-bench/alloc-bench/sim/strategy"
	"github.com/alloc-bench/alloc-bench/sim/topology"
)

// prompter asks questions on out and reads one answer per line from in.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// ask repeats question until accept returns nil for the trimmed answer.
// It fails only when input runs out.
func (p *prompter) ask(question string, accept func(answer string) error) error {
	for {
		fmt.Fprintln(p.out, question)
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return err
			}
			return io.ErrUnexpectedEOF
		}
		err := accept(strings.TrimSpace(p.in.Text()))
		if err == nil {
			return nil
		}
		fmt.Fprintf(p.out, "Invalid input! %v\n", err)
	}
}

// promptConfig asks for the log level, run count, shape, the three strategy
// mnemonics and the display toggle. Blank answers keep the current level,
// run count, shape and display setting; mnemonics must be given.
func promptConfig(in io.Reader, out io.Writer, cfg runConfig, level logrus.Level) (runConfig, logrus.Level, error) {
	p := &prompter{in: bufio.NewScanner(in), out: out}

	err := p.ask(fmt.Sprintf("Select logging level: [trace, debug, info, warn, error, fatal, panic] (default: %s)", level), func(a string) error {
		if a == "" {
			return nil
		}
		l, err := logrus.ParseLevel(a)
		if err != nil {
			return err
		}
		level = l
		return nil
	})
	if err != nil {
		return cfg, level, err
	}

	err = p.ask(fmt.Sprintf("Enter the number of simulation runs (default: %d):", cfg.Runs), func(a string) error {
		if a == "" {
			return nil
		}
		n, err := strconv.Atoi(a)
		if err != nil || n <= 0 {
			return fmt.Errorf("please enter a positive integer")
		}
		cfg.Runs = n
		return nil
	})
	if err != nil {
		return cfg, level, err
	}

	err = p.ask(fmt.Sprintf("Select topology shape: [1] uniform [2] mixed (default: %s)", cfg.Shape.Name), func(a string) error {
		if a == "" {
			return nil
		}
		shape, err := topology.ParseShape(a)
		if err != nil {
			return err
		}
		cfg.Shape = shape
		return nil
	})
	if err != nil {
		return cfg, level, err
	}

	targets := map[strategy.Family]*string{
		strategy.FamilyPlacement:     &cfg.Placement,
		strategy.FamilyHostScheduler: &cfg.HostScheduler,
		strategy.FamilyVMScheduler:   &cfg.VMScheduler,
	}
	for _, f := range strategy.Families {
		question := fmt.Sprintf("Enter %s: [%s]", f, strings.Join(strategy.Mnemonics(f), ", "))
		err = p.ask(question, func(a string) error {
			if _, err := strategy.ResolveMnemonic(f, strings.ToUpper(a)); err != nil {
				return err
			}
			*targets[f] = strings.ToUpper(a)
			return nil
		})
		if err != nil {
			return cfg, level, err
		}
	}

	err = p.ask("Display oversubscription table? [yes/no] (default: no)", func(a string) error {
		switch strings.ToLower(a) {
		case "yes", "y":
			cfg.ShowOversubscription = true
		case "no", "n", "":
			cfg.ShowOversubscription = false
		default:
			return fmt.Errorf("please answer yes or no")
		}
		return nil
	})
	return cfg, level, err
}
