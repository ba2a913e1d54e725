// Package shell runs the numbered interactive menu. It owns input parsing
// and normalization; the exchange never sees raw user text.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rustyeddy/gbce/exchange"
	"go.uber.org/zap"
)

const menu = `
Options Menu
Please make your selection
1 - calculate dividend yield
2 - calculate P/E ratio
3 - record a trade
4 - calculate volume weighted stock price
5 - calculate the GBCE all share index
6 - market summary
0 - Exit
Selection: `

var errEOF = errors.New("unexpected end of input")

type Shell struct {
	ex      *exchange.Exchange
	in      *bufio.Scanner
	pending []string // unread tokens of the current input line
	out     io.Writer
	errOut  io.Writer
	log     *zap.Logger
}

func New(ex *exchange.Exchange, in io.Reader, out, errOut io.Writer, log *zap.Logger) *Shell {
	sc := bufio.NewScanner(in)
	if log == nil {
		log = zap.NewNop()
	}
	return &Shell{ex: ex, in: sc, out: out, errOut: errOut, log: log}
}

// Run loops until the user selects 0, input ends or ctx is cancelled.
// Operation errors are reported and the loop continues.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(s.out, menu)
		tok, err := s.word()
		if err != nil {
			if errors.Is(err, errEOF) {
				return nil
			}
			return err
		}

		choice, err := strconv.Atoi(tok)
		if err != nil {
			fmt.Fprintf(s.errOut, "invalid selection: %q\n", tok)
			s.discardLine()
			continue
		}
		if choice == 0 {
			return nil
		}
		if choice != 5 && choice != 6 {
			fmt.Fprint(s.out, "Enter Parameters: ")
		}

		if err := s.dispatch(choice); err != nil {
			if errors.Is(err, errEOF) {
				return nil
			}
			s.log.Debug("menu operation failed", zap.Int("choice", choice), zap.Error(err))
			fmt.Fprintln(s.errOut, err)
			// leftover parameters must not be read as the next selection
			s.discardLine()
		}
	}
}

func (s *Shell) dispatch(choice int) error {
	switch choice {
	case 1:
		sym, price, err := s.symbolAndPrice()
		if err != nil {
			return err
		}
		y, err := s.ex.DividendYield(sym, price)
		if err != nil {
			return err
		}
		s.result(y)

	case 2:
		sym, price, err := s.symbolAndPrice()
		if err != nil {
			return err
		}
		r, err := s.ex.PERatio(sym, price)
		if err != nil {
			return err
		}
		s.result(r)

	case 3:
		sym, err := s.symbol()
		if err != nil {
			return err
		}
		qty, err := s.quantity()
		if err != nil {
			return err
		}
		dir, err := s.word()
		if err != nil {
			return err
		}
		price, err := s.number()
		if err != nil {
			return err
		}
		if _, err := s.ex.RecordTrade(sym, qty, strings.ToLower(dir), price); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "done!")

	case 4:
		sym, err := s.symbol()
		if err != nil {
			return err
		}
		p, err := s.ex.VolumeWeightedPrice(sym)
		if err != nil {
			return err
		}
		s.result(p)

	case 5:
		s.result(s.ex.AllShareIndex())

	case 6:
		s.summary()

	default:
		fmt.Fprintf(s.errOut, "unknown selection: %d\n", choice)
	}
	return nil
}

func (s *Shell) result(v float64) {
	fmt.Fprintf(s.out, "result: %s\n", strconv.FormatFloat(v, 'g', 6, 64))
}

func (s *Shell) summary() {
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tTYPE\tTRADES\tLAST\tVWP")
	for _, row := range s.ex.Summary() {
		last, vwp := "-", "-"
		if row.Trades > 0 {
			last = strconv.FormatFloat(row.LastPrice, 'f', 2, 64)
		}
		if row.HasVWP {
			vwp = strconv.FormatFloat(row.VWP, 'f', 2, 64)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", row.Instrument.Symbol, row.Instrument.Type, row.Trades, last, vwp)
	}
	tw.Flush()
	fmt.Fprintf(s.out, "all share index: %s\n", strconv.FormatFloat(s.ex.AllShareIndex(), 'g', 6, 64))
}

// word returns the next whitespace separated token. Parameters may sit on
// the selection line or on the lines that follow it.
func (s *Shell) word() (string, error) {
	for len(s.pending) == 0 {
		if !s.in.Scan() {
			if err := s.in.Err(); err != nil {
				return "", err
			}
			return "", errEOF
		}
		s.pending = strings.Fields(s.in.Text())
	}
	w := s.pending[0]
	s.pending = s.pending[1:]
	return w, nil
}

func (s *Shell) discardLine() {
	s.pending = nil
}

func (s *Shell) symbol() (string, error) {
	w, err := s.word()
	return strings.ToUpper(w), err
}

func (s *Shell) number() (float64, error) {
	w, err := s.word()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(w, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", w)
	}
	return v, nil
}

func (s *Shell) quantity() (int64, error) {
	w, err := s.word()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(w, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", w)
	}
	return v, nil
}

func (s *Shell) symbolAndPrice() (string, float64, error) {
	sym, err := s.symbol()
	if err != nil {
		return "", 0, err
	}
	price, err := s.number()
	return sym, price, err
}
