// Package session runs the interactive allergy command loop for one profile.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/rcliao/allergen-profile/internal/allergen"
	"github.com/rcliao/allergen-profile/internal/journal"
	"github.com/rcliao/allergen-profile/internal/profile"
)

const (
	addPrompt    = "Enter a valid allergy number: "
	removePrompt = "Enter allergy identifier you want to remove: "
	invalidMsg   = "Invalid option"
)

// Recorder keeps the history of allergy changes.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) (*journal.Entry, error)
	List(ctx context.Context, profile string) ([]journal.Entry, error)
}

// Config wires a session to its streams and profile. Journal is optional.
type Config struct {
	In      io.Reader
	Out     io.Writer
	Err     io.Writer
	Profile *profile.Profile
	Journal Recorder
}

// Session is a single-threaded command loop over one profile.
type Session struct {
	in      *bufio.Reader
	out     io.Writer
	errOut  io.Writer
	profile *profile.Profile
	journal Recorder
}

// New creates a session.
func New(cfg Config) *Session {
	return &Session{
		in:      bufio.NewReader(cfg.In),
		out:     cfg.Out,
		errOut:  cfg.Err,
		profile: cfg.Profile,
		journal: cfg.Journal,
	}
}

// Run loops until the quit command or end of input. Read and write failures
// are returned as they leave the session unusable.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := s.printf("%s\n%s", allergen.Menu(), addPrompt); err != nil {
			return err
		}

		line, err := s.readLine()
		if errors.Is(err, io.EOF) {
			log.Printf("[DEBUG] end of input, leaving session for %s", s.profile.Name())
			return nil
		}
		if err != nil {
			return err
		}

		quit, err := s.handle(ctx, line)
		if err != nil {
			return err
		}
		if quit {
			log.Printf("[DEBUG] quit requested by %s", s.profile.Name())
			return nil
		}
	}
}

func (s *Session) handle(ctx context.Context, line string) (quit bool, err error) {
	if n, perr := strconv.ParseUint(line, 10, 32); perr == nil {
		return false, s.add(ctx, uint32(n))
	}

	r := []rune(line)
	if len(r) != 1 {
		log.Printf("[DEBUG] ignored input %q", line)
		return false, nil
	}

	switch r[0] {
	case 'q':
		return true, nil
	case 'a':
		return false, s.printf("%s\n", s.profile.AllergyLine())
	case 'i':
		return false, s.printf("%s\n", s.profile.Summary())
	case 'c':
		return false, s.remove(ctx)
	case 'h':
		if s.journal != nil {
			return false, s.history(ctx)
		}
	}
	log.Printf("[DEBUG] ignored command %q", line)
	return false, nil
}

func (s *Session) add(ctx context.Context, mask uint32) error {
	if err := s.profile.AddAllergies(mask); err != nil {
		log.Printf("[DEBUG] rejected add of %d: %v", mask, err)
		if _, werr := fmt.Fprintln(s.errOut, invalidMsg); werr != nil {
			return fmt.Errorf("write output: %w", werr)
		}
		return nil
	}
	s.record(ctx, journal.OpAdd, mask)
	return nil
}

// remove reads the mask to clear. Invalid masks are dropped without a message.
func (s *Session) remove(ctx context.Context) error {
	if err := s.printf("%s", removePrompt); err != nil {
		return err
	}

	line, err := s.readLine()
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	n, perr := strconv.ParseUint(line, 10, 32)
	if perr != nil {
		log.Printf("[DEBUG] ignored remove input %q", line)
		return nil
	}
	mask := uint32(n)
	if err := s.profile.RemoveAllergies(mask); err != nil {
		log.Printf("[DEBUG] ignored remove of %d: %v", mask, err)
		return nil
	}
	s.record(ctx, journal.OpRemove, mask)
	return nil
}

func (s *Session) record(ctx context.Context, op journal.Op, mask uint32) {
	if s.journal == nil {
		return
	}
	e, err := s.journal.Record(ctx, journal.Entry{
		Profile: s.profile.Name(),
		Op:      op,
		Mask:    mask,
		Result:  s.profile.Allergies().String(),
	})
	if err != nil {
		log.Printf("[WARN] can't record %s of %d: %v", op, mask, err)
		return
	}
	log.Printf("[DEBUG] recorded change %s: %s %d -> %s", e.ID, e.Op, e.Mask, e.Result)
}

func (s *Session) history(ctx context.Context) error {
	entries, err := s.journal.List(ctx, s.profile.Name())
	if err != nil {
		log.Printf("[WARN] can't list changes: %v", err)
		return nil
	}
	if len(entries) == 0 {
		return s.printf("No changes recorded.\n")
	}
	for i, e := range entries {
		if err := s.printf("%d. %s %d -> %s\n", i+1, e.Op, e.Mask, e.Result); err != nil {
			return err
		}
	}
	return nil
}

// readLine returns the next trimmed line. A final line without a newline is
// returned as is; io.EOF is only reported once nothing is left.
func (s *Session) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (s *Session) printf(format string, args ...interface{}) error {
	if _, err := fmt.Fprintf(s.out, format, args...); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
