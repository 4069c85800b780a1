package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/reillypo/nps-explorer/internal/model"
	"github.com/reillypo/nps-explorer/internal/pipeline"
	"github.com/reillypo/nps-explorer/pkg/failure"
	"github.com/spf13/cobra"
)

const (
	statePrompt  = `Enter a state name (case-insensitive) or "exit": `
	sitePrompt   = "Enter a number for places nearby to site, or 'back' to select a new state, or 'exit': "
	separator    = "---------------------------------------"
	unknownState = "[Error] Enter proper state name"
	outOfRange   = "Please enter a number within your search results."
	farewell     = "Bye!"
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Start the interactive explorer (default command).",
	Args:  cobra.NoArgs,
	RunE:  runExplore,
}

func runExplore(cmd *cobra.Command, args []string) error {
	session := NewSession(explorer, cmd.InOrStdin(), cmd.OutOrStdout())
	return session.Run(cmd.Context())
}

// Session is one interactive exploration. Recoverable failures are
// printed and the prompt comes back; a fatal failure ends Run.
type Session struct {
	explorer Explorer
	in       *bufio.Scanner
	out      io.Writer
}

func NewSession(explorer Explorer, in io.Reader, out io.Writer) *Session {
	return &Session{
		explorer: explorer,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// errSessionOver ends the session without an error of its own.
var errSessionOver = errors.New("session over")

// Run loops until the user exits, input ends, or a fatal error occurs.
func (s *Session) Run(ctx context.Context) error {
	for {
		err := s.chooseState(ctx)
		if errors.Is(err, errSessionOver) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (s *Session) chooseState(ctx context.Context) error {
	input, ok := s.ask(statePrompt)
	if !ok || strings.EqualFold(input, "exit") {
		return s.goodbye()
	}

	sites, err := s.explorer.Sites(ctx, input)
	if err != nil {
		var pipelineErr *pipeline.PipelineError
		if errors.As(err, &pipelineErr) && pipelineErr.Cause == pipeline.ErrCauseUnknownState {
			s.println(unknownState)
			return nil
		}
		return s.report(err)
	}

	s.printHeader("List of national sites in " + input)
	printSites(s.out, sites)

	return s.chooseSite(ctx, sites)
}

func (s *Session) chooseSite(ctx context.Context, sites []model.NationalSite) error {
	for {
		input, ok := s.ask(sitePrompt)
		if !ok {
			return s.goodbye()
		}

		switch {
		case strings.EqualFold(input, "back"):
			return nil
		case strings.EqualFold(input, "exit"):
			return s.goodbye()
		case !isNumeric(input):
			continue
		}

		n, err := strconv.Atoi(input)
		if err != nil || n < 1 || n > len(sites) {
			s.println(outOfRange)
			continue
		}

		site := sites[n-1]
		s.printHeader("Places near " + site.Name())
		result, nearbyErr := s.explorer.Nearby(ctx, site)
		if nearbyErr != nil {
			if err := s.report(nearbyErr); err != nil {
				return err
			}
			continue
		}
		printPlaces(s.out, result.Places)
	}
}

// report prints a recoverable error and swallows it; fatal errors are
// returned to end the session.
func (s *Session) report(err failure.ClassifiedError) error {
	if failure.IsFatal(err) {
		return err
	}
	s.println("[Error] " + err.Error())
	return nil
}

func (s *Session) ask(prompt string) (string, bool) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *Session) goodbye() error {
	s.println("")
	s.println(farewell)
	return errSessionOver
}

func (s *Session) printHeader(title string) {
	s.println(separator)
	s.println(title)
	s.println(separator)
}

func (s *Session) println(line string) {
	fmt.Fprintln(s.out, line)
}

func printSites(out io.Writer, sites []model.NationalSite) {
	for i, site := range sites {
		fmt.Fprintf(out, "[%d] %s\n", i+1, site.Info())
	}
}

func printPlaces(out io.Writer, places []model.NearbyPlace) {
	for _, place := range places {
		fmt.Fprintln(out, place.String())
	}
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
