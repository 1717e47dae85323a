// Package terminal renders weather displays as text and drives a WeatherService from line input.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fakhrymubarak/weather-lookup/internal/model"
)

const (
	CmdUnits = "/units"
	CmdQuit  = "/quit"
)

// Surface writes each display state to out as a block of lines.
type Surface struct {
	mu  sync.Mutex
	out io.Writer
}

func NewSurface(out io.Writer) *Surface {
	return &Surface{out: out}
}

func (s *Surface) ShowPending() {
	s.write(model.MsgLoading)
}

func (s *Surface) ShowWeather(view model.View) {
	lines := []string{view.Temperature, view.FeelsLike}
	lines = append(lines, view.Details...)
	lines = append(lines, "Icon: "+view.IconURL)
	s.write(lines...)
}

func (s *Surface) ShowError(message string) {
	s.write(message)
}

func (s *Surface) SetUnitLabel(label string) {
	s.write(fmt.Sprintf("[%s] %s", CmdUnits, label))
}

func (s *Surface) write(lines ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range lines {
		fmt.Fprintln(s.out, l)
	}
}

// WeatherClient is what Run drives.
type WeatherClient interface {
	RequestWeather(ctx context.Context, city string) (*model.Reading, error)
	ToggleUnit(ctx context.Context) model.Units
}

// Run reads lines from in until EOF, CmdQuit or ctx is done. A line is the city input,
// CmdUnits toggles units. Request errors are already rendered, so only read errors are returned.
// Reading happens on its own goroutine so a cancelled ctx returns even while waiting for input;
// that goroutine exits once in is closed or yields another line.
func Run(ctx context.Context, client WeatherClient, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			select {
			case err := <-readErr:
				return err
			default:
				return nil
			}
		}
		if ctx.Err() != nil {
			return nil
		}

		switch strings.TrimSpace(line) {
		case CmdQuit:
			return nil
		case CmdUnits:
			client.ToggleUnit(ctx)
		default:
			_, _ = client.RequestWeather(ctx, line)
		}
	}
}
