// Package pager describes the pager programs an AutoPager can run.
//
// A [Command] supplies the command line of a pager and the environment
// variables that tune it for a particular paging session. Less, More and
// LV describe well-known pagers; [UserSpecified] parses a command line
// supplied by the user, typically through $PAGER.
package pager

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/shlex"
	"lesiw.io/zeros"
)

// ErrEmpty is returned by UserSpecified for a command line with no words.
var ErrEmpty = errors.New("pager: empty command")

// Config describes the paging session a pager is started for.
type Config struct {
	// Color reports whether the output may contain ANSI color sequences.
	Color bool

	// LineBuffering reports whether the output is line buffered, in which
	// case the pager should show lines as they arrive.
	LineBuffering bool

	// Reset reports whether the terminal should be restored when the
	// pager exits.
	Reset bool

	// LookupEnv looks up the caller's environment.
	// If nil, os.LookupEnv is used.
	LookupEnv func(key string) (string, bool)
}

func (c Config) isSet(key string) bool {
	lookup := c.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	_, ok := lookup(key)
	return ok
}

// A Command is a pager program.
type Command interface {
	// Args returns the command line, starting with the program name.
	Args() []string

	// Env returns the environment variables to set for a session
	// described by cfg. It may return nil.
	Env(cfg Config) map[string]string
}

type less struct{}

// Less returns the pager less.
//
// Unless $LESS is already set, less is configured with R to pass color
// sequences through, F to quit when the output fits on one screen, and
// X to leave the output on the terminal after exiting. F is left out
// when line buffering or a reset is requested; X is left out when a
// reset is requested.
func Less() Command { return less{} }

func (less) Args() []string { return []string{"less"} }

func (less) Env(cfg Config) map[string]string {
	var flags []byte
	if cfg.Color {
		flags = append(flags, 'R')
	}
	if !cfg.LineBuffering && !cfg.Reset {
		flags = append(flags, 'F')
	}
	if !cfg.Reset {
		flags = append(flags, 'X')
	}
	if len(flags) == 0 || cfg.isSet("LESS") {
		return nil
	}
	return map[string]string{"LESS": string(flags)}
}

func (less) String() string { return "less" }

type more struct{}

// More returns the pager more. It takes no configuration.
func More() Command { return more{} }

func (more) Args() []string               { return []string{"more"} }
func (more) Env(Config) map[string]string { return nil }
func (more) String() string               { return "more" }

type lv struct{}

// LV returns the pager lv.
// Unless $LV is already set, color sequences are enabled with -c.
func LV() Command { return lv{} }

func (lv) Args() []string { return []string{"lv"} }

func (lv) Env(cfg Config) map[string]string {
	if !cfg.Color || cfg.isSet("LV") {
		return nil
	}
	return map[string]string{"LV": "-c"}
}

func (lv) String() string { return "lv" }

type userSpecified struct {
	args []string
}

// UserSpecified returns a pager running the shell-style command line s.
//
// The program is not known in advance, so the environment carries the
// settings of every known pager that takes any.
func UserSpecified(s string) (Command, error) {
	args, err := shlex.Split(s)
	if err != nil {
		return nil, fmt.Errorf("pager: bad command %q: %w", s, err)
	}
	if len(args) == 0 {
		return nil, ErrEmpty
	}
	return &userSpecified{args}, nil
}

func (u *userSpecified) Args() []string { return u.args }

func (*userSpecified) Env(cfg Config) map[string]string {
	var env map[string]string
	for _, cmd := range []Command{Less(), LV()} {
		for k, v := range cmd.Env(cfg) {
			if env == nil {
				env = make(map[string]string)
			}
			env[k] = v
		}
	}
	return env
}

// Platform returns the default pager of the current platform.
func Platform() Command { return Less() }

// Default returns the pager named by $PAGER, or Platform if $PAGER is
// unset or empty.
func Default() (Command, error) {
	return FromEnv(os.Getenv)
}

// FromEnv is like Default, but reads PAGER through getenv.
func FromEnv(getenv func(string) string) (Command, error) {
	if s := getenv("PAGER"); s != "" {
		return UserSpecified(s)
	}
	return Platform(), nil
}

var (
	registryMu sync.RWMutex
	registry   zeros.Map[string, func() Command]
)

func init() {
	Register("less", Less)
	Register("more", More)
	Register("lv", LV)
}

// Register makes a pager available to Lookup under name.
// Registering a name again replaces the previous pager.
func Register(name string, fn func() Command) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry.Set(name, fn)
}

// Lookup returns the registered pager called name.
// If there is none, name is parsed as a command line.
func Lookup(name string) (Command, error) {
	registryMu.RLock()
	fn, ok := registry.CheckGet(name)
	registryMu.RUnlock()
	if ok {
		return fn(), nil
	}
	return UserSpecified(name)
}

