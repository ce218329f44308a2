//go:build unix

package autopage_test

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"lesiw.io/autopage"
	"lesiw.io/autopage/pager"
)

// TestFakePager is not a test. Run as a subprocess, it is a pager that
// shows FAKE_PAGER_LINES lines per page. It reports its progress on the
// terminal with one record per line: "PAGE n" when it waits at a prompt
// after n lines, and "END n" when its input ran out after n lines. A
// space shows the next page and q quits with exit code FAKE_PAGER_CODE.
func TestFakePager(t *testing.T) {
	if os.Getenv("AUTOPAGE_FAKE_PAGER") != "1" {
		t.Skip("runs only as a pager subprocess")
	}
	os.Exit(fakePager())
}

func fakePager() int {
	page, err := strconv.Atoi(os.Getenv("FAKE_PAGER_LINES"))
	if err != nil || page <= 0 {
		page = 23
	}
	code, _ := strconv.Atoi(os.Getenv("FAKE_PAGER_CODE"))

	tty := os.Stdout
	if state, err := term.MakeRaw(int(tty.Fd())); err == nil {
		defer func() { _ = term.Restore(int(tty.Fd()), state) }()
	}
	key := func() byte {
		b := make([]byte, 1)
		if _, err := tty.Read(b); err != nil {
			return 'q'
		}
		return b[0]
	}

	in := bufio.NewReader(os.Stdin)
	count := 0
	for {
		for range page {
			if _, err := in.ReadString('\n'); err != nil {
				_, _ = fmt.Fprintf(tty, "END %d\n", count)
				for key() != 'q' {
					continue
				}
				return code
			}
			count++
		}
		_, _ = fmt.Fprintf(tty, "PAGE %d\n", count)
		for k := key(); k != ' '; k = key() {
			if k == 'q' {
				return code
			}
		}
	}
}

type fakePagerCmd map[string]string

func (fakePagerCmd) Args() []string {
	binary, err := filepath.Abs(os.Args[0])
	if err != nil {
		binary = os.Args[0]
	}
	return []string{binary, "-test.run=^TestFakePager$"}
}

func (c fakePagerCmd) Env(pager.Config) map[string]string {
	env := map[string]string{"AUTOPAGE_FAKE_PAGER": "1"}
	for k, v := range c {
		env[k] = v
	}
	return env
}

var _ pager.Command = fakePagerCmd(nil)

// record is a progress report of the fake pager.
type record struct {
	end   bool
	count int
}

// driveFakePager reads the fake pager's records from ptmx and answers
// each with the key returned by respond, until respond returns 'q'.
// It returns the last record.
func driveFakePager(
	ptmx *os.File, respond func(record) byte,
) (record, error) {
	r := bufio.NewReader(ptmx)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return record{}, err
		}
		word, n, ok := strings.Cut(strings.TrimSpace(line), " ")
		if !ok || (word != "PAGE" && word != "END") {
			continue
		}
		rec := record{end: word == "END"}
		if rec.count, err = strconv.Atoi(n); err != nil {
			return rec, fmt.Errorf("bad record %q: %w", line, err)
		}
		k := respond(rec)
		if _, err := ptmx.Write([]byte{k}); err != nil {
			return rec, err
		}
		if k == 'q' {
			return rec, nil
		}
	}
}

// scrollToEnd pages through everything, then quits.
func scrollToEnd(rec record) byte {
	if rec.end {
		return 'q'
	}
	return ' '
}

func writeForever(s *autopage.Stream) error {
	for i := 1; ; i++ {
		if _, err := fmt.Fprintf(s, "line %d\n", i); err != nil {
			return err
		}
	}
}

func newFakePaged(
	t *testing.T, env fakePagerCmd,
) (*os.File, *autopage.AutoPager) {
	t.Helper()
	ptmx, tty := openTerminal(t)
	ap, err := autopage.New(
		autopage.Output(autopage.NewStream(tty)),
		autopage.Pager(env),
	)
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}
	if !ap.ToTerminal() {
		t.Fatal("ToTerminal() = false for a pseudo-terminal")
	}
	return ptmx, ap
}

func TestEndToEndPageToEnd(t *testing.T) {
	ptmx, ap := newFakePaged(t, fakePagerCmd{"FAKE_PAGER_LINES": "23"})

	var g errgroup.Group
	g.Go(func() error {
		out, err := ap.Enter(t.Context())
		if err != nil {
			return err
		}
		return ap.Exit(autopage.OutcomeOf(writeLines(out, 100)))
	})
	var pages []int
	last, err := driveFakePager(ptmx, func(rec record) byte {
		if !rec.end {
			pages = append(pages, rec.count)
		}
		return scrollToEnd(rec)
	})
	if err != nil {
		t.Fatalf("driveFakePager() err = %v", err)
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("scope err = %v", err)
	}

	if got, want := last, (record{end: true, count: 100}); got != want {
		t.Errorf("last record = %+v, want %+v", got, want)
	}
	if got, want := fmt.Sprint(pages), "[23 46 69 92]"; got != want {
		t.Errorf("pages = %s, want %s", got, want)
	}
	if got, want := ap.ExitCode(), 0; got != want {
		t.Errorf("ExitCode() = %d, want %d", got, want)
	}
}

func TestEndToEndPagerExitCode(t *testing.T) {
	ptmx, ap := newFakePaged(t, fakePagerCmd{"FAKE_PAGER_CODE": "3"})

	var g errgroup.Group
	g.Go(func() error {
		out, err := ap.Enter(t.Context())
		if err != nil {
			return err
		}
		return ap.Exit(autopage.OutcomeOf(writeLines(out, 10)))
	})
	if _, err := driveFakePager(ptmx, scrollToEnd); err != nil {
		t.Fatalf("driveFakePager() err = %v", err)
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("scope err = %v", err)
	}
	if got, want := ap.ExitCode(), 3; got != want {
		t.Errorf("ExitCode() = %d, want %d", got, want)
	}
}

func TestEndToEndQuitEarly(t *testing.T) {
	ptmx, ap := newFakePaged(t, nil)

	var g errgroup.Group
	g.Go(func() error {
		out, err := ap.Enter(t.Context())
		if err != nil {
			return err
		}
		return ap.Exit(autopage.OutcomeOf(writeForever(out)))
	})
	last, err := driveFakePager(ptmx, func(record) byte { return 'q' })
	if err != nil {
		t.Fatalf("driveFakePager() err = %v", err)
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("scope err = %v, want broken pipe swallowed", err)
	}
	if got, want := last.count, 23; got != want {
		t.Errorf("lines shown = %d, want %d", got, want)
	}
	if got, want := ap.ExitCode(), 141; got != want {
		t.Errorf("ExitCode() = %d, want %d", got, want)
	}
}

func TestEndToEndInterrupt(t *testing.T) {
	ptmx, ap := newFakePaged(t, fakePagerCmd{"FAKE_PAGER_CODE": "5"})

	stopped := make(chan struct{})
	var g errgroup.Group
	g.Go(func() error {
		out, err := ap.Enter(t.Context())
		if err != nil {
			close(stopped)
			return err
		}
		err = writeForever(out)
		close(stopped)
		return ap.Exit(autopage.OutcomeOf(err))
	})
	last, err := driveFakePager(ptmx, func(rec record) byte {
		if rec.count < 46 {
			return ' '
		}
		if err := unix.Kill(unix.Getpid(), unix.SIGINT); err != nil {
			t.Errorf("Kill() err = %v", err)
		}
		select {
		case <-stopped:
		case <-time.After(10 * time.Second):
			t.Error("writer not stopped by interrupt")
		}
		return 'q'
	})
	if err != nil {
		t.Fatalf("driveFakePager() err = %v", err)
	}
	err = g.Wait()
	if !errors.Is(err, autopage.ErrInterrupted) {
		t.Errorf("scope err = %v, want ErrInterrupted", err)
	}
	if last.count <= 23 {
		t.Errorf("lines shown = %d, want more than one page", last.count)
	}
	if got, want := ap.ExitCode(), 130; got != want {
		t.Errorf("ExitCode() = %d, want %d", got, want)
	}
}

func TestEndToEndInterruptAfterOutput(t *testing.T) {
	ptmx, ap := newFakePaged(t, nil)

	var g errgroup.Group
	g.Go(func() error {
		out, err := ap.Enter(t.Context())
		if err != nil {
			return err
		}
		return ap.Exit(autopage.OutcomeOf(writeLines(out, 30)))
	})
	_, err := driveFakePager(ptmx, func(rec record) byte {
		if !rec.end {
			return ' '
		}
		for range 3 {
			if err := unix.Kill(unix.Getpid(), unix.SIGINT); err != nil {
				t.Errorf("Kill() err = %v", err)
			}
		}
		time.Sleep(100 * time.Millisecond)
		return 'q'
	})
	if err != nil {
		t.Fatalf("driveFakePager() err = %v", err)
	}
	if err := g.Wait(); err != nil {
		t.Errorf("scope err = %v, want nil", err)
	}
	if got, want := ap.ExitCode(), 0; got != want {
		t.Errorf("ExitCode() = %d, want %d", got, want)
	}
}
