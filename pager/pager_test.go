package pager_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"lesiw.io/autopage/pager"
)

func unset(string) (string, bool) { return "", false }

func set(key string) func(string) (string, bool) {
	return func(k string) (string, bool) { return "", k == key }
}

func TestLessEnv(t *testing.T) {
	tests := []struct {
		name string
		cfg  pager.Config
		want map[string]string
	}{{
		name: "defaults",
		cfg:  pager.Config{},
		want: map[string]string{"LESS": "FX"},
	}, {
		name: "color",
		cfg:  pager.Config{Color: true},
		want: map[string]string{"LESS": "RFX"},
	}, {
		name: "line buffering",
		cfg:  pager.Config{Color: true, LineBuffering: true},
		want: map[string]string{"LESS": "RX"},
	}, {
		name: "reset",
		cfg:  pager.Config{Color: true, Reset: true},
		want: map[string]string{"LESS": "R"},
	}, {
		name: "reset without color",
		cfg:  pager.Config{Reset: true},
		want: nil,
	}, {
		name: "LESS already set",
		cfg:  pager.Config{Color: true, LookupEnv: set("LESS")},
		want: nil,
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.cfg.LookupEnv == nil {
				tt.cfg.LookupEnv = unset
			}
			got := pager.Less().Env(tt.cfg)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Less().Env() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLVEnv(t *testing.T) {
	tests := []struct {
		name string
		cfg  pager.Config
		want map[string]string
	}{{
		name: "color",
		cfg:  pager.Config{Color: true, LookupEnv: unset},
		want: map[string]string{"LV": "-c"},
	}, {
		name: "no color",
		cfg:  pager.Config{LookupEnv: unset},
		want: nil,
	}, {
		name: "LV already set",
		cfg:  pager.Config{Color: true, LookupEnv: set("LV")},
		want: nil,
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pager.LV().Env(tt.cfg)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("LV().Env() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMore(t *testing.T) {
	m := pager.More()
	if diff := cmp.Diff([]string{"more"}, m.Args()); diff != "" {
		t.Errorf("More().Args() mismatch (-want +got):\n%s", diff)
	}
	if env := m.Env(pager.Config{Color: true}); env != nil {
		t.Errorf("More().Env() = %v, want nil", env)
	}
}

func TestUserSpecified(t *testing.T) {
	cmd, err := pager.UserSpecified(`less -S "my file"`)
	if err != nil {
		t.Fatalf("UserSpecified() err = %v", err)
	}
	want := []string{"less", "-S", "my file"}
	if diff := cmp.Diff(want, cmd.Args()); diff != "" {
		t.Errorf("Args() mismatch (-want +got):\n%s", diff)
	}
	env := cmd.Env(pager.Config{Color: true, LookupEnv: unset})
	wantEnv := map[string]string{"LESS": "RFX", "LV": "-c"}
	if diff := cmp.Diff(wantEnv, env); diff != "" {
		t.Errorf("Env() mismatch (-want +got):\n%s", diff)
	}
}

func TestUserSpecifiedEnvPreset(t *testing.T) {
	cmd, err := pager.UserSpecified("most")
	if err != nil {
		t.Fatalf("UserSpecified() err = %v", err)
	}
	lookup := func(string) (string, bool) { return "set", true }
	cfg := pager.Config{Color: true, LookupEnv: lookup}
	if env := cmd.Env(cfg); env != nil {
		t.Errorf("Env() = %v, want nil", env)
	}
}

func TestUserSpecifiedEmpty(t *testing.T) {
	for _, s := range []string{"", "   "} {
		if _, err := pager.UserSpecified(s); !errors.Is(err, pager.ErrEmpty) {
			t.Errorf("UserSpecified(%q) err = %v, want ErrEmpty", s, err)
		}
	}
}

func TestUserSpecifiedBadQuote(t *testing.T) {
	if _, err := pager.UserSpecified(`less "unterminated`); err == nil {
		t.Error("UserSpecified() err = <nil>, want error")
	}
}

func TestFromEnv(t *testing.T) {
	tests := []struct {
		name  string
		pager string
		want  []string
	}{{
		name: "unset",
		want: []string{"less"},
	}, {
		name:  "set",
		pager: "most -s",
		want:  []string{"most", "-s"},
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := pager.FromEnv(func(key string) string {
				if key == "PAGER" {
					return tt.pager
				}
				return ""
			})
			if err != nil {
				t.Fatalf("FromEnv() err = %v", err)
			}
			if diff := cmp.Diff(tt.want, cmd.Args()); diff != "" {
				t.Errorf("Args() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	t.Setenv("PAGER", "lv -c")
	cmd, err := pager.Default()
	if err != nil {
		t.Fatalf("Default() err = %v", err)
	}
	if diff := cmp.Diff([]string{"lv", "-c"}, cmd.Args()); diff != "" {
		t.Errorf("Args() mismatch (-want +got):\n%s", diff)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"less", []string{"less"}},
		{"more", []string{"more"}},
		{"lv", []string{"lv"}},
		{"most -s", []string{"most", "-s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := pager.Lookup(tt.name)
			if err != nil {
				t.Fatalf("Lookup(%q) err = %v", tt.name, err)
			}
			if diff := cmp.Diff(tt.want, cmd.Args()); diff != "" {
				t.Errorf("Args() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRegister(t *testing.T) {
	pager.Register("pg", func() pager.Command {
		cmd, _ := pager.UserSpecified("pg -n")
		return cmd
	})
	cmd, err := pager.Lookup("pg")
	if err != nil {
		t.Fatalf("Lookup() err = %v", err)
	}
	if diff := cmp.Diff([]string{"pg", "-n"}, cmd.Args()); diff != "" {
		t.Errorf("Args() mismatch (-want +got):\n%s", diff)
	}
}
