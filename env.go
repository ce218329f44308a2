package autopage

import (
	"context"
	"maps"
	"os"
)

type envKey struct{}

// Env returns the value of the environment variable named by key.
// It first checks the context, then falls back to the process
// environment. Returns an empty string if the variable is unset.
func Env(ctx context.Context, key string) string {
	val, _ := LookupEnv(ctx, key)
	return val
}

// LookupEnv is like Env, but also reports whether the variable is set.
func LookupEnv(ctx context.Context, key string) (string, bool) {
	if val, ok := Envs(ctx)[key]; ok {
		return val, true
	}
	return os.LookupEnv(key)
}

// Envs returns a map of the environment variables stored in ctx.
func Envs(ctx context.Context) map[string]string {
	if env, ok := ctx.Value(envKey{}).(map[string]string); ok {
		return env
	}
	return nil
}

// WithEnv returns a new context with the provided environment variables
// merged with any existing environment variables in ctx.
//
// Pagers launched by an AutoPager entered with the returned context see
// these variables on top of the process environment. They also take
// part in pager selection: setting PAGER here overrides $PAGER.
func WithEnv(ctx context.Context, env map[string]string) context.Context {
	val := maps.Clone(Envs(ctx))
	if val == nil {
		val = make(map[string]string, len(env))
	}
	maps.Copy(val, env)
	return context.WithValue(ctx, envKey{}, val)
}
