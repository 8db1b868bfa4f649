package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindCommandTree(t *testing.T) {
	var (
		addr     string
		entities []string
		level    string
	)
	root := &cobra.Command{Use: "root"}
	root.PersistentFlags().StringVar(&level, "log-level", "info", "")
	sub := &cobra.Command{Use: "sub"}
	leaf := &cobra.Command{Use: "leaf"}
	leaf.Flags().StringVar(&addr, "server-addr", "localhost:8080", "")
	leaf.Flags().StringSliceVar(&entities, "entity", nil, "")
	sub.AddCommand(leaf)
	root.AddCommand(sub)

	cfg := filepath.Join(t.TempDir(), "cfg.yml")
	require.NoError(t, os.WriteFile(cfg,
		[]byte("entity:\n  - car\n  - session\nlog-level: debug\n"), 0o600))
	v := viper.New()
	v.SetConfigFile(cfg)
	require.NoError(t, v.ReadInConfig())
	t.Setenv("RACEMETRICS_SERVER_ADDR", ":9090")

	// merges the persistent flags as Execute would
	require.NoError(t, root.ParseFlags(nil))
	bindCommandTree(root, v)

	assert.Equal(t, ":9090", addr)
	assert.Equal(t, []string{"car", "session"}, entities)
	assert.Equal(t, "debug", level)
}

func TestFlagValue(t *testing.T) {
	assert.Equal(t, "a,b", flagValue([]any{"a", "b"}))
	assert.Equal(t, "a", flagValue([]string{"a"}))
	assert.Equal(t, "15s", flagValue("15s"))
	assert.Equal(t, "true", flagValue(true))
}
