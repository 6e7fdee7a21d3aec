package cmd_test

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keelworks/pairpool/cmd/pairpoold/cmd"
)

// run executes one pairpoold invocation against home and returns its output.
func run(t *testing.T, home string, args ...string) string {
	t.Helper()
	root := cmd.NewRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(append([]string{"--home", home}, args...))
	require.NoError(t, root.Execute(), "pairpoold %v\n%s", args, buf.String())
	return buf.String()
}

func lastJSON(t *testing.T, out string) map[string]string {
	t.Helper()
	var m map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &m), "output: %s", out)
	return m
}

// TestCLI_PoolLifecycle drives a full local pool through the CLI: init, fund,
// approve, deposit, quote, swap, withdraw, verify, export.
func TestCLI_PoolLifecycle(t *testing.T) {
	home := t.TempDir()

	out := run(t, home, "init", "--asset0", "uatom", "--asset1", "uusdc")
	require.Contains(t, out, "initialized uatom/uusdc pool")

	// Fund and approve two accounts.
	for _, acct := range []string{"alice", "bob"} {
		run(t, home, "token", "mint", "uatom", acct, "1000000000")
		run(t, home, "token", "mint", "uusdc", acct, "1000000000")
		run(t, home, "token", "approve", "uatom", "--from", acct, "--unlimited")
		run(t, home, "token", "approve", "uusdc", "--from", acct, "--unlimited")
	}

	out = run(t, home, "add-liquidity", "uatom", "uusdc", "1000000", "4000000", "--from", "alice")
	added := lastJSON(t, out)
	require.Equal(t, "1000000", added["amount_a"])
	require.Equal(t, "4000000", added["amount_b"])
	require.Equal(t, "2000000", added["liquidity"]) // sqrt(1e6 * 4e6)

	out = run(t, home, "pool")
	snapshot := lastJSON(t, out)
	require.Equal(t, "1000000", snapshot["reserve0"])
	require.Equal(t, "4000000", snapshot["reserve1"])
	require.Equal(t, "2000000", snapshot["share_supply"])

	out = run(t, home, "quote", "uatom", "uusdc", "100000")
	quote := lastJSON(t, out)
	require.Equal(t, "363636", quote["amount_out"])

	out = run(t, home, "price", "uatom", "uusdc")
	price := lastJSON(t, out)
	require.Equal(t, "4000000000000000000", price["price"])

	out = run(t, home, "swap", "uatom", "uusdc", "100000", "--from", "bob")
	swapped := lastJSON(t, out)
	require.Equal(t, "363636", swapped["amount_out"])

	out = run(t, home, "balance", "bob")
	balances := lastJSON(t, out)
	require.Equal(t, "999900000", balances["uatom"])
	require.Equal(t, "1000363636", balances["uusdc"])

	out = run(t, home, "remove-liquidity", "uatom", "uusdc", "2000000", "--from", "alice")
	removed := lastJSON(t, out)
	require.Equal(t, "1100000", removed["amount_a"])
	require.Equal(t, "3636364", removed["amount_b"])

	run(t, home, "verify")

	snapshotPath := filepath.Join(home, "snapshot.json")
	out = run(t, home, "export", "--output", snapshotPath)
	require.Contains(t, out, "state exported")
}

// TestCLI_SwapRejectsBadPath tests that a mismatched pair surfaces the
// engine's error through the CLI.
func TestCLI_SwapRejectsBadPath(t *testing.T) {
	home := t.TempDir()
	run(t, home, "init", "--asset0", "uatom", "--asset1", "uusdc")
	run(t, home, "token", "mint", "uatom", "alice", "1000000")

	root := cmd.NewRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"--home", home, "swap", "uatom", "uosmo", "1000", "--from", "alice"})
	require.Error(t, root.Execute())
}

// TestCLI_HashPassword tests the auth helper output shape.
func TestCLI_HashPassword(t *testing.T) {
	out := run(t, t.TempDir(), "auth", "hash-password", "hunter2")
	require.Contains(t, out, "$2a$")
}
