// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRoot_WrongArgCountShowsUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "missing query", args: []string{}, want: "accepts 1 arg(s), received 0"},
		{name: "extra argument", args: []string{"catan", "extra"}, want: "accepts 1 arg(s), received 2"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := executeRoot(t, tc.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
			assert.Contains(t, out, "Usage:")
			assert.Contains(t, out, "bgg-tellico <query>")
		})
	}
}

func TestQueryArgs(t *testing.T) {
	tests := []struct {
		name    string
		flags   []string
		args    []string
		wantErr string
	}{
		{name: "one query", args: []string{"catan"}},
		{name: "no query", wantErr: "accepts 1 arg(s), received 0"},
		{name: "two queries", args: []string{"a", "b"}, wantErr: "accepts 1 arg(s), received 2"},
		{name: "ids without query", flags: []string{"--id", "13,822"}},
		{name: "ids and query", flags: []string{"--id", "13"}, args: []string{"catan"}, wantErr: "mutually exclusive"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "x", Args: queryArgs}
			cmd.Flags().StringSlice("id", nil, "")
			require.NoError(t, cmd.ParseFlags(tc.flags))

			err := cmd.ValidateArgs(tc.args)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}
