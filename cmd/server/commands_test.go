package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetIn(strings.NewReader("s3cret\n"))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"hash", "--cost", "4"})

	require.NoError(t, cmd.Execute())

	hash := strings.TrimSpace(out.String())
	assert.True(t, strings.HasPrefix(hash, "$2a$04$"), hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
}

func TestHashCommand_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		args  []string
	}{
		{"empty password", "\n", []string{"hash"}},
		{"cost out of range", "pw\n", []string{"hash", "--cost", "99"}},
		{"unexpected argument", "pw\n", []string{"hash", "extra"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd := NewRootCmd()
			cmd.SetIn(strings.NewReader(tc.input))
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tc.args)
			assert.Error(t, cmd.Execute())
		})
	}
}

func TestMigrateCommand_RequiresPostgres(t *testing.T) {
	t.Setenv("SECRET_KEY", strings.Repeat("k", 32))
	t.Setenv("ACCOUNTS_DATABASE_DRIVER", "memory")

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config-dir", t.TempDir(), "migrate", "status"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres driver")
}

func TestMigrateCommand_RejectsUnknownSubcommand(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"migrate", "sideways"})

	assert.Error(t, cmd.Execute())
}

func TestServeCommand_InvalidConfig(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	t.Setenv("ACCOUNTS_DATABASE_DRIVER", "memory")

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config-dir", t.TempDir(), "serve"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}
