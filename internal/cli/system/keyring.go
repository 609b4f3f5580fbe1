package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/feedingfoundation/locator/internal/cli"
	"github.com/feedingfoundation/locator/internal/keyring"
	"github.com/feedingfoundation/locator/internal/storage/postgres"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
	Get    KeyringGetCmd    `cmd:"" help:"Show a stored secret, masked."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
	Status KeyringStatusCmd `cmd:"" help:"Check whether the OS keyring is available."`
}

// KeyringSetCmd stores the Google Maps API key or a PostgreSQL connection
// string in the OS keyring.
type KeyringSetCmd struct {
	Entry  string `arg:"" help:"Entry to set: db or google."`
	Secret string `arg:"" help:"Connection string or API key."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	entry, err := keyring.ParseEntry(cmd.Entry)
	if err != nil {
		return err
	}

	if entry == keyring.ConnectionString {
		if err := postgres.ValidateConnString(cmd.Secret); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("invalid connection string: %w", err)
			}
			fmt.Fprintln(stdout, "⚠️  Connection string contains a password. It is kept as-is in the encrypted OS keyring.")
		}
	}

	if err := keyring.Set(entry, cmd.Secret); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "✓ Stored %s in OS keyring\n", entry)
	return nil
}

type KeyringGetCmd struct {
	Entry string `arg:"" help:"Entry to show: db or google."`
}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	entry, err := keyring.ParseEntry(cmd.Entry)
	if err != nil {
		return err
	}
	secret, err := keyring.Get(entry)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("nothing stored for %s, use 'locator keyring set %s' first", entry, cmd.Entry)
		}
		return err
	}

	if entry == keyring.ConnectionString {
		fmt.Fprintln(stdout, maskPassword(secret))
	} else {
		fmt.Fprintln(stdout, maskKey(secret))
	}
	return nil
}

type KeyringDeleteCmd struct {
	Entry string `arg:"" help:"Entry to delete: db or google."`
}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	entry, err := keyring.ParseEntry(cmd.Entry)
	if err != nil {
		return err
	}
	if err := keyring.Delete(entry); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("nothing stored for %s", entry)
		}
		return err
	}
	fmt.Fprintf(stdout, "✓ Deleted %s from OS keyring\n", entry)
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Fprintln(stdout, "❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	fmt.Fprintln(stdout, "✓ OS keyring is available")
	for _, e := range keyring.Entries {
		if _, err := keyring.Get(e); err == nil {
			fmt.Fprintf(stdout, "✓ %s is stored\n", e)
		} else {
			fmt.Fprintf(stdout, "ℹ %s is not stored\n", e)
		}
	}
	return nil
}

// maskPassword hides the password of a URL or key=value connection string.
func maskPassword(connStr string) string {
	if postgres.IsConnString(connStr) {
		idx := strings.Index(connStr, "://")
		rest := connStr[idx+3:]
		if at := strings.LastIndex(rest, "@"); at != -1 {
			userInfo := rest[:at]
			if colon := strings.Index(userInfo, ":"); colon != -1 {
				return connStr[:idx+3] + userInfo[:colon] + ":****" + rest[at:]
			}
		}
		return connStr
	}

	fields := strings.Fields(connStr)
	for i, f := range fields {
		if strings.HasPrefix(f, "password=") {
			fields[i] = "password=****"
		}
	}
	return strings.Join(fields, " ")
}

// maskKey keeps the last four characters of an API key.
func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
