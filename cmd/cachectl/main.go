// cachectl inspects and clears the derived artifacts stored next to raw files.
//
// Usage:
//
//	cachectl [--data DIR] locate <guid> [artifact]
//	cachectl [--data DIR] fingerprint <guid>
//	cachectl [--data DIR] invalidate <guid>...
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/pflag"

	"contentapi/internal/config"
	"contentapi/internal/logging"
	"contentapi/internal/preview"
	"contentapi/internal/storage"
)

var errUsage = errors.New("usage: cachectl [--data DIR] <locate|fingerprint|invalidate> <guid>...")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg := config.Load()

	var dataPath, logLevel string
	flagSet := pflag.NewFlagSet("cachectl", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&dataPath, "data", cfg.DataPath, "content root containing the content/ tree")
	flagSet.StringVar(&logLevel, "log-level", "warn", "log level for diagnostics written to stderr")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	rest := flagSet.Args()
	if len(rest) < 2 {
		return errUsage
	}

	log := logging.New(stderr, logLevel, nil)
	store := storage.NewFileStore(dataPath, storage.WithLogger(log))

	switch rest[0] {
	case "locate":
		return locate(stdout, store, rest[1:])
	case "fingerprint":
		return fingerprint(stdout, store, rest[1])
	case "invalidate":
		return invalidate(ctx, stdout, store, log, rest[1:])
	default:
		return fmt.Errorf("unknown command %q: %w", rest[0], errUsage)
	}
}

func parseGUID(s string) (string, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid guid %q", s)
	}
	return id.String(), nil
}

func locate(w io.Writer, store *storage.FileStore, args []string) error {
	guid, err := parseGUID(args[0])
	if err != nil {
		return err
	}
	artifact := storage.RawFile
	if len(args) > 1 {
		artifact = args[1]
	}
	_, err = fmt.Fprintln(w, store.Path(guid, artifact))
	return err
}

func fingerprint(w io.Writer, store *storage.FileStore, arg string) error {
	guid, err := parseGUID(arg)
	if err != nil {
		return err
	}
	info, err := store.Stat(guid, storage.RawFile)
	if err != nil {
		return fmt.Errorf("stat raw file: %w", err)
	}
	_, err = fmt.Fprintln(w, preview.Fingerprint(info.ModTime()))
	return err
}

func invalidate(ctx context.Context, w io.Writer, store *storage.FileStore, log *slog.Logger, args []string) error {
	inv := preview.NewInvalidator(store, log, nil)
	var failed []string
	for _, arg := range args {
		guid, err := parseGUID(arg)
		if err != nil {
			return err
		}
		for _, r := range inv.Invalidate(ctx, guid) {
			if r.Outcome == preview.NotFound {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\n", r.Outcome, r.Path)
			if r.Outcome == preview.Failed {
				failed = append(failed, r.Path)
			}
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d artifacts could not be removed: %s", len(failed), strings.Join(failed, ", "))
	}
	return nil
}
