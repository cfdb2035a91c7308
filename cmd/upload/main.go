package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sir_venger/upload_lite/pkg/uploadclient"
)

const defaultServerURL = "http://localhost:8080"

// main запускает консольный клиент: upload <file>, download <name> [dst], list.
func main() {
	addr := flag.String("server", defaultServerURL, "upload service base URL")
	quiet := flag.Bool("quiet", false, "disable progress output")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] upload <file> | download <name> [dst] | list\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []uploadclient.Option
	if !*quiet {
		opts = append(opts, uploadclient.WithProgress(os.Stderr))
	}
	c := uploadclient.New(*addr, opts...)

	if err := run(ctx, c, flag.Args()); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, c uploadclient.Client, args []string) error {
	if len(args) == 0 {
		flag.Usage()
		return fmt.Errorf("command is required")
	}

	switch args[0] {
	case "upload":
		if len(args) != 2 {
			return fmt.Errorf("upload needs exactly one file")
		}
		return upload(ctx, c, args[1])
	case "download":
		if len(args) < 2 || len(args) > 3 {
			return fmt.Errorf("download needs a name and an optional destination")
		}
		dst := filepath.Base(args[1])
		if len(args) == 3 {
			dst = args[2]
		}
		return download(ctx, c, args[1], dst)
	case "list":
		links, err := c.List(ctx)
		if err != nil {
			return err
		}
		for _, l := range links {
			fmt.Println(l)
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func upload(ctx context.Context, c uploadclient.Client, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}

	return c.Upload(ctx, filepath.Base(path), f, fi.Size())
}

func download(ctx context.Context, c uploadclient.Client, name, dst string) error {
	if dst == "-" {
		_, err := c.Download(ctx, name, os.Stdout)
		return err
	}

	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err = c.Download(ctx, name, f); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return err
	}
	return f.Close()
}
