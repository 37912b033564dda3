package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexflint/go-arg"

	"github.com/hayeah/repobundle/github"
	"github.com/hayeah/repobundle/localrepo"
	"github.com/hayeah/repobundle/repotree"
	"github.com/hayeah/repobundle/selection"
)

type args struct {
	Owner string `arg:"--owner" help:"Repository owner"`
	Repo  string `arg:"--repo" help:"Repository name"`
	Ref   string `arg:"--ref" default:"main" help:"Branch, tag, or commit"`
	Path  string `arg:"--path" help:"Restrict to a subdirectory of the repository"`
	Dir   string `arg:"--dir" help:"Pick from a local checkout instead of a remote repository"`
	Token string `arg:"--token,env:GITHUB_TOKEN" help:"GitHub API token"`
}

func main() {
	var a args
	arg.MustParse(&a)

	if err := run(&a); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(a *args) error {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var entries []repotree.Entry
	var err error
	switch {
	case a.Dir != "":
		var client *localrepo.Client
		client, err = localrepo.NewClient(a.Dir)
		if err != nil {
			return err
		}
		entries, err = client.ListEntries(ctx, a.Path)
	case a.Owner != "" && a.Repo != "":
		client := github.NewClient(a.Token, logger)
		entries, err = client.ListEntries(ctx, a.Owner, a.Repo, a.Ref, a.Path)
	default:
		return fmt.Errorf("either --dir or both --owner and --repo are required")
	}
	if err != nil {
		return err
	}

	root := repotree.BuildTree(entries)
	state := selection.DefaultState(root, nil)

	selected, err := pickInteractively(root, state)
	if err != nil {
		return err
	}

	for _, path := range selected {
		fmt.Println(path)
	}
	return nil
}
