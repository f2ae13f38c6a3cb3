// Package cli is the terminal prompt composer.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/amterp/ra"

	"promptlab/internal/catalog"
)

// CommandContext holds parsed flag values.
type CommandContext struct {
	NonInteractive *bool
	Plain          *bool
	Subject        *string
	Idea           *string
	Accent         *string
	Mode           *string
	Catalog        *string
}

// Run is the main entry point for the CLI.
func Run() {
	ctx := &CommandContext{}

	cmd := ra.NewCmd("promptlab")
	cmd.SetDescription("Compose image prompts with a color palette")

	ctx.NonInteractive, _ = ra.NewBool("non-interactive").
		SetShort("I").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Use catalog defaults and flags without prompting").
		Register(cmd)
	ctx.Plain, _ = ra.NewBool("plain").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Print only the prompt").
		Register(cmd)
	ctx.Subject, _ = ra.NewString("subject").
		SetShort("s").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Subject of the image").
		Register(cmd)
	ctx.Idea, _ = ra.NewString("idea").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Free-form idea; its first clause becomes the subject").
		Register(cmd)
	ctx.Accent, _ = ra.NewString("accent").
		SetShort("a").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Base color as #rrggbb").
		Register(cmd)
	ctx.Mode, _ = ra.NewString("mode").
		SetShort("m").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Palette harmony: Análoga, Complementar or Triádica").
		Register(cmd)
	ctx.Catalog, _ = ra.NewString("catalog").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("TOML file overriding the built-in option catalog (default $CATALOG_PATH)").
		Register(cmd)

	cmd.ParseOrExit(os.Args[1:])

	os.Exit(execute(ctx, os.Stdout, os.Stderr))
}

func execute(ctx *CommandContext, stdout, stderr io.Writer) int {
	path := *ctx.Catalog
	if path == "" {
		path = os.Getenv("CATALOG_PATH")
	}
	cat, err := catalog.Load(path)
	if err != nil {
		fmt.Fprintf(stderr, "promptlab: %v\n", err)
		return 1
	}
	var p Prompter = &HuhPrompter{}
	if *ctx.NonInteractive {
		p = &NoopPrompter{}
	}
	res, err := Compose(cat, Options{
		Subject:        *ctx.Subject,
		Idea:           *ctx.Idea,
		Accent:         *ctx.Accent,
		Mode:           *ctx.Mode,
		NonInteractive: *ctx.NonInteractive,
	}, p)
	if err != nil {
		fmt.Fprintf(stderr, "promptlab: %v\n", err)
		return 1
	}
	if *ctx.Plain {
		RenderPlain(stdout, res)
	} else {
		Render(stdout, res)
	}
	return 0
}
