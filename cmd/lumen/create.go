package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lumen-dev/lumen/internal/config"
)

func createCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a new Lumen project",
		Long: `Create a new Lumen project directory with a lumen.json, an assets
directory, and a minimal main.go.

Examples:
  lumen create myapp
  lumen create .`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(args[0])
		},
	}

	return cmd
}

func runCreate(name string) error {
	dir := name
	projectName := name
	if name == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		dir = wd
		projectName = filepath.Base(wd)
	}

	if config.Exists(dir) {
		return fmt.Errorf("%s already contains a lumen.json", dir)
	}
	if err := os.MkdirAll(filepath.Join(dir, "assets"), 0755); err != nil {
		return err
	}

	cfg := config.New()
	cfg.Name = projectName
	cfg.Window.Title = projectName
	if err := cfg.SaveTo(filepath.Join(dir, config.ConfigFileName)); err != nil {
		return err
	}

	mainPath := filepath.Join(dir, "main.go")
	if _, err := os.Stat(mainPath); os.IsNotExist(err) {
		if err := os.WriteFile(mainPath, []byte(mainTemplate), 0644); err != nil {
			return err
		}
	}

	printBanner()
	success("Created %s", projectName)
	info("cd %s && go mod init && go mod tidy", name)
	return nil
}

const mainTemplate = `package main

import (
	"context"
	"log"
	"time"

	"github.com/lumen-dev/lumen/pkg/markup"
	"github.com/lumen-dev/lumen/pkg/reactive"
	"github.com/lumen-dev/lumen/pkg/shell"
)

func App() *markup.Node {
	count := reactive.UseSignal(0)
	return markup.Div(
		markup.H1(markup.Textf("Count: %d", count.Get())),
		markup.Button(
			markup.OnClick(func(markup.Event) { count.Set(count.Peek() + 1) }),
			"Increment",
		),
	)
}

func main() {
	app, err := shell.NewApp(shell.AppOptions{})
	if err != nil {
		log.Fatal(err)
	}

	shell.NewWindow().
		Title("My App").
		Content(shell.Component(App)).
		Open()

	loop := shell.NewTickerLoop(16 * time.Millisecond)
	if err := app.Run(context.Background(), loop); err != nil {
		log.Fatal(err)
	}
}
`
