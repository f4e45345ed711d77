package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/prodbyeagle/eagle/internal/config"
	"github.com/prodbyeagle/eagle/internal/git"
	"github.com/prodbyeagle/eagle/internal/project"
	"github.com/prodbyeagle/eagle/internal/shell"
)

const createHelp = `
Create a new project from one of the starter templates.

The template is cloned into <root>/<folder>/<name>, its git history is
removed and its dependencies are bumped with "bun update --latest".

Templates and their folders:
  discord      discord/
  next         frontend/
  typescript   typescript/

The root is --root, else $EAGLE_CREATE_ROOT, else create.root from the
config, else ~/Development/.YY for the current year. A missing --name or
--template is asked for interactively.
`

func newCreateCmd(a *app) *cobra.Command {
	var name, tmplName, root string

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"c"},
		Short:   "Create a new project from a template",
		Long:    createHelp,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			var err error
			if !cmd.Flags().Changed("name") {
				if name, err = ask(in, a.out, "Enter project name: "); err != nil {
					return err
				}
			}
			if err := project.ValidateName(name); err != nil {
				return err
			}

			if !cmd.Flags().Changed("template") {
				question := fmt.Sprintf("Choose a template (%s) [%s]: ",
					strings.Join(project.TemplateNames(), ", "), project.Templates[0].Name)
				if tmplName, err = ask(in, a.out, question); err != nil {
					return err
				}
				if tmplName == "" {
					tmplName = project.Templates[0].Name
				}
			}
			tmpl, err := project.LookupTemplate(tmplName)
			if err != nil {
				return err
			}

			if root == "" {
				root = a.cfg.Create.Root
			}
			if root == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("locate home directory: %w", err)
				}
				root = project.DefaultRoot(home, time.Now())
			}
			if root, err = config.ExpandHome(root); err != nil {
				return err
			}

			c := project.New(root,
				project.WithPrinter(a.printer),
				project.WithLogger(a.logger),
				project.WithRunner(shell.Exec{Stdout: a.out, Stderr: a.errOut}),
				project.WithCloner(func(dir string) project.Cloner {
					return git.NewClient(dir, git.WithProgress(a.errOut))
				}),
			)
			_, err = c.Create(cmd.Context(), tmpl, name)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&name, "name", "n", "", "project name")
	f.StringVarP(&tmplName, "template", "t", "", "template: "+strings.Join(project.TemplateNames(), " | "))
	f.StringVar(&root, "root", "", "base folder for projects (default $EAGLE_CREATE_ROOT or ~/Development/.YY)")
	return cmd
}

// ask prints question and returns the trimmed answer line.
func ask(in *bufio.Reader, out io.Writer, question string) (string, error) {
	fmt.Fprint(out, question)
	answer, err := in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(answer), nil
}
