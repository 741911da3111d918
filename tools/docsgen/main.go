// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// docsgen renders markdown and man pages for every visible purgectl command
// from the live command tree.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/tarkovdev/purgectl/internal/command"
)

type Flag struct {
	Names   []string
	Usage   string
	Default string
	EnvVars []string
}

// Syntax returns the flag spelled the way it is typed.
func (f Flag) Syntax() string {
	parts := make([]string, 0, len(f.Names))
	for _, n := range f.Names {
		if len(n) == 1 {
			parts = append(parts, "-"+n)
		} else {
			parts = append(parts, "--"+n)
		}
	}
	return strings.Join(parts, ", ")
}

type TemplateData struct {
	ID        string
	IDUpper   string
	Usage     string
	UsageText string
	Flags     []Flag
	Date      string
	Version   string
}

type Outputs struct {
	Template string
	Folder   string
	Prefix   string
	Suffix   string
}

// docFlag is the part of cli.DocGenerationFlag docsgen reads.
type docFlag interface {
	GetUsage() string
	GetDefaultText() string
	GetEnvVars() []string
}

const markdownTmpl = `# purgectl {{.ID}}

{{.Usage}}

` + "```" + `
{{.UsageText}}
` + "```" + `

## Flags
{{range .Flags}}
- ` + "`{{.Syntax}}`" + ` {{.Usage}}{{if .Default}} (default {{.Default}}){{end}}{{if .EnvVars}} [{{join .EnvVars ", "}}]{{end}}
{{- end}}
`

const manTmpl = `.TH PURGECTL-{{.IDUpper}} 1 "{{.Date}}" "purgectl {{.Version}}"
.SH NAME
purgectl-{{.ID}} \- {{.Usage}}
.SH SYNOPSIS
{{.UsageText}}
.SH OPTIONS
{{- range .Flags}}
.TP
\fB{{.Syntax}}\fR
{{.Usage}}{{if .Default}} (default {{.Default}}){{end}}
{{- end}}
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen <docs dir>")
		os.Exit(1)
	}
	docs := os.Args[1]

	app, err := command.InitApp(context.Background(), []string{"purgectl"})
	if err != nil {
		panic(err)
	}

	types := []Outputs{
		{Template: markdownTmpl, Folder: filepath.Join(docs, "commands"), Suffix: ".md"},
		{Template: manTmpl, Folder: filepath.Join(docs, "man", "share", "man1"), Prefix: "purgectl-", Suffix: ".1"},
	}

	version := getVersion()
	for _, cmd := range app.Commands {
		if cmd.Hidden {
			continue
		}
		data := templateData(cmd, version, time.Now())

		for _, t := range types {
			if err := os.MkdirAll(t.Folder, 0o755); err != nil {
				panic(err)
			}

			path := filepath.Join(t.Folder, t.Prefix+cmd.Name+t.Suffix)
			fmt.Println("Generating", path)
			file, err := os.Create(path)
			if err != nil {
				panic(err)
			}
			if err := render(file, t.Template, data); err != nil {
				panic(err)
			}
			file.Close()
		}
	}
}

func templateData(cmd *cli.Command, version string, now time.Time) TemplateData {
	data := TemplateData{
		ID:        cmd.Name,
		IDUpper:   strings.ToUpper(cmd.Name),
		Usage:     cmd.Usage,
		UsageText: cmd.UsageText,
		Date:      now.Format("January 2, 2006"),
		Version:   version,
	}
	for _, f := range cmd.Flags {
		flag := Flag{Names: f.Names()}
		if df, ok := f.(docFlag); ok {
			flag.Usage = df.GetUsage()
			flag.Default = df.GetDefaultText()
			flag.EnvVars = df.GetEnvVars()
		}
		data.Flags = append(data.Flags, flag)
	}
	return data
}

func render(w io.Writer, text string, data TemplateData) error {
	tmpl, err := template.New(data.ID).Funcs(template.FuncMap{"join": strings.Join}).Parse(text)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, data)
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}

	version := strings.TrimSpace(string(out))
	return strings.TrimPrefix(version, "v")
}
