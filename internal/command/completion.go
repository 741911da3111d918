// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tarkovdev/purgectl/internal/meta"
)

const bashCompletionScript = `# bash completion for purgectl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_purgectl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "diff purge completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local store="--store --dir -d --bucket --prefix --region --profile --s3-endpoint --isolation"

    case "$cmd" in
        diff)
            local opts="$store --output -o --verbose -V"
            ;;
        purge)
            local opts="$store --token --production --endpoint --min-interval --query -q --parallel"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts=""
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json" -- "$cur") )
            return 0
            ;;
        --store)
            COMPREPLY=( $(compgen -W "dir s3" -- "$cur") )
            return 0
            ;;
        --isolation)
            COMPREPLY=( $(compgen -W "process goroutine" -- "$cur") )
            return 0
            ;;
        --dir|-d)
            COMPREPLY=( $(compgen -o dirnames -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    fi
    return 0
}

complete -F _purgectl purgectl
`

const zshCompletionScript = `#compdef purgectl

_purgectl() {
  local -a cmds
  cmds=(
    'diff:show which records changed since the previous snapshot'
    'purge:purge the API cache for changed records'
    'completion:generate shell completion script'
  )

  local -a store
  store=(
  '--store[snapshot store]:store:(dir s3)'
  '(-d --dir)'{-d,--dir}'[dumps directory]:dir:_directories'
  '--bucket[versioned S3 bucket]:bucket'
  '--prefix[key prefix]:prefix'
  '--region[AWS region]:region'
  '--profile[AWS profile]:profile'
  '--s3-endpoint[S3 compatible endpoint]:url'
  '--isolation[diff worker isolation]:isolation:(process goroutine)'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'purgectl commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    diff)
      _arguments -C \
        $store \
        '(-o --output)'{-o,--output}'[output format]:format:(text json)' \
        '(-V --verbose)'{-V,--verbose}'[render changed records]' \
        '*:dataset'
      ;;
    purge)
      _arguments -C \
        $store \
        '--token[cache-management API token]:token' \
        '--production[purge the production API]' \
        '--endpoint[cache-management API URL]:url' \
        '--min-interval[cooldown window]:duration' \
        '*'{-q,--query}'[raw query to purge]:query' \
        '--parallel[datasets purged concurrently]:n' \
        '*:dataset'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _purgectl purgectl
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	out := stdout(GetMeta(cmd))

	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	if shell == "" {
		// Try to detect from SHELL.
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	switch shell {
	case "bash":
		fmt.Fprint(out, bashCompletionScript)
	case "zsh":
		fmt.Fprint(out, zshCompletionScript)
	default:
		fmt.Fprintln(os.Stderr, "usage: purgectl completion [bash|zsh]")
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "purgectl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
