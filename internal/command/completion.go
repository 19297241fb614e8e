// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
)

const bashCompletionScript = `# bash completion for tflens
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_tflens()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "resolve vars check completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
  local common="--output -o --titles -t --tldr"

    # Determine if an optional RootDir (first non-flag after subcommand) has
    # already been provided
    local have_rootdir=0
    local idx=2
    while [[ $idx -lt ${#COMP_WORDS[@]} ]]; do
        local w=${COMP_WORDS[$idx]}
        if [[ $w != -* ]]; then
            have_rootdir=1
            break
        fi
        ((idx++))
    done

    case "$cmd" in
    resolve)
      local opts="$common --chain -c --no-state --stats"
            ;;
        vars)
      local opts="$common --category -k --no-state --sort -s --stats"
            ;;
        check)
      local opts="$common"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json yaml" -- "$cur") )
        return 0
    fi

    if [[ "$prev" == "--category" || "$prev" == "-k" ]]; then
        COMPREPLY=( $(compgen -W "locals includes envVars" -- "$cur") )
        return 0
    fi

  # If current token starts with '-', or we've already consumed RootDir, offer flags
  if [[ "$cur" == -* || $have_rootdir -eq 1 ]]; then
    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
  fi

  # Otherwise, we're on the (optional) RootDir positional - complete directories
  COMPREPLY=( $(compgen -o dirnames -- "$cur") )
  return 0
}

complete -F _tflens tflens
`

const zshCompletionScript = `#compdef tflens

_tflens() {
  local -a cmds
  cmds=(
    'resolve:resolve a symbolic expression'
    'vars:list and resolve variables'
    'check:validate configuration files'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-o --output)'{-o,--output}'[output format]:format:(text json yaml)'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--tldr[show tldr page]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'tflens commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    resolve)
      _arguments -C \
        $common \
        '(-c --chain)'{-c,--chain}'[show resolution chain]' \
        '--no-state[never read Terraform state]' \
        '--stats[show cache statistics]' \
        '::RootDir:_directories'
      ;;
    vars)
      _arguments -C \
        $common \
        '(-k --category)'{-k,--category}'[variable category]:category:(locals includes envVars)' \
        '(-s --sort)'{-s,--sort}'[sort fields]:fields' \
        '--no-state[never read Terraform state]' \
        '--stats[show cache statistics]' \
        '::RootDir:_directories'
      ;;
    check)
      _arguments -C \
        $common \
        '::RootDir:_directories'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common '*:directory:_directories'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _tflens tflens tflens
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(os.Stdout, bashCompletionScript)
	case "zsh":
		fmt.Fprint(os.Stdout, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(os.Stdout, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(os.Stdout, bashCompletionScript)
		default:
			fmt.Fprintln(os.Stderr, "usage: tflens completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(session Session) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "tflens completion [bash|zsh]",
		Metadata: map[string]any{
			"session": session,
		},
		Action: completionCommandAction,
	}
}
