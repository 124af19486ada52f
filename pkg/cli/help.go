package cli

import (
	"fmt"
	"io"
)

// PrintUsage writes the top-level command help.
func PrintUsage(out io.Writer) {
	fmt.Fprint(out, `netrefresh: branch-site device refresh and template migration

Usage:
  netrefresh <command> [flags]

Commands:
  refresh    Run the phased device refresh for one site
               -plan <file>      refresh plan JSON (default: <plans_dir>/<site>.json)
               -site <name>      site network name (defaults to the plan's site)
               -out <dir>        directory for the summary file (default ".")
  migrate    Move a site to a different configuration template
               -site <name>      site network name (required)
               -template <ref>   template ID or name (required)
  staging    Manage staging networks used to pre-claim devices
               capacity          show slot usage per staging network
               add -serials a,b  distribute serials across free slots
                  [-copy]        copy removal commands to the clipboard
               remove -network <name> -serials a,b
               clear             remove every staged device
  networks   List site networks
               -search <text>    filter by substring
  version    Print the build version

Flags common to all commands:
  -config <file>   configuration file (default "netrefresh.json")
  -yes             answer yes to every prompt
  -debug           enable debug logging

Environment:
  NETREFRESH_API_KEY    control-plane API key (or the variable named by
                        dashboard.api_key_env in the config file)
  NETREFRESH_ENDPOINT   control-plane base URL when no config file is used
  NETREFRESH_ORG_ID     organization ID when no config file is used

A .env file in the working directory is loaded automatically.
`)
}
