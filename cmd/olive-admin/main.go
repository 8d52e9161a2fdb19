// Command olive-admin drives the canteen session from a terminal: it logs in
// with a credential row, consumes handoff URLs and asks the route guard where
// a path would lead. The session lives in a file instead of a browser cookie.
package main

import (
	"os"
)

func main() {
	cmd := newRootCmd(defaultEnv())
	if err := cmd.Execute(); err != nil {
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}
