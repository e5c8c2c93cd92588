package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// waitForEnter keeps a double-clicked console window open until the user
// presses Enter. Skipped with --no-wait or when stdin is not a terminal.
func waitForEnter(cmd *cobra.Command) {
	if noWait {
		return
	}
	fi, err := os.Stdin.Stat()
	if err != nil || fi.Mode()&os.ModeCharDevice == 0 {
		return
	}
	fmt.Fprint(cmd.OutOrStdout(), "\nPress Enter to exit...")
	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
}
