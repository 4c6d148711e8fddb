// Command cubecue plays the cube game's sound catalog and drives scripted sessions
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
