// ABOUTME: Entry point for article-desk CLI
// ABOUTME: Terminal client for browsing and editing articles on the articles API

package main

import (
	"fmt"
	"os"

	"github.com/markalston/article-desk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
