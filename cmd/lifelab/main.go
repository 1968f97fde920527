// Command lifelab is the LifeLab daemon and CLI.
package main

import "github.com/lifelab-app/lifelab/internal/cli"

func main() {
	cli.Execute()
}
